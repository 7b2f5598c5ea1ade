package parse

import (
	"regexp"
	"strings"

	"rapidpark/internal/db"
)

// Registration plates like "KA01AB1234" or "ABC-1234".
var plateRe = regexp.MustCompile(`[A-Z]{2}\d{2}[A-Z]{2}\d{4}|[A-Z]{3}-?\d{4}`)

// Vehicle extracts a registration plate and vehicle type from speech like
// "KA01AB1234, car". The plate is matched both as spoken and with spaces
// collapsed, since transcripts often split plates into groups
// ("KA 01 AB 1234"). Type defaults to car when only a plate is heard.
func Vehicle(utterance string) (reg, vehicleType string, err error) {
	text := strings.ToLower(utterance)

	switch {
	case containsAny(text, "motorcycle", "motorbike", "bike"):
		vehicleType = db.VehicleMotorcycle
	case containsAny(text, "truck", "van"):
		vehicleType = db.VehicleTruck
	case containsAny(text, "car", "sedan", "suv"):
		vehicleType = db.VehicleCar
	}

	upper := strings.ToUpper(utterance)
	reg = plateRe.FindString(upper)
	if reg == "" {
		reg = plateRe.FindString(strings.ReplaceAll(upper, " ", ""))
	}
	if reg == "" {
		return "", "", ErrNoMatch
	}
	if vehicleType == "" {
		vehicleType = db.VehicleCar
	}
	return reg, vehicleType, nil
}

func containsAny(text string, words ...string) bool {
	for _, w := range words {
		if strings.Contains(text, w) {
			return true
		}
	}
	return false
}
