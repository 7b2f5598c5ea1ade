package service

import (
	"strings"
	"time"

	"rapidpark/internal/config"
	"rapidpark/internal/db"
)

// PriceCalculator turns a vehicle class and a time interval into a price in
// cents. Partial hours always bill as full hours, and every reservation is
// charged at least the configured minimum.
type PriceCalculator struct {
	BaseRate         int
	CarRate          int
	MotorcycleRate   int
	TruckRate        int
	MinChargeMinutes int
}

func NewPriceCalculator(cfg *config.Config) *PriceCalculator {
	return &PriceCalculator{
		BaseRate:         cfg.RateCentsPerHour,
		CarRate:          cfg.RateCentsPerHourCar,
		MotorcycleRate:   cfg.RateCentsPerHourMotorcycle,
		TruckRate:        cfg.RateCentsPerHourTruck,
		MinChargeMinutes: cfg.MinChargeMinutes,
	}
}

// Price computes the charge for parking vehicleType from start to end.
// Pure: identical inputs always yield identical output.
func (c *PriceCalculator) Price(vehicleType string, start, end time.Time) (int, error) {
	if !end.After(start) {
		return 0, ErrInvalidInterval
	}
	totalMinutes := int(end.Sub(start) / time.Minute)
	billableMinutes := totalMinutes
	if billableMinutes < c.MinChargeMinutes {
		billableMinutes = c.MinChargeMinutes
	}
	billableHours := (billableMinutes + 59) / 60
	return billableHours * c.rateFor(vehicleType), nil
}

// rateFor selects the hourly rate for a vehicle class. Unknown or empty
// classes fall back to the base rate.
func (c *PriceCalculator) rateFor(vehicleType string) int {
	switch strings.ToLower(strings.TrimSpace(vehicleType)) {
	case db.VehicleCar:
		return c.CarRate
	case db.VehicleMotorcycle:
		return c.MotorcycleRate
	case db.VehicleTruck:
		return c.TruckRate
	default:
		return c.BaseRate
	}
}
