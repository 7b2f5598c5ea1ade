package parse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rapidpark/internal/db"
)

func TestVehicle(t *testing.T) {
	cases := []struct {
		utterance string
		wantReg   string
		wantType  string
	}{
		{"KA01AB1234, car", "KA01AB1234", db.VehicleCar},
		{"it's a motorcycle, plate KA 01 AB 1234", "KA01AB1234", db.VehicleMotorcycle},
		{"my truck is ABC-1234", "ABC-1234", db.VehicleTruck},
		{"ABC 1234, a van", "ABC1234", db.VehicleTruck},
		{"the bike, mh02cd5678", "MH02CD5678", db.VehicleMotorcycle},
		{"KA01AB1234", "KA01AB1234", db.VehicleCar}, // type defaults to car
		{"an SUV with plate XYZ-9876", "XYZ-9876", db.VehicleCar},
	}
	for _, tc := range cases {
		t.Run(tc.utterance, func(t *testing.T) {
			reg, vehicleType, err := Vehicle(tc.utterance)
			require.NoError(t, err)
			assert.Equal(t, tc.wantReg, reg)
			assert.Equal(t, tc.wantType, vehicleType)
		})
	}
}

func TestVehicleNoPlate(t *testing.T) {
	for _, utterance := range []string{"", "a blue car", "I forgot my plate"} {
		_, _, err := Vehicle(utterance)
		assert.ErrorIs(t, err, ErrNoMatch, "utterance %q", utterance)
	}
}
