package validate

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

type contact struct {
	Phone  string          `validate:"omitempty,phone"`
	Postal string          `validate:"omitempty,postal"`
	Price  decimal.Decimal `validate:"money"`
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		input   contact
		isValid bool
	}{
		{
			name:    "given valid contact should pass",
			input:   contact{Phone: "(604) 555-0199", Postal: "V6B 1A1", Price: decimal.RequireFromString("12.50")},
			isValid: true,
		},
		{
			name:    "given empty optional fields should pass",
			input:   contact{Price: decimal.NewFromInt(1)},
			isValid: true,
		},
		{
			name:    "given postal without space should pass",
			input:   contact{Postal: "v6b1a1", Price: decimal.NewFromInt(1)},
			isValid: true,
		},
		{
			name:    "given phone with nine digits should fail",
			input:   contact{Phone: "604-555-019", Price: decimal.NewFromInt(1)},
			isValid: false,
		},
		{
			name:    "given phone with letters should fail",
			input:   contact{Phone: "604-555-CALL-NOW", Price: decimal.NewFromInt(1)},
			isValid: false,
		},
		{
			name:    "given us zip code should fail",
			input:   contact{Postal: "90210", Price: decimal.NewFromInt(1)},
			isValid: false,
		},
		{
			name:    "given zero price should fail",
			input:   contact{Price: decimal.Zero},
			isValid: false,
		},
		{
			name:    "given negative price should fail",
			input:   contact{Price: decimal.NewFromInt(-5)},
			isValid: false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := New().Struct(tt.input)
			if tt.isValid {
				assert.NoError(t, err)
				return
			}
			assert.Error(t, err)
			assert.NotEmpty(t, Message(err))
		})
	}
}
