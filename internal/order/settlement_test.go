package order

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestCommissionPolicies(t *testing.T) {
	cases := []struct {
		name   string
		policy CommissionPolicy
		total  string
		want   string
	}{
		{"default twenty percent", DefaultCommission, "100.00", "20"},
		{"rate rounds to cents", RatePolicy{Rate: decimal.RequireFromString("0.20")}, "33.33", "6.67"},
		{"rate on zero", DefaultCommission, "0", "0"},
		{"full total", FullTotalPolicy{}, "80.50", "80.50"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := tc.policy.Commission(decimal.RequireFromString(tc.total))
			assert.True(t, decimal.RequireFromString(tc.want).Equal(got), "got %s", got)
		})
	}
	assert.Equal(t, "rate:0.2", DefaultCommission.Name())
	assert.Equal(t, "full", FullTotalPolicy{}.Name())
}

func TestCreateRequestValidate(t *testing.T) {
	ok := CreateRequest{
		DropshipperID: "ds",
		Customer:      CustomerInput{Name: "n", Phone: "p"},
		Items:         []LineItem{{ProductID: "x", Quantity: 1}},
	}
	assert.NoError(t, ok.Validate())

	noName := ok
	noName.Customer.Name = ""
	assert.ErrorIs(t, noName.Validate(), ErrValidation)
}
