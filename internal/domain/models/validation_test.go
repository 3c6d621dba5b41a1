package models

import (
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidTaxID(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"0101999888", true},
		{"0101999888-001", true},
		{"", false},
		{"010199988", false},
		{"01019998881", false},
		{"0101999888-01", false},
		{"0101[99988", false},
		{"010199988*", false},
		{"01019998?8", false},
		{"ABCDEFGHIJ", false},
		{" 0101999888", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ValidTaxID(tt.in), tt.in)
	}
}

func TestRegisterValidationsCoversCompanyAndRequests(t *testing.T) {
	v := validator.New(validator.WithRequiredStructEnabled())
	require.NoError(t, RegisterValidations(v))

	assert.NoError(t, v.Struct(CompanyInfo{TaxID: "0101999888", Name: "FinAI"}))
	assert.Error(t, v.Struct(CompanyInfo{TaxID: "0101*99988", Name: "FinAI"}))
	assert.Error(t, v.Struct(CompanyRequest{TaxID: "0101[99988"}))
	assert.Error(t, v.Struct(TrendRequest{TaxID: "x", Statement: "income", Mode: "vertical"}))
	assert.NoError(t, v.Struct(CompanyRiskRequest{TaxID: "0101999888-002", Year: 2024}))
}
