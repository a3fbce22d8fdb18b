package cli

import (
	"bytes"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/ofxsheet/internal/extract"
)

func ptr(s string) *string {
	return &s
}

func sampleSummary() extract.AccountSummary {
	return extract.AccountSummary{
		Organization:    "Test Bank",
		Currency:        "USD",
		Bank:            "001",
		Branch:          "0042",
		AccountNumber:   "12345",
		AccountTypeTag:  "CHECKING",
		AccountType:     "Checking Account",
		StartDate:       ptr("2024-01-01"),
		EndDate:         ptr("2024-01-31"),
		BalanceDate:     ptr("2024-01-31"),
		Balance:         decimal.NullDecimal{Decimal: decimal.RequireFromString("1230.5"), Valid: true},
		Totals: extract.Totals{
			Credit: decimal.RequireFromString("50"),
			Debit:  decimal.RequireFromString("-20"),
			Count:  2,
		},
	}
}

func TestRenderAccount(t *testing.T) {
	out := RenderAccount(sampleSummary())

	for _, want := range []string{
		"Test Bank",
		"001",
		"Checking Account",
		"0042",
		"12345",
		"2024-01-01 - 2024-01-31",
		"1230.50 USD",
		"as of 2024-01-31",
		"50.00",
		"-20.00",
		"30.00",
	} {
		assert.Contains(t, out, want)
	}
	assert.NotContains(t, out, "Available")
}

func TestRenderAccountMissingFields(t *testing.T) {
	out := RenderAccount(extract.AccountSummary{AccountNumber: "999"})

	assert.Contains(t, out, "Account")
	assert.Contains(t, out, "999")
	assert.NotContains(t, out, "Period")
	assert.NotContains(t, out, "Balance")
	assert.NotContains(t, out, "Branch")
}

func TestPeriod(t *testing.T) {
	tests := []struct {
		start *string
		end   *string
		name  string
		want  string
	}{
		{name: "both", start: ptr("a"), end: ptr("b"), want: "a - b"},
		{name: "start only", start: ptr("a"), want: "from a"},
		{name: "end only", end: ptr("b"), want: "until b"},
		{name: "neither", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := period(extract.AccountSummary{StartDate: tt.start, EndDate: tt.end})
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSummaryPrinter(t *testing.T) {
	var buf bytes.Buffer
	accounts := []extract.Account{{
		Summary:      sampleSummary(),
		Transactions: make([]extract.Transaction, 2),
	}}

	require.NoError(t, NewSummaryPrinter(&buf).Print(accounts, "out.xlsx"))

	assert.Contains(t, buf.String(), "Test Bank")
	assert.Contains(t, buf.String(), "Wrote 2 transactions to out.xlsx")
}

func TestSummaryPrinterNoAccounts(t *testing.T) {
	var buf bytes.Buffer

	require.NoError(t, NewSummaryPrinter(&buf).Print(nil, "out.xlsx"))

	assert.Contains(t, buf.String(), "No accounts found")
	assert.Contains(t, buf.String(), "Wrote 0 transactions to out.xlsx")
}
