package extract

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/ofxsheet/internal/locale"
	"github.com/Veraticus/ofxsheet/internal/model"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 12, 0, 0, 0, time.UTC)
}

func txNode(id string, amount string, tag string) model.Fields {
	return model.Fields{
		model.KeyID:     id,
		model.KeyDate:   day(2024, 1, 15),
		model.KeyType:   tag,
		model.KeyAmount: decimal.RequireFromString(amount),
	}
}

func TestExtractAccount(t *testing.T) {
	acct := model.Fields{
		model.KeyBankID:      "001",
		model.KeyBranchID:    "0042",
		model.KeyAccountID:   "12345",
		model.KeyAccountType: "CHECKING",
		model.KeyCurrency:    "USD",
		model.KeyInstitution: model.Fields{model.KeyOrg: "Test Bank", model.KeyFID: "999"},
		model.KeyStatement: model.Fields{
			model.KeyStartDate:   day(2024, 1, 1),
			model.KeyEndDate:     day(2024, 1, 31),
			model.KeyBalanceDate: day(2024, 1, 31),
			model.KeyBalance:     decimal.RequireFromString("1000.00"),
			model.KeyTransactions: []model.Node{
				txNode("T1", "50.00", "credit"),
				txNode("T2", "-20.00", "debit"),
			},
		},
	}

	got := New(locale.MustLookup(locale.English)).Account(acct)

	s := got.Summary
	assert.Equal(t, "001", s.Bank)
	assert.Equal(t, "0042", s.Branch)
	assert.Equal(t, "12345", s.AccountNumber)
	assert.Equal(t, "CHECKING", s.AccountTypeTag)
	assert.Equal(t, "Checking Account", s.AccountType)
	assert.Equal(t, "Test Bank", s.Organization)
	assert.Equal(t, "USD", s.Currency)
	require.NotNil(t, s.StartDate)
	assert.Equal(t, "2024-01-01", *s.StartDate)
	require.NotNil(t, s.EndDate)
	assert.Equal(t, "2024-01-31", *s.EndDate)
	require.True(t, s.Balance.Valid)
	assert.True(t, decimal.RequireFromString("1000").Equal(s.Balance.Decimal))
	assert.False(t, s.AvailableBalance.Valid)

	require.Len(t, got.Transactions, 2)
	assert.Equal(t, "T1", got.Transactions[0].ID)
	assert.Equal(t, "CREDIT", got.Transactions[0].Type)
	assert.Equal(t, "credit", got.Transactions[0].TypeTag)
	assert.Equal(t, "T2", got.Transactions[1].ID)
	assert.Equal(t, "DEBIT", got.Transactions[1].Type)

	assert.Equal(t, 2, s.Totals.Count)
	assert.True(t, decimal.RequireFromString("50").Equal(s.Totals.Credit))
	assert.True(t, decimal.RequireFromString("-20").Equal(s.Totals.Debit))
}

func TestBankLabelPrecedence(t *testing.T) {
	tests := []struct {
		acct     model.Fields
		name     string
		expected string
	}{
		{
			name: "explicit bank id",
			acct: model.Fields{
				model.KeyBankID:      "001",
				model.KeyInstitution: model.Fields{model.KeyFID: "999", model.KeyOrg: "ORG"},
			},
			expected: "001",
		},
		{
			name: "institution fid",
			acct: model.Fields{
				model.KeyInstitution: model.Fields{model.KeyFID: "999", model.KeyOrg: "ORG"},
			},
			expected: "999",
		},
		{
			name: "institution org",
			acct: model.Fields{
				model.KeyBankID:      "",
				model.KeyInstitution: model.Fields{model.KeyOrg: "ORG"},
			},
			expected: "ORG",
		},
		{
			name:     "nothing available",
			acct:     model.Fields{},
			expected: "",
		},
	}

	e := New(locale.MustLookup(locale.English))
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, e.Account(tt.acct).Summary.Bank)
		})
	}
}

func TestBranchFallsBackToRoutingNumber(t *testing.T) {
	e := New(locale.MustLookup(locale.English))

	got := e.Account(model.Fields{model.KeyRoutingNumber: "123456789"})
	assert.Equal(t, "123456789", got.Summary.Branch)

	got = e.Account(model.Fields{model.KeyBranchID: "7", model.KeyRoutingNumber: "123456789"})
	assert.Equal(t, "7", got.Summary.Branch)
}

func TestExtractToleratesMissingEverything(t *testing.T) {
	e := New(locale.MustLookup(locale.English))

	got := e.Account(nil)

	assert.Empty(t, got.Transactions)
	assert.Empty(t, got.Summary.Bank)
	assert.Nil(t, got.Summary.StartDate)
	assert.Nil(t, got.Summary.BalanceDate)
	assert.False(t, got.Summary.Balance.Valid)
	assert.Equal(t, 0, got.Summary.Totals.Count)
	assert.True(t, got.Summary.Totals.Credit.IsZero())
	assert.True(t, got.Summary.Totals.Debit.IsZero())
}

func TestExtractKeepsAccountOrder(t *testing.T) {
	e := New(locale.MustLookup(locale.English))

	got := e.Extract([]model.Node{
		model.Fields{model.KeyAccountID: "B"},
		model.Fields{model.KeyAccountID: "A"},
	})

	require.Len(t, got, 2)
	assert.Equal(t, "B", got[0].Summary.AccountNumber)
	assert.Equal(t, "A", got[1].Summary.AccountNumber)
}

func TestAccountTypePassThrough(t *testing.T) {
	e := New(locale.MustLookup(locale.English))

	got := e.Account(model.Fields{model.KeyAccountType: "MONEYMRKT"})

	assert.Equal(t, "MONEYMRKT", got.Summary.AccountType)
}

func TestTransactionFields(t *testing.T) {
	e := New(locale.MustLookup(locale.Brazilian))

	tx := e.Transaction(model.Fields{
		model.KeyID:       "T9",
		model.KeyDate:     day(2024, 3, 5),
		model.KeyType:     "debit",
		model.KeyAmount:   decimal.RequireFromString("-12.34"),
		model.KeyMemo:     "Padaria",
		model.KeyPayee:    "Padaria do Zé",
		model.KeyCheckNum: "000123",
	})

	assert.Equal(t, "T9", tx.ID)
	require.NotNil(t, tx.Date)
	assert.Equal(t, "05/03/2024", *tx.Date)
	assert.Equal(t, "DÉBITO", tx.Type)
	require.True(t, tx.Amount.Valid)
	assert.Equal(t, "-12.34", tx.Amount.Decimal.StringFixed(2))
	assert.Equal(t, "Padaria", tx.Memo)
	assert.Equal(t, "Padaria do Zé", tx.Payee)
	require.NotNil(t, tx.CheckNum)
	assert.Equal(t, "000123", *tx.CheckNum)
	assert.Empty(t, tx.AmountText)
}

func TestTransactionMissingOptionalFields(t *testing.T) {
	e := New(locale.MustLookup(locale.English))

	tx := e.Transaction(model.Fields{model.KeyID: "T1", model.KeyType: "xfer"})

	assert.Nil(t, tx.Date)
	assert.Nil(t, tx.CheckNum)
	assert.False(t, tx.Amount.Valid)
	assert.Equal(t, "xfer", tx.Type)
	assert.Empty(t, tx.Memo)
	assert.Empty(t, tx.Payee)
	assert.Empty(t, tx.AmountText)
}

func TestTransactionMalformedAmountDegradesToText(t *testing.T) {
	e := New(locale.MustLookup(locale.English))

	tx := e.Transaction(model.Fields{model.KeyAmount: "12,50"})

	assert.False(t, tx.Amount.Valid)
	assert.Equal(t, "12,50", tx.AmountText)
}

type customDate struct{}

func (customDate) Format(layout string) string { return "custom:" + layout }

func TestFormatDate(t *testing.T) {
	e := New(locale.MustLookup(locale.English))

	tests := []struct {
		value    any
		expected *string
		name     string
	}{
		{name: "time", value: day(2024, 12, 1), expected: ptr("2024-12-01")},
		{name: "absent", value: nil, expected: nil},
		{name: "zero time", value: time.Time{}, expected: nil},
		{name: "formatter", value: customDate{}, expected: ptr("custom:2006-01-02")},
		{name: "string falls back", value: "20240101", expected: ptr("20240101")},
		{name: "number falls back", value: 20240101, expected: ptr("20240101")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := e.formatDate(model.Fields{model.KeyDate: tt.value}, model.KeyDate)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func ptr[T any](v T) *T {
	return &v
}
