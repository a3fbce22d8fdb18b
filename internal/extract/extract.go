// Package extract turns the parsed statement node graph into typed account and
// transaction records ready for reporting.
package extract

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Veraticus/ofxsheet/internal/locale"
	"github.com/Veraticus/ofxsheet/internal/model"
)

// Transaction is one normalized statement entry.
type Transaction struct {
	Date     *string
	CheckNum *string
	Amount   decimal.NullDecimal
	ID       string
	TypeTag  string
	Type     string
	Memo     string
	Payee    string

	// AmountText is the raw amount when it could not be read as a number.
	AmountText string
}

// AccountSummary is the per-account record.
type AccountSummary struct {
	StartDate        *string
	EndDate          *string
	BalanceDate      *string
	Balance          decimal.NullDecimal
	AvailableBalance decimal.NullDecimal
	Bank             string
	Organization     string
	Currency         string
	Branch           string
	AccountNumber    string
	AccountTypeTag   string
	AccountType      string
	Totals           Totals
}

// Account pairs a summary with its transactions in statement order.
type Account struct {
	Transactions []Transaction
	Summary      AccountSummary
}

// Extractor maps account nodes to records using one locale's labels.
type Extractor struct {
	labels locale.Labels
}

// New creates an extractor for the given labels.
func New(labels locale.Labels) *Extractor {
	return &Extractor{labels: labels}
}

// Extract converts every account node, keeping parser order.
func (e *Extractor) Extract(accounts []model.Node) []Account {
	out := make([]Account, 0, len(accounts))
	for _, acct := range accounts {
		out = append(out, e.Account(acct))
	}
	return out
}

// Account converts one account node. Missing fields never cause a failure.
func (e *Extractor) Account(acct model.Node) Account {
	institution := model.Child(acct, model.KeyInstitution)
	statement := model.Child(acct, model.KeyStatement)

	nodes := model.Children(statement, model.KeyTransactions)
	transactions := make([]Transaction, 0, len(nodes))
	for _, n := range nodes {
		transactions = append(transactions, e.Transaction(n))
	}

	typeTag, _ := model.Text(acct, model.KeyAccountType)

	summary := AccountSummary{
		Bank:             bankLabel(acct, institution),
		Branch:           optionalText(acct, model.KeyBranchID, model.KeyRoutingNumber),
		AccountNumber:    optionalText(acct, model.KeyAccountID),
		AccountTypeTag:   typeTag,
		AccountType:      e.labels.AccountType(typeTag),
		Organization:     optionalText(institution, model.KeyOrg),
		Currency:         optionalText(acct, model.KeyCurrency),
		StartDate:        e.formatDate(statement, model.KeyStartDate),
		EndDate:          e.formatDate(statement, model.KeyEndDate),
		BalanceDate:      e.formatDate(statement, model.KeyBalanceDate),
		Balance:          nullAmount(statement, model.KeyBalance),
		AvailableBalance: nullAmount(statement, model.KeyAvailableBalance),
		Totals:           ComputeTotals(transactions),
	}

	return Account{
		Summary:      summary,
		Transactions: transactions,
	}
}

// Transaction converts one transaction node.
func (e *Extractor) Transaction(n model.Node) Transaction {
	tag, _ := model.Text(n, model.KeyType)

	tx := Transaction{
		ID:       optionalText(n, model.KeyID),
		Date:     e.formatDate(n, model.KeyDate),
		TypeTag:  tag,
		Type:     e.labels.TransactionType(tag),
		Amount:   nullAmount(n, model.KeyAmount),
		Memo:     optionalText(n, model.KeyMemo),
		Payee:    optionalText(n, model.KeyPayee),
		CheckNum: nullableText(n, model.KeyCheckNum),
	}
	if !tx.Amount.Valid && model.Has(n, model.KeyAmount) {
		tx.AmountText = optionalText(n, model.KeyAmount)
	}
	return tx
}

// bankLabel resolves BANKID, then the institution FID, then its ORG.
func bankLabel(acct, institution model.Node) string {
	if bank, ok := model.Text(acct, model.KeyBankID); ok {
		return bank
	}
	return optionalText(institution, model.KeyFID, model.KeyOrg)
}

// formatDate renders a date field with the locale layout. Absent dates stay nil;
// values that are not times fall back to their default string form.
func (e *Extractor) formatDate(n model.Node, key model.Key) *string {
	v := model.Get[any](n, key, nil)

	var s string
	switch typed := v.(type) {
	case nil:
		return nil
	case time.Time:
		if typed.IsZero() {
			return nil
		}
		s = typed.Format(e.labels.DateLayout)
	case interface{ Format(string) string }:
		s = typed.Format(e.labels.DateLayout)
	default:
		s = fmt.Sprint(typed)
	}
	return &s
}

func optionalText(n model.Node, keys ...model.Key) string {
	s, _ := model.FirstText(n, keys...)
	return s
}

func nullableText(n model.Node, key model.Key) *string {
	s, ok := model.Text(n, key)
	if !ok {
		return nil
	}
	return &s
}

func nullAmount(n model.Node, key model.Key) decimal.NullDecimal {
	d, ok := model.Amount(n, key)
	return decimal.NullDecimal{Decimal: d, Valid: ok}
}
