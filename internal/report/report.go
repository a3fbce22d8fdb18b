// Package report lays extracted statement records out as a single formatted sheet.
package report

import (
	"unicode/utf8"

	"github.com/shopspring/decimal"

	"github.com/Veraticus/ofxsheet/internal/extract"
	"github.com/Veraticus/ofxsheet/internal/locale"
)

// Column positions in the report.
const (
	ColID = iota
	ColBank
	ColAccount
	ColDate
	ColType
	ColAmount
	ColMemo
	ColPayee
	ColCheck
	ColumnCount
)

// WidthPadding is added to the longest observed value of a variable-width column.
const WidthPadding = 2

// fixedWidths holds the widths of columns whose size does not depend on content.
// Variable columns are zero here and computed by the builder.
var fixedWidths = [ColumnCount]float64{
	ColBank:    7,
	ColAccount: 12,
	ColDate:    12,
	ColType:    10,
	ColAmount:  16,
	ColCheck:   20,
}

// variableColumns are sized from their content.
var variableColumns = []int{ColID, ColMemo, ColPayee}

// Row is one display-ready transaction line.
type Row struct {
	Date       *string
	Check      *string
	Amount     decimal.NullDecimal
	ID         string
	Bank       string
	Account    string
	Type       string
	Memo       string
	Payee      string
	AmountText string
}

// Cells returns the row as spreadsheet cell values. Absent values are nil and the
// amount stays an exact decimal; an unreadable amount is shown as its raw text.
func (r Row) Cells() []any {
	cells := make([]any, ColumnCount)
	cells[ColID] = r.ID
	cells[ColBank] = r.Bank
	cells[ColAccount] = r.Account
	if r.Date != nil {
		cells[ColDate] = *r.Date
	}
	cells[ColType] = r.Type
	switch {
	case r.Amount.Valid:
		cells[ColAmount] = r.Amount.Decimal
	case r.AmountText != "":
		cells[ColAmount] = r.AmountText
	}
	cells[ColMemo] = r.Memo
	cells[ColPayee] = r.Payee
	if r.Check != nil {
		cells[ColCheck] = *r.Check
	}
	return cells
}

// Widths are the display widths of each column.
type Widths [ColumnCount]float64

// Sheet is a complete report ready to be persisted.
type Sheet struct {
	Name           string
	CurrencyFormat string
	Headers        [ColumnCount]string
	Rows           []Row
	Widths         Widths
}

// Builder accumulates rows account by account. Column widths are only known,
// and only set on the sheet, once Build is called.
type Builder struct {
	labels   locale.Labels
	rows     []Row
	maxima   [ColumnCount]int
	accounts int
}

// NewBuilder creates a builder using the locale's headers and formats.
func NewBuilder(labels locale.Labels) *Builder {
	return &Builder{labels: labels}
}

// AddAccount emits one row per transaction of acct, in order.
func (b *Builder) AddAccount(acct extract.Account) {
	b.accounts++

	var seen [ColumnCount]int
	for _, tx := range acct.Transactions {
		row := Row{
			ID:         tx.ID,
			Bank:       acct.Summary.Bank,
			Account:    acct.Summary.AccountNumber,
			Date:       tx.Date,
			Type:       tx.Type,
			Amount:     tx.Amount,
			AmountText: tx.AmountText,
			Memo:       tx.Memo,
			Payee:      tx.Payee,
			Check:      tx.CheckNum,
		}
		b.rows = append(b.rows, row)

		seen[ColID] = max(seen[ColID], utf8.RuneCountInString(row.ID))
		seen[ColMemo] = max(seen[ColMemo], utf8.RuneCountInString(row.Memo))
		seen[ColPayee] = max(seen[ColPayee], utf8.RuneCountInString(row.Payee))
	}

	for _, col := range variableColumns {
		b.maxima[col] = max(b.maxima[col], seen[col])
	}
}

// Build finalizes the sheet. The builder can keep accepting accounts afterwards;
// a later Build reflects them.
func (b *Builder) Build() *Sheet {
	sheet := &Sheet{
		Name:           b.labels.SheetName,
		CurrencyFormat: b.labels.CurrencyFormat,
		Headers:        b.labels.Headers,
		Rows:           append([]Row(nil), b.rows...),
		Widths:         b.widths(),
	}
	return sheet
}

// Accounts is the number of accounts added so far.
func (b *Builder) Accounts() int {
	return b.accounts
}

func (b *Builder) widths() Widths {
	w := Widths(fixedWidths)
	for _, col := range variableColumns {
		w[col] = float64(b.maxima[col] + WidthPadding)
	}
	return w
}
