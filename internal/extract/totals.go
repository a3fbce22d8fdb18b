package extract

import "github.com/shopspring/decimal"

// Totals aggregates one statement's transactions.
type Totals struct {
	Credit decimal.Decimal
	Debit  decimal.Decimal
	Count  int
}

// ComputeTotals sums non-negative amounts into Credit and negative amounts into Debit.
// Amounts that could not be read count towards Count only.
func ComputeTotals(transactions []Transaction) Totals {
	totals := Totals{
		Credit: decimal.Zero,
		Debit:  decimal.Zero,
		Count:  len(transactions),
	}

	for _, tx := range transactions {
		if !tx.Amount.Valid {
			continue
		}
		if tx.Amount.Decimal.IsNegative() {
			totals.Debit = totals.Debit.Add(tx.Amount.Decimal)
		} else {
			totals.Credit = totals.Credit.Add(tx.Amount.Decimal)
		}
	}

	return totals
}

// Net is the signed sum of every readable amount.
func (t Totals) Net() decimal.Decimal {
	return t.Credit.Add(t.Debit)
}
