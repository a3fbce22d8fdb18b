package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"github.com/Veraticus/ofxsheet/internal/extract"
)

const labelWidth = 12

// SummaryPrinter writes per-account summaries after a conversion.
type SummaryPrinter struct {
	writer io.Writer
}

// NewSummaryPrinter creates a printer writing to w.
func NewSummaryPrinter(w io.Writer) *SummaryPrinter {
	return &SummaryPrinter{writer: w}
}

// Print renders one box per account followed by a completion line naming output.
func (p *SummaryPrinter) Print(accounts []extract.Account, output string) error {
	var b strings.Builder

	if len(accounts) == 0 {
		b.WriteString(FormatWarning("No accounts found in statement"))
		b.WriteString("\n")
	}
	for _, acct := range accounts {
		b.WriteString(RenderAccount(acct.Summary))
		b.WriteString("\n")
	}

	rows := 0
	for _, acct := range accounts {
		rows += len(acct.Transactions)
	}
	b.WriteString(FormatSuccess(fmt.Sprintf("Wrote %d transactions to %s", rows, output)))
	b.WriteString("\n")

	_, err := io.WriteString(p.writer, b.String())
	return err
}

// RenderAccount renders a single account summary as a box.
func RenderAccount(s extract.AccountSummary) string {
	title := ChartIcon + " " + accountTitle(s)

	lines := []string{
		line("Bank", s.Bank),
		line("Type", s.AccountType),
	}
	if s.Branch != "" {
		lines = append(lines, line("Branch", s.Branch))
	}
	lines = append(lines, line("Account", s.AccountNumber))
	if p := period(s); p != "" {
		lines = append(lines, line("Period", p))
	}
	if s.Balance.Valid {
		balance := withCurrency(s.Balance.Decimal.StringFixed(2), s.Currency)
		if s.BalanceDate != nil {
			balance += SubtleStyle.Render(" as of " + *s.BalanceDate)
		}
		lines = append(lines, line("Balance", balance))
	}
	if s.AvailableBalance.Valid {
		lines = append(lines, line("Available", withCurrency(s.AvailableBalance.Decimal.StringFixed(2), s.Currency)))
	}

	lines = append(lines,
		line("Credits", SuccessStyle.Render(s.Totals.Credit.StringFixed(2))),
		line("Debits", signed(s.Totals.Debit)),
		line("Net", signed(s.Totals.Net())),
		line("Entries", fmt.Sprintf("%d", s.Totals.Count)),
	)

	return RenderBox(title, lipgloss.JoinVertical(lipgloss.Left, lines...))
}

func accountTitle(s extract.AccountSummary) string {
	switch {
	case s.Organization != "":
		return s.Organization
	case s.Bank != "":
		return s.Bank
	default:
		return "Account"
	}
}

func period(s extract.AccountSummary) string {
	switch {
	case s.StartDate != nil && s.EndDate != nil:
		return *s.StartDate + " - " + *s.EndDate
	case s.StartDate != nil:
		return "from " + *s.StartDate
	case s.EndDate != nil:
		return "until " + *s.EndDate
	default:
		return ""
	}
}

func withCurrency(amount, code string) string {
	if code == "" {
		return amount
	}
	return amount + " " + code
}

func signed(d decimal.Decimal) string {
	text := d.StringFixed(2)
	if d.IsNegative() {
		return ErrorStyle.Render(text)
	}
	return text
}

func line(label, value string) string {
	if value == "" {
		value = SubtleStyle.Render("-")
	}
	return LabelStyle.Render(label) + value
}
