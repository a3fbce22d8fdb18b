// Package locale holds the display strings and formats used in the report.
package locale

import (
	"fmt"
	"sort"
	"strings"

	"github.com/Veraticus/ofxsheet/internal/common"
	"github.com/Veraticus/ofxsheet/internal/model"
)

// Supported locale names.
const (
	English   = "en"
	Brazilian = "pt-BR"
)

// Default is used when no locale is configured.
const Default = English

// Labels is the set of display strings for one locale.
type Labels struct {
	AccountTypes     map[string]string
	TransactionTypes map[string]string
	Name             string
	SheetName        string
	DateLayout       string
	CurrencyFormat   string
	Headers          [9]string
}

// AccountType translates a canonical account type tag. Unknown tags pass through.
func (l Labels) AccountType(tag string) string {
	return translate(l.AccountTypes, strings.ToUpper(tag), tag)
}

// TransactionType translates a transaction direction tag. Unknown tags pass through.
func (l Labels) TransactionType(tag string) string {
	return translate(l.TransactionTypes, strings.ToLower(tag), tag)
}

func translate(table map[string]string, key, original string) string {
	if label, ok := table[key]; ok {
		return label
	}
	return original
}

var catalog = map[string]Labels{
	English: {
		Name:      English,
		SheetName: "Transactions",
		Headers: [9]string{
			"Identifier", "Bank", "Account", "Date", "Type",
			"Amount", "Description", "Payee", "Check",
		},
		AccountTypes: map[string]string{
			model.AccountTypeChecking:   "Checking Account",
			model.AccountTypeSavings:    "Savings Account",
			model.AccountTypeCreditCard: "Credit Card",
		},
		TransactionTypes: map[string]string{
			model.TransactionTypeCredit: "CREDIT",
			model.TransactionTypeDebit:  "DEBIT",
		},
		DateLayout:     "2006-01-02",
		CurrencyFormat: `"$"#,##0.00;[Red]("$"#,##0.00)`,
	},
	Brazilian: {
		Name:      Brazilian,
		SheetName: "Transacoes",
		Headers: [9]string{
			"ID", "Banco", "Conta", "Data", "Tipo",
			"Valor", "Descrição", "Beneficiario", "Cheque",
		},
		AccountTypes: map[string]string{
			model.AccountTypeChecking:   "Conta Corrente",
			model.AccountTypeSavings:    "Poupança",
			model.AccountTypeCreditCard: "Cartão de Crédito",
		},
		TransactionTypes: map[string]string{
			model.TransactionTypeCredit: "CRÉDITO",
			model.TransactionTypeDebit:  "DÉBITO",
		},
		DateLayout:     "02/01/2006",
		CurrencyFormat: `"R$ "#,##0.00;[Red]("R$ "#,##0.00)`,
	},
}

// Lookup returns the labels for a locale name, matched case-insensitively.
func Lookup(name string) (Labels, error) {
	if name == "" {
		name = Default
	}
	for key, labels := range catalog {
		if strings.EqualFold(key, name) {
			return labels, nil
		}
	}
	return Labels{}, fmt.Errorf("%w: unknown locale %q (supported: %s)",
		common.ErrInvalidConfig, name, strings.Join(Names(), ", "))
}

// MustLookup is Lookup for known-good names.
func MustLookup(name string) Labels {
	labels, err := Lookup(name)
	if err != nil {
		panic(err)
	}
	return labels
}

// Names lists the supported locale names in sorted order.
func Names() []string {
	names := make([]string, 0, len(catalog))
	for name := range catalog {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
