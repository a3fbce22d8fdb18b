// Package ofx adapts OFX statement text into the model node graph.
package ofx

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/aclindsa/ofxgo"
	"github.com/shopspring/decimal"

	"github.com/Veraticus/ofxsheet/internal/common"
	"github.com/Veraticus/ofxsheet/internal/model"
)

// amountScale is the number of fractional digits kept when converting OFX amounts.
const amountScale = 8

var (
	severityRegex = regexp.MustCompile(`(?i)<SEVERITY>(Info|Warn|Error)`)
	tagFixRegex   = regexp.MustCompile(`(?m)^(\s*<[A-Z][A-Z0-9._]*[A-Z0-9])$`)
)

// Parser turns normalized OFX text into account nodes using ofxgo.
type Parser struct{}

// NewParser creates a new OFX parser.
func NewParser() *Parser {
	return &Parser{}
}

// preprocessOFX fixes formatting issues that ofxgo rejects outright.
func (p *Parser) preprocessOFX(content string) string {
	// Trim any leading whitespace or blank lines before the header
	content = strings.TrimLeft(content, " \t\r\n")

	// Mixed-case SEVERITY values (should be INFO, WARN, or ERROR)
	content = severityRegex.ReplaceAllStringFunc(content, strings.ToUpper)

	// SGML opening tags missing their closing bracket at end of line
	content = tagFixRegex.ReplaceAllString(content, "$1>")

	return content
}

// Parse parses the statement text and returns one node per account, in document order:
// bank statements first, then credit card statements.
func (p *Parser) Parse(ctx context.Context, text string) ([]model.Node, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	resp, err := ofxgo.ParseResponse(strings.NewReader(p.preprocessOFX(text)))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrParse, err)
	}

	institution := institutionNode(resp.Signon)

	var accounts []model.Node
	var bankStmts, ccStmts int

	for _, msg := range resp.Bank {
		stmt, ok := msg.(*ofxgo.StatementResponse)
		if !ok {
			slog.Warn("Skipping unsupported bank message", "type", fmt.Sprintf("%T", msg))
			continue
		}
		bankStmts++
		accounts = append(accounts, bankAccountNode(stmt, institution))
	}

	for _, msg := range resp.CreditCard {
		stmt, ok := msg.(*ofxgo.CCStatementResponse)
		if !ok {
			slog.Warn("Skipping unsupported credit card message", "type", fmt.Sprintf("%T", msg))
			continue
		}
		ccStmts++
		accounts = append(accounts, creditCardAccountNode(stmt, institution))
	}

	if len(resp.InvStmt) > 0 {
		slog.Warn("Investment statements are not included in the report", "count", len(resp.InvStmt))
	}

	slog.Debug("Parsed OFX statement",
		"accounts", len(accounts),
		"bank_statements", bankStmts,
		"cc_statements", ccStmts)

	return accounts, nil
}

func institutionNode(signon ofxgo.SignonResponse) model.Node {
	return model.Fields{
		model.KeyFID: text(signon.Fid),
		model.KeyOrg: text(signon.Org),
	}
}

func bankAccountNode(stmt *ofxgo.StatementResponse, institution model.Node) model.Node {
	acct := stmt.BankAcctFrom
	return model.Fields{
		model.KeyBankID:        text(acct.BankID),
		model.KeyBranchID:      text(acct.BranchID),
		model.KeyRoutingNumber: text(acct.BankID),
		model.KeyAccountID:     text(acct.AcctID),
		model.KeyAccountType:   acct.AcctType.String(),
		model.KeyCurrency:      currencyCode(stmt.CurDef),
		model.KeyInstitution:   institution,
		model.KeyStatement:     statementNode(stmt.BankTranList, stmt.BalAmt, stmt.DtAsOf, stmt.AvailBalAmt),
	}
}

func creditCardAccountNode(stmt *ofxgo.CCStatementResponse, institution model.Node) model.Node {
	return model.Fields{
		model.KeyAccountID:   text(stmt.CCAcctFrom.AcctID),
		model.KeyAccountType: model.AccountTypeCreditCard,
		model.KeyCurrency:    currencyCode(stmt.CurDef),
		model.KeyInstitution: institution,
		model.KeyStatement:   statementNode(stmt.BankTranList, stmt.BalAmt, stmt.DtAsOf, stmt.AvailBalAmt),
	}
}

func statementNode(tranList *ofxgo.TransactionList, balance ofxgo.Amount, asOf ofxgo.Date, available *ofxgo.Amount) model.Node {
	stmt := model.Fields{
		model.KeyBalance:     amount(balance),
		model.KeyBalanceDate: date(asOf.Time),
	}
	if available != nil {
		stmt[model.KeyAvailableBalance] = amount(*available)
	}
	if tranList == nil {
		return stmt
	}

	stmt[model.KeyStartDate] = date(tranList.DtStart.Time)
	stmt[model.KeyEndDate] = date(tranList.DtEnd.Time)

	transactions := make([]model.Node, 0, len(tranList.Transactions))
	for _, tx := range tranList.Transactions {
		transactions = append(transactions, transactionNode(tx))
	}
	stmt[model.KeyTransactions] = transactions

	return stmt
}

func transactionNode(tx ofxgo.Transaction) model.Node {
	posted := tx.DtPosted.Time
	if posted.IsZero() && tx.DtUser != nil {
		posted = tx.DtUser.Time
	}

	return model.Fields{
		model.KeyID:       text(tx.FiTID),
		model.KeyDate:     date(posted),
		model.KeyType:     strings.ToLower(tx.TrnType.String()),
		model.KeyAmount:   amount(tx.TrnAmt),
		model.KeyMemo:     text(tx.Memo),
		model.KeyPayee:    payee(tx),
		model.KeyCheckNum: text(tx.CheckNum),
	}
}

// payee prefers the structured PAYEE aggregate and falls back to NAME.
func payee(tx ofxgo.Transaction) any {
	if tx.Payee != nil && tx.Payee.Name != "" {
		return tx.Payee.Name.String()
	}
	return text(tx.Name)
}

// currencyCode returns the ISO 4217 code of CURDEF, or nil when it is unset.
func currencyCode(c ofxgo.CurrSymbol) any {
	code := c.String()
	if code == "" || code == "XXX" {
		return nil
	}
	return code
}

// text returns nil for empty OFX strings so the field reads as absent.
func text(s ofxgo.String) any {
	v := strings.TrimSpace(s.String())
	if v == "" {
		return nil
	}
	return v
}

func date(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t
}

func amount(a ofxgo.Amount) decimal.Decimal {
	d, err := decimal.NewFromString(a.Rat.FloatString(amountScale))
	if err != nil {
		// FloatString always yields a plain decimal literal.
		return decimal.Zero
	}
	return d
}
