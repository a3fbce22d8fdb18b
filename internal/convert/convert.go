// Package convert runs the statement-to-workbook pipeline: read, decode, normalize,
// parse, extract, lay out and write.
package convert

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/Veraticus/ofxsheet/internal/charset"
	"github.com/Veraticus/ofxsheet/internal/common"
	"github.com/Veraticus/ofxsheet/internal/config"
	"github.com/Veraticus/ofxsheet/internal/extract"
	"github.com/Veraticus/ofxsheet/internal/locale"
	"github.com/Veraticus/ofxsheet/internal/model"
	"github.com/Veraticus/ofxsheet/internal/ofx"
	"github.com/Veraticus/ofxsheet/internal/report"
	"github.com/Veraticus/ofxsheet/internal/xlsx"
)

// InputExtension is the accepted statement file extension, matched case-insensitively.
const InputExtension = ".ofx"

// Invocation is a validated pair of input and destination paths.
type Invocation struct {
	Input  string
	Output string
}

// ParseInvocation validates positional arguments. It never touches the filesystem.
func ParseInvocation(args []string) (Invocation, error) {
	if len(args) != 2 {
		return Invocation{}, common.NewUsageError(
			fmt.Sprintf("expected 2 arguments (input statement and output report), got %d", len(args)),
			common.ErrUsage,
		)
	}

	input := config.ExpandPath(args[0])
	if !strings.EqualFold(filepath.Ext(input), InputExtension) {
		return Invocation{}, common.NewUsageError(
			fmt.Sprintf("input file %q must have a %s extension", args[0], InputExtension),
			common.ErrInvalidExtension,
		)
	}

	return Invocation{
		Input:  input,
		Output: config.ExpandPath(args[1]),
	}, nil
}

// StatementParser turns normalized statement text into account nodes.
type StatementParser interface {
	Parse(ctx context.Context, text string) ([]model.Node, error)
}

// SheetWriter persists a finished sheet at path.
type SheetWriter interface {
	Write(ctx context.Context, sheet *report.Sheet, path string) error
}

// Result describes a completed conversion.
type Result struct {
	Sheet    *report.Sheet
	Output   string
	Accounts []extract.Account
	Decoded  charset.Decoded
}

// Rows is the number of transaction rows written.
func (r Result) Rows() int {
	if r.Sheet == nil {
		return 0
	}
	return len(r.Sheet.Rows)
}

// Converter wires the pipeline stages together.
type Converter struct {
	parser StatementParser
	writer SheetWriter
	labels locale.Labels
}

// Option customizes a Converter.
type Option func(*Converter)

// WithParser replaces the statement parser.
func WithParser(p StatementParser) Option {
	return func(c *Converter) { c.parser = p }
}

// WithWriter replaces the workbook writer.
func WithWriter(w SheetWriter) Option {
	return func(c *Converter) { c.writer = w }
}

// New creates a converter producing reports with the given labels.
func New(labels locale.Labels, opts ...Option) *Converter {
	c := &Converter{
		parser: ofx.NewParser(),
		writer: xlsx.NewWriter(),
		labels: labels,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Run converts inv.Input into a workbook at inv.Output. Parse and write failures
// are fatal and leave no file at the destination.
func (c *Converter) Run(ctx context.Context, inv Invocation) (Result, error) {
	raw, err := os.ReadFile(inv.Input)
	if err != nil {
		return Result{}, fmt.Errorf("%w: %w", common.ErrRead, err)
	}

	decoded := charset.Decode(raw)
	common.LogDebug("Decoded statement", common.Fields{
		"file":              filepath.Base(inv.Input),
		"encoding":          decoded.Encoding,
		"declared_encoding": decoded.Hints.Encoding,
		"declared_charset":  decoded.Hints.Charset,
	})
	if decoded.FellBack() {
		slog.Warn("Statement did not decode as declared, used fallback",
			"resolved", decoded.Resolved,
			"used", decoded.Encoding,
			"attempts", decoded.Attempts)
	}

	nodes, err := c.parser.Parse(ctx, ofx.NormalizeHeader(decoded.Text))
	if err != nil {
		return Result{}, err
	}
	if len(nodes) == 0 {
		slog.Warn("No accounts found in statement", "file", filepath.Base(inv.Input))
	}

	accounts := extract.New(c.labels).Extract(nodes)

	builder := report.NewBuilder(c.labels)
	for _, acct := range accounts {
		builder.AddAccount(acct)
	}
	sheet := builder.Build()

	if err := c.writer.Write(ctx, sheet, inv.Output); err != nil {
		return Result{}, err
	}

	slog.Info("Converted statement",
		"input", filepath.Base(inv.Input),
		"output", inv.Output,
		"accounts", builder.Accounts(),
		"transactions", len(sheet.Rows))

	return Result{
		Sheet:    sheet,
		Output:   inv.Output,
		Accounts: accounts,
		Decoded:  decoded,
	}, nil
}
