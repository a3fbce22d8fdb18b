package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testOFX = `OFXHEADER:100
DATA:OFXSGML
VERSION:102
SECURITY:NONE
ENCODING:USASCII
CHARSET:1252
COMPRESSION:NONE
OLDFILEUID:NONE
NEWFILEUID:NONE

<OFX>
<SIGNONMSGSRSV1>
<SONRS>
<STATUS>
<CODE>0
<SEVERITY>INFO
</STATUS>
<DTSERVER>20240315120000[0:GMT]
<LANGUAGE>ENG
</SONRS>
</SIGNONMSGSRSV1>
<BANKMSGSRSV1>
<STMTTRNRS>
<TRNUID>1
<STATUS>
<CODE>0
<SEVERITY>INFO
</STATUS>
<STMTRS>
<CURDEF>USD
<BANKACCTFROM>
<BANKID>123456789
<ACCTID>1234567890
<ACCTTYPE>CHECKING
</BANKACCTFROM>
<BANKTRANLIST>
<DTSTART>20240101120000[0:GMT]
<DTEND>20240131120000[0:GMT]
<STMTTRN>
<TRNTYPE>DEBIT
<DTPOSTED>20240115120000[0:GMT]
<TRNAMT>-25.50
<FITID>JAN01
<NAME>STARBUCKS
</STMTTRN>
</BANKTRANLIST>
<LEDGERBAL>
<BALAMT>1000.00
<DTASOF>20240131120000[0:GMT]
</LEDGERBAL>
</STMTRS>
</STMTTRNRS>
</BANKMSGSRSV1>
</OFX>`

func execute(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := run(context.Background(), args, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestRunConvertsStatement(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "checking.OFX")
	output := filepath.Join(dir, "report.xlsx")
	require.NoError(t, os.WriteFile(input, []byte(testOFX), 0o600))

	code, stdout, _ := execute(t, "--log-level", "error", input, output)

	assert.Equal(t, 0, code)
	assert.FileExists(t, output)
	assert.Contains(t, stdout, "123456789")
	assert.Contains(t, stdout, "Checking Account")
	assert.Contains(t, stdout, "Wrote 1 transactions to "+output)
}

func TestRunUsageErrors(t *testing.T) {
	tests := []struct {
		name    string
		message string
		args    []string
	}{
		{name: "no arguments", args: nil, message: "expected 2 arguments"},
		{name: "one argument", args: []string{"bank.ofx"}, message: "got 1"},
		{name: "three arguments", args: []string{"a.ofx", "b.xlsx", "c.xlsx"}, message: "got 3"},
		{name: "wrong extension", args: []string{"bank.csv", "out.xlsx"}, message: "must have a .ofx extension"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, stdout, stderr := execute(t, append([]string{"--log-level", "error"}, tt.args...)...)

			assert.Equal(t, 1, code)
			assert.Empty(t, stdout)
			assert.Contains(t, stderr, tt.message)
			assert.Contains(t, stderr, "Usage:")
		})
	}
}

func TestRunParseFailure(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "broken.ofx")
	output := filepath.Join(dir, "report.xlsx")
	require.NoError(t, os.WriteFile(input, []byte("<OFX>garbage"), 0o600))

	code, _, stderr := execute(t, "--log-level", "error", input, output)

	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "failed to parse statement")
	assert.NotContains(t, stderr, "Usage:")
	assert.NoFileExists(t, output)
}

func TestRunInvalidConfig(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("report:\n  locale: xx\n"), 0o600))
	input := filepath.Join(dir, "checking.ofx")
	require.NoError(t, os.WriteFile(input, []byte(testOFX), 0o600))

	code, _, stderr := execute(t, "--config", cfgPath, input, filepath.Join(dir, "out.xlsx"))

	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "invalid configuration")
}

func TestRunLocaleFromEnv(t *testing.T) {
	t.Setenv("OFXSHEET_REPORT_LOCALE", "pt-BR")
	dir := t.TempDir()
	input := filepath.Join(dir, "extrato.ofx")
	require.NoError(t, os.WriteFile(input, []byte(testOFX), 0o600))

	code, stdout, _ := execute(t, "--log-level", "error", input, filepath.Join(dir, "extrato.xlsx"))

	assert.Equal(t, 0, code)
	assert.Contains(t, stdout, "Conta Corrente")
}

func TestRunVersion(t *testing.T) {
	code, stdout, _ := execute(t, "--version")

	assert.Equal(t, 0, code)
	assert.Contains(t, stdout, version)
}
