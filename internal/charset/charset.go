// Package charset picks a character encoding for raw statement bytes and decodes them.
//
// Producers frequently mislabel their files, so the declared ENCODING/CHARSET header is
// treated as a hint. Decoding never fails: a fallback chain ends in decoders that accept
// every byte sequence.
package charset

import (
	"errors"
	"regexp"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
)

// Encoding identifies a decode strategy.
type Encoding string

// Supported decode strategies.
const (
	ASCII       Encoding = "US-ASCII"
	UTF8        Encoding = "UTF-8"
	UTF8BOM     Encoding = "UTF-8-BOM"
	Windows1252 Encoding = "windows-1252"
	ISO88591    Encoding = "ISO-8859-1"
	UTF8Lossy   Encoding = "UTF-8-lossy"
)

// Family is the canonical class of a declared encoding label.
type Family int

// Declared encoding families.
const (
	FamilyUnknown Family = iota
	FamilyASCII
	FamilyLatin1
	FamilyUTF8
)

// sniffLimit bounds how much of the document is scanned for header hints.
const sniffLimit = 4096

var (
	// ErrHighBit is returned by the strict ASCII decoder.
	ErrHighBit = errors.New("byte with high bit set")
	// ErrInvalidUTF8 is returned by the strict UTF-8 decoders.
	ErrInvalidUTF8 = errors.New("invalid UTF-8 sequence")

	encodingHint = regexp.MustCompile(`(?i)ENCODING:[ \t]*([^\r\n<]*)`)
	charsetHint  = regexp.MustCompile(`(?i)CHARSET:[ \t]*([^\r\n<]*)`)
	whitespace   = regexp.MustCompile(`\s+`)
	// nextField marks where a value ends when the header has no line breaks.
	nextField = regexp.MustCompile(`(?i)(?:^|\s+)[A-Z][A-Z0-9]*:`)
)

// Hints holds the header declarations found in a document, whitespace removed.
type Hints struct {
	Encoding string
	Charset  string
}

// Decoded is the text produced from a raw document.
type Decoded struct {
	Text     string
	Encoding Encoding
	Resolved Encoding
	Hints    Hints
	// Attempts lists every strategy tried, in order, ending with Encoding.
	Attempts []Encoding
}

// FellBack reports whether the resolved strategy failed and a later one was used.
func (d Decoded) FellBack() bool {
	return d.Encoding != d.Resolved
}

// Sniff scans the leading slice of raw as permissive ASCII and extracts header hints.
func Sniff(raw []byte) Hints {
	head := raw
	if len(head) > sniffLimit {
		head = head[:sniffLimit]
	}
	text := asciiView(head)

	return Hints{
		Encoding: strings.ToUpper(firstValue(encodingHint, text)),
		Charset:  strings.ToUpper(firstValue(charsetHint, text)),
	}
}

// Classify maps a declared encoding label onto its family.
func Classify(label string) Family {
	key := strings.NewReplacer("-", "", "_", "", " ", "").Replace(strings.ToUpper(label))
	switch key {
	case "USASCII", "ASCII", "ANSIX3.41968", "US":
		return FamilyASCII
	case "ISO88591", "ISO8859", "LATIN1", "L1", "88591", "IBM819", "CP819":
		return FamilyLatin1
	case "UTF8", "UNICODE":
		return FamilyUTF8
	default:
		return FamilyUnknown
	}
}

// Resolve chooses the primary decode strategy from the hints and the document bytes.
func Resolve(raw []byte, hints Hints) Encoding {
	switch Classify(hints.Encoding) {
	case FamilyASCII:
		if hasHighBit(raw) {
			return Windows1252
		}
		return ASCII
	case FamilyLatin1:
		return ISO88591
	case FamilyUTF8:
		return UTF8
	}

	if hints.Charset == "1252" || strings.EqualFold(hints.Charset, "WINDOWS-1252") {
		return Windows1252
	}
	return UTF8
}

// Decode resolves an encoding for raw and decodes it, walking the fallback chain
// when the resolved strategy rejects the bytes.
func Decode(raw []byte) Decoded {
	hints := Sniff(raw)
	resolved := Resolve(raw, hints)

	result := Decoded{
		Resolved: resolved,
		Hints:    hints,
	}

	for _, enc := range chain(resolved) {
		result.Attempts = append(result.Attempts, enc)
		text, err := DecodeAs(enc, raw)
		if err != nil {
			continue
		}
		result.Text = text
		result.Encoding = enc
		return result
	}

	// Unreachable: UTF8Lossy accepts everything.
	result.Text = strings.ToValidUTF8(string(raw), string(utf8.RuneError))
	result.Encoding = UTF8Lossy
	return result
}

// DecodeAs decodes raw with one specific strategy.
func DecodeAs(enc Encoding, raw []byte) (string, error) {
	switch enc {
	case ASCII:
		if hasHighBit(raw) {
			return "", ErrHighBit
		}
		return string(raw), nil
	case UTF8:
		if !utf8.Valid(raw) {
			return "", ErrInvalidUTF8
		}
		return string(raw), nil
	case UTF8BOM:
		// The x/text decoder substitutes invalid sequences, so validate first.
		if !utf8.Valid(raw) {
			return "", ErrInvalidUTF8
		}
		return decodeWith(unicode.UTF8BOM, raw)
	case Windows1252:
		return decodeWith(charmap.Windows1252, raw)
	case ISO88591:
		return decodeWith(charmap.ISO8859_1, raw)
	default:
		return strings.ToValidUTF8(string(raw), string(utf8.RuneError)), nil
	}
}

// chain returns the resolved strategy followed by the fallbacks, without repeats.
func chain(resolved Encoding) []Encoding {
	order := []Encoding{resolved, UTF8BOM, Windows1252, ISO88591, UTF8Lossy}
	seen := make(map[Encoding]bool, len(order))
	out := make([]Encoding, 0, len(order))
	for _, enc := range order {
		if seen[enc] {
			continue
		}
		seen[enc] = true
		out = append(out, enc)
	}
	return out
}

func decodeWith(enc encoding.Encoding, raw []byte) (string, error) {
	out, err := enc.NewDecoder().Bytes(raw)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

func hasHighBit(raw []byte) bool {
	for _, b := range raw {
		if b >= 0x80 {
			return true
		}
	}
	return false
}

// asciiView keeps the ASCII bytes of b and drops the rest.
func asciiView(b []byte) string {
	var sb strings.Builder
	sb.Grow(len(b))
	for _, c := range b {
		if c < 0x80 {
			sb.WriteByte(c)
		}
	}
	return sb.String()
}

func firstValue(re *regexp.Regexp, text string) string {
	m := re.FindStringSubmatch(text)
	if m == nil {
		return ""
	}
	value := m[1]
	if loc := nextField.FindStringIndex(value); loc != nil {
		value = value[:loc[0]]
	}
	return whitespace.ReplaceAllString(value, "")
}
