package ofx

import (
	"regexp"
	"strings"
)

var (
	// Some banks emit values such as "UTF - 8" in the v1 header.
	headerFieldPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)(ENCODING:[ \t]*)([^\r\n]+)`),
		regexp.MustCompile(`(?i)(CHARSET:[ \t]*)([^\r\n]+)`),
	}
	// nextFieldRegex finds the following KEY: on a header written without line breaks.
	nextFieldRegex  = regexp.MustCompile(`(?i)(?:^|\s+)[A-Z][A-Z0-9]*:`)
	whitespaceRegex = regexp.MustCompile(`\s+`)
)

const byteOrderMark = "\ufeff"

// NormalizeHeader strips a leading byte order mark and removes stray whitespace from
// the values of the ENCODING and CHARSET header fields. Only the SGML header block,
// the text before the first tag, is touched.
func NormalizeHeader(text string) string {
	text = strings.TrimPrefix(text, byteOrderMark)

	head, body := splitHeader(text)
	for _, re := range headerFieldPatterns {
		head = re.ReplaceAllStringFunc(head, func(match string) string {
			parts := re.FindStringSubmatch(match)
			value, rest := parts[2], ""
			if loc := nextFieldRegex.FindStringIndex(value); loc != nil {
				value, rest = value[:loc[0]], value[loc[0]:]
			}
			return parts[1] + whitespaceRegex.ReplaceAllString(value, "") + rest
		})
	}

	return head + body
}

// splitHeader separates the v1 key:value header block from the tagged body.
func splitHeader(text string) (head, body string) {
	idx := strings.IndexByte(text, '<')
	if idx < 0 {
		return text, ""
	}
	return text[:idx], text[idx:]
}
