// Package csvrow reads and writes single CSV rows.
//
// Fields containing a comma, a double quote or a newline are wrapped in
// double quotes with embedded quotes doubled. Parsing works on one line at a
// time, so quoted fields spanning several input lines are not supported.
package csvrow

import "strings"

const (
	quote     = '"'
	separator = ','
)

// EscapeField returns value in its CSV form, quoting it when needed.
func EscapeField(value string) string {
	if !strings.ContainsAny(value, ",\"\n") {
		return value
	}
	return `"` + strings.ReplaceAll(value, `"`, `""`) + `"`
}

// FormatRow escapes every field and joins them with commas.
func FormatRow(fields []string) string {
	escaped := make([]string, len(fields))
	for i, f := range fields {
		escaped[i] = EscapeField(f)
	}
	return strings.Join(escaped, ",")
}

// ParseRow splits one CSV line into fields.
//
// A quote toggles the in-quotes state, except that a doubled quote inside a
// quoted field produces one literal quote. Commas only separate fields outside
// quotes.
func ParseRow(line string) []string {
	var fields []string
	var current strings.Builder
	insideQuotes := false

	for i := 0; i < len(line); i++ {
		c := line[i]
		switch {
		case c == quote:
			if insideQuotes && i+1 < len(line) && line[i+1] == quote {
				current.WriteByte(quote)
				i++
			} else {
				insideQuotes = !insideQuotes
			}
		case c == separator && !insideQuotes:
			fields = append(fields, current.String())
			current.Reset()
		default:
			current.WriteByte(c)
		}
	}

	return append(fields, current.String())
}

// Lines splits text into lines, accepting both LF and CRLF endings.
func Lines(text string) []string {
	lines := strings.Split(text, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSuffix(l, "\r")
	}
	return lines
}
