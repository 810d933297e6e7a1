// Package redact removes the values of sensitive "field=value" pairs from
// free-text log messages.
//
// A pair is recognised as the field name, an equals sign, the shortest run of
// characters up to the next separator, and the separator itself. Only the value
// is replaced; the field name and the separator are kept. The value run may
// cross line breaks; a pair with no separator after it is left alone.
//
// Field names are matched literally and without a word boundary: "name" also
// matches the tail of "username=". A value that itself contains the separator
// is only redacted up to its first separator.
package redact

import "strings"

// Redactor applies a fixed field list, redaction token and separator.
// It holds no mutable state and is safe for concurrent use.
type Redactor struct {
	fields    []string
	redaction string
	separator string
}

// New creates a Redactor. The field list is copied.
func New(fields []string, redaction, separator string) *Redactor {
	return &Redactor{
		fields:    append([]string(nil), fields...),
		redaction: redaction,
		separator: separator,
	}
}

// Redact filters message with the configured fields.
func (r *Redactor) Redact(message string) string {
	return Filter(r.fields, r.redaction, message, r.separator)
}

// Filter replaces the value of every occurrence of each field in message
// with redaction. Fields are scanned in order; fields absent from the message
// are skipped. An empty separator leaves the message unchanged.
func Filter(fields []string, redaction, message, separator string) string {
	if separator == "" {
		return message
	}
	for _, field := range fields {
		message = filterField(field, redaction, message, separator)
	}
	return message
}

func filterField(field, redaction, message, separator string) string {
	token := field + "="
	if !strings.Contains(message, token) {
		return message
	}

	var b strings.Builder
	b.Grow(len(message))

	rest := message
	for {
		i := strings.Index(rest, token)
		if i < 0 {
			break
		}
		start := i + len(token)
		end := strings.Index(rest[start:], separator)
		if end < 0 {
			// no separator left, so no later occurrence can match either
			break
		}
		b.WriteString(rest[:start])
		b.WriteString(redaction)
		b.WriteString(separator)
		rest = rest[start+end+len(separator):]
	}
	b.WriteString(rest)

	return b.String()
}
