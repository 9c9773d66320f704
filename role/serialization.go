package role

import (
	"fmt"
	"strings"
)

// The durable role format is line-oriented: one role per line as
//
//	name:member1,member2,member3
//
// Delimiter characters (':' and ',') and backslashes occurring inside
// identifiers are backslash-escaped. Blank lines are ignored.

// FormatError reports malformed durable role data. Line is 1-based and
// zero when the error is not tied to a single line.
type FormatError struct {
	Line   int
	Reason string
}

func (e *FormatError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("bastion: malformed role data at line %d: %s", e.Line, e.Reason)
	}
	return fmt.Sprintf("bastion: malformed role data: %s", e.Reason)
}

// Serialize encodes records into the durable line-oriented representation.
// The output ends with a trailing newline when any records are present.
func Serialize(records []Record) []byte {
	var b strings.Builder
	for _, r := range records {
		b.WriteString(escape(r.Name))
		b.WriteByte(':')
		for i, m := range r.Members {
			if i > 0 {
				b.WriteByte(',')
			}
			b.WriteString(escape(m))
		}
		b.WriteByte('\n')
	}
	return []byte(b.String())
}

// Deserialize decodes the durable representation back into records.
// It fails with a *FormatError identifying the offending line when a line
// cannot be parsed or when a role name appears more than once in the batch.
func Deserialize(data []byte) ([]Record, error) {
	var records []Record
	seen := make(map[string]int)

	for i, line := range strings.Split(string(data), "\n") {
		lineNo := i + 1
		if line == "" {
			continue
		}
		rec, err := parseLine(line, lineNo)
		if err != nil {
			return nil, err
		}
		if prev, dup := seen[rec.Name]; dup {
			return nil, &FormatError{Line: lineNo, Reason: fmt.Sprintf("duplicate role %q (first defined at line %d)", rec.Name, prev)}
		}
		seen[rec.Name] = lineNo
		records = append(records, rec)
	}
	return records, nil
}

func parseLine(line string, lineNo int) (Record, error) {
	fields := splitRaw(line, ':')
	if len(fields) != 2 {
		return Record{}, &FormatError{Line: lineNo, Reason: fmt.Sprintf("expected 2 fields, got %d", len(fields))}
	}
	name, err := unescape(fields[0])
	if err != nil {
		return Record{}, &FormatError{Line: lineNo, Reason: err.Error()}
	}
	if name == "" {
		return Record{}, &FormatError{Line: lineNo, Reason: "empty role name"}
	}

	var members []string
	if fields[1] != "" {
		for _, raw := range splitRaw(fields[1], ',') {
			m, err := unescape(raw)
			if err != nil {
				return Record{}, &FormatError{Line: lineNo, Reason: err.Error()}
			}
			if m == "" {
				return Record{}, &FormatError{Line: lineNo, Reason: "empty member name"}
			}
			members = append(members, m)
		}
	}
	return NewRecord(name, members...), nil
}

func escape(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		switch c := s[i]; c {
		case '\\', ':', ',':
			b.WriteByte('\\')
			b.WriteByte(c)
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}

// splitRaw splits s on every unescaped occurrence of sep, leaving escape
// sequences in the fields intact for unescape to resolve.
func splitRaw(s string, sep byte) []string {
	var fields []string
	start := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '\\':
			i++ // skip the escaped byte, whatever it is
		case sep:
			fields = append(fields, s[start:i])
			start = i + 1
		}
	}
	return append(fields, s[start:])
}

func unescape(s string) (string, error) {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '\\' {
			b.WriteByte(c)
			continue
		}
		if i+1 >= len(s) {
			return "", fmt.Errorf("dangling escape character")
		}
		i++
		switch s[i] {
		case '\\', ':', ',':
			b.WriteByte(s[i])
		default:
			return "", fmt.Errorf("invalid escape sequence %q", `\`+string(s[i]))
		}
	}
	return b.String(), nil
}
