package script

import (
	"regexp"
	"strings"
)

var dollarTag = regexp.MustCompile(`^\$(?:[A-Za-z_][A-Za-z0-9_]*)?\$`)

// Split breaks a SQL text into statements on top-level semicolons.
// Semicolons inside quotes, dollar-quoted bodies and comments do not
// split. Comments are removed and empty statements are dropped.
func Split(sql string) []string {
	var statements []string
	var current strings.Builder
	hasCode := false

	flush := func() {
		if hasCode {
			statements = append(statements, strings.TrimSpace(current.String()))
		}
		current.Reset()
		hasCode = false
	}

	for i := 0; i < len(sql); {
		c := sql[i]
		switch {
		case c == '-' && strings.HasPrefix(sql[i:], "--"):
			end := strings.IndexByte(sql[i:], '\n')
			if end < 0 {
				end = len(sql) - i
			}
			i += end
		case c == '/' && strings.HasPrefix(sql[i:], "/*"):
			end := strings.Index(sql[i+2:], "*/")
			if end < 0 {
				end = len(sql) - i
			} else {
				end += 4
			}
			current.WriteByte(' ')
			i += end
		case c == '\'' || c == '"':
			end := closingQuote(sql, i, c, c == '\'' && escapeString(sql, i))
			current.WriteString(sql[i:end])
			hasCode = true
			i = end
		case c == '$' && dollarTag.MatchString(sql[i:]):
			tag := dollarTag.FindString(sql[i:])
			end := strings.Index(sql[i+len(tag):], tag)
			if end < 0 {
				end = len(sql)
			} else {
				end = i + len(tag) + end + len(tag)
			}
			current.WriteString(sql[i:end])
			hasCode = true
			i = end
		case c == ';':
			flush()
			i++
		default:
			if c != ' ' && c != '\t' && c != '\n' && c != '\r' {
				hasCode = true
			}
			current.WriteByte(c)
			i++
		}
	}
	flush()
	return statements
}

// escapeString reports whether the quote at i opens an E'...' literal.
func escapeString(sql string, i int) bool {
	if i == 0 || (sql[i-1] != 'E' && sql[i-1] != 'e') {
		return false
	}
	return i == 1 || !isIdentByte(sql[i-2])
}

func isIdentByte(c byte) bool {
	return c == '_' || c == '$' || c >= '0' && c <= '9' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z'
}

// closingQuote returns the index just past the quote opened at start.
// Doubled quote characters are escapes. With backslashes set, as in
// E'...' strings, a backslash escapes the byte after it.
func closingQuote(sql string, start int, q byte, backslashes bool) int {
	for i := start + 1; i < len(sql); i++ {
		if backslashes && sql[i] == '\\' {
			i++
			continue
		}
		if sql[i] != q {
			continue
		}
		if i+1 < len(sql) && sql[i+1] == q {
			i++
			continue
		}
		return i + 1
	}
	return len(sql)
}
