package interp

import "strings"

// A ' opens a char literal unless it follows something that can be
// transposed: an identifier, a closing bracket, a number or another quote.
func opensQuote(s string, i int) bool {
	if s[i] == '"' {
		return true
	}
	if i == 0 {
		return true
	}
	prev := s[i-1]
	switch {
	case prev >= 'a' && prev <= 'z', prev >= 'A' && prev <= 'Z', prev >= '0' && prev <= '9':
		return false
	case prev == '_' || prev == ')' || prev == ']' || prev == '}' || prev == '.' || prev == '\'':
		return false
	}
	return true
}

// skipQuoted returns the index just past the literal opened at i. Doubled
// quote characters are escapes. ok is false for an unterminated literal.
func skipQuoted(s string, i int) (int, bool) {
	q := s[i]
	for j := i + 1; j < len(s); j++ {
		if s[j] != q {
			continue
		}
		if j+1 < len(s) && s[j+1] == q {
			j++
			continue
		}
		return j + 1, true
	}
	return len(s), false
}

// scan walks s and calls visit for every byte outside quoted literals along
// with the current bracket depth. visit returns false to stop.
func scan(s string, visit func(i, depth int) bool) {
	depth := 0
	for i := 0; i < len(s); i++ {
		c := s[i]
		if (c == '\'' || c == '"') && opensQuote(s, i) {
			end, _ := skipQuoted(s, i)
			i = end - 1
			continue
		}
		switch c {
		case '(', '[', '{':
			depth++
		case ')', ']', '}':
			if depth > 0 {
				depth--
			}
		}
		if !visit(i, depth) {
			return
		}
	}
}

// stripComment drops a trailing % comment that is not inside a literal.
func stripComment(line string) string {
	cut := -1
	scan(line, func(i, _ int) bool {
		if line[i] == '%' {
			cut = i
			return false
		}
		return true
	})
	if cut < 0 {
		return line
	}
	return line[:cut]
}

// splitTopLevel splits s on sep wherever it appears outside literals and
// brackets.
func splitTopLevel(s string, sep byte) []string {
	var out []string
	last := 0
	scan(s, func(i, depth int) bool {
		if s[i] == sep && depth == 0 {
			out = append(out, s[last:i])
			last = i + 1
		}
		return true
	})
	return append(out, s[last:])
}

// callArgs returns the text between the parenthesis at open and its match.
func callArgs(s string, open int) (string, bool) {
	if open >= len(s) || s[open] != '(' {
		return "", false
	}
	closeAt := -1
	scan(s[open:], func(i, depth int) bool {
		if s[open+i] == ')' && depth == 0 {
			closeAt = open + i
			return false
		}
		return true
	})
	if closeAt < 0 {
		return "", false
	}
	return s[open+1 : closeAt], true
}

// unquote decodes a complete char or string literal.
func unquote(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if len(s) < 2 {
		return "", false
	}
	q := s[0]
	if q != '\'' && q != '"' {
		return "", false
	}
	end, ok := skipQuoted(s, 0)
	if !ok || end != len(s) {
		return "", false
	}
	body := s[1 : len(s)-1]
	return strings.ReplaceAll(body, string([]byte{q, q}), string(q)), true
}

// statements splits a source line into its ;-separated statements.
func statements(line string) []string {
	var out []string
	for _, part := range splitTopLevel(stripComment(line), ';') {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
