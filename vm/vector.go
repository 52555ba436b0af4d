package vm

import "strings"

// bracketed reports whether src is a single [ ... ] literal, and returns
// its body.
func bracketed(src string) (string, bool) {
	if !strings.HasPrefix(src, "[") || !strings.HasSuffix(src, "]") {
		return "", false
	}
	depth := 0
	for i := 0; i < len(src); i++ {
		switch src[i] {
		case '(', '[':
			depth++
		case ')', ']':
			depth--
			if depth == 0 && i != len(src)-1 {
				return "", false
			}
		}
	}
	if depth != 0 {
		return "", false
	}
	return src[1 : len(src)-1], true
}

func isOperator(c byte) bool {
	return strings.IndexByte("+-*/(,", c) >= 0
}

// vectorElements splits the body of a vector literal. Commas and semicolons
// always separate. Whitespace separates unless it sits next to a binary
// operator, so [1 - 2] is one element and [1 -2] is two.
func vectorElements(body string) []string {
	var out []string
	var cur strings.Builder
	flush := func() {
		if s := strings.TrimSpace(cur.String()); s != "" {
			out = append(out, s)
		}
		cur.Reset()
	}
	depth := 0
	for i := 0; i < len(body); i++ {
		c := body[i]
		switch {
		case c == '(' || c == '[':
			depth++
		case c == ')' || c == ']':
			depth--
		case depth == 0 && (c == ',' || c == ';'):
			flush()
			continue
		case depth == 0 && (c == ' ' || c == '\t'):
			j := i
			for j < len(body) && (body[j] == ' ' || body[j] == '\t') {
				j++
			}
			prev := strings.TrimSpace(cur.String())
			if j < len(body) && prev != "" && !isOperator(prev[len(prev)-1]) && startsElement(body, j) {
				flush()
			} else {
				cur.WriteByte(' ')
			}
			i = j - 1
			continue
		}
		cur.WriteByte(c)
	}
	flush()
	return out
}

// startsElement is true when the text at i begins a new operand rather than
// continuing a binary expression.
func startsElement(body string, i int) bool {
	switch body[i] {
	case '*', '/', ',', ';', ')', ']':
		return false
	case '+', '-':
		return i+1 < len(body) && body[i+1] != ' ' && body[i+1] != '\t'
	}
	return true
}

// vector evaluates a bracketed literal. Vector elements are concatenated.
func (e *Evaluator) vector(body string) (Value, error) {
	out := RealVector{}
	for _, elem := range vectorElements(body) {
		v, err := e.Eval(elem)
		if err != nil {
			return nil, err
		}
		switch val := v.(type) {
		case Scalar:
			out = append(out, float64(val))
		case RealVector:
			out = append(out, val...)
		default:
			return nil, evalErrorf("cannot concatenate a %s", v.Kind())
		}
	}
	return out, nil
}
