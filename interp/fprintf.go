package interp

import (
	"fmt"
	"math"
	"regexp"
	"strings"

	"github.com/timewinder-dev/labrun/vm"
)

var (
	printPattern = regexp.MustCompile(`^fprintf\s*\(`)
	verbPattern  = regexp.MustCompile(`%([-+ 0#]*)(\d*)(?:\.(\d+))?([dicfeEgGsxX%])`)
)

// printArg is either a literal string or a number.
type printArg struct {
	text   string
	num    float64
	isText bool
}

// formatPrint renders an fprintf statement. ok is false for a malformed call,
// which the caller skips silently.
func (ex *execution) formatPrint(stmt string) (lines []string, ok bool, err error) {
	loc := printPattern.FindStringIndex(stmt)
	if loc == nil {
		return nil, false, nil
	}
	inner, ok := callArgs(stmt, loc[1]-1)
	if !ok {
		return nil, false, nil
	}
	parts := splitTopLevel(inner, ',')
	if fid := strings.TrimSpace(parts[0]); len(parts) > 1 && (fid == "1" || fid == "2") {
		// fprintf(1, ...) and fprintf(2, ...) address the console.
		parts = parts[1:]
	}
	format, ok := unquote(parts[0])
	if !ok {
		return nil, false, nil
	}
	var args []printArg
	for _, p := range parts[1:] {
		if s, isText := unquote(p); isText {
			args = append(args, printArg{text: s, isText: true})
			continue
		}
		v, evalErr := ex.eval.Eval(p)
		if evalErr != nil {
			if err := ex.eval.Policy.Recover(evalErr); err != nil {
				return nil, false, err
			}
			v = vm.Scalar(0)
		}
		for _, f := range vm.Floats(v) {
			args = append(args, printArg{num: f})
		}
	}
	out := sprintf(unescape(format), args)
	out = strings.TrimSuffix(out, "\n")
	return strings.Split(out, "\n"), true, nil
}

func unescape(s string) string {
	return strings.NewReplacer(`\n`, "\n", `\t`, "\t", `\\`, `\`, `\r`, "").Replace(s)
}

// sprintf applies a MATLAB style format, recycling it while arguments
// remain. Output stops at the first conversion that has no argument left.
func sprintf(format string, args []printArg) string {
	var b strings.Builder
	verbs := verbPattern.FindAllStringSubmatchIndex(format, -1)
	consuming := 0
	for _, v := range verbs {
		if format[v[8]:v[9]] != "%" {
			consuming++
		}
	}
	next := 0
	for {
		last := 0
		for _, v := range verbs {
			b.WriteString(format[last:v[0]])
			last = v[1]
			conv := format[v[8]:v[9]]
			if conv == "%" {
				b.WriteByte('%')
				continue
			}
			if next >= len(args) {
				if len(args) > 0 {
					return b.String()
				}
				continue
			}
			flags := format[v[2]:v[3]]
			width := format[v[4]:v[5]]
			prec := ""
			if v[6] >= 0 {
				prec = format[v[6]:v[7]]
			}
			b.WriteString(formatVerb(conv, flags, width, prec, args[next]))
			next++
		}
		b.WriteString(format[last:])
		if consuming == 0 || next >= len(args) {
			return b.String()
		}
	}
}

func formatVerb(conv, flags, width, prec string, arg printArg) string {
	spec := "%" + flags + width
	if prec != "" {
		spec += "." + prec
	}
	if arg.isText {
		switch conv {
		case "s":
			return fmt.Sprintf(spec+"s", arg.text)
		default:
			// A string fed to a numeric conversion prints as text.
			return fmt.Sprintf("%"+flags+width+"s", arg.text)
		}
	}
	n := arg.num
	switch conv {
	case "d", "i":
		if n == math.Trunc(n) && !math.IsInf(n, 0) && math.Abs(n) < 1<<53 {
			return fmt.Sprintf("%"+flags+width+"d", int64(n))
		}
		return fmt.Sprintf("%"+flags+width+"e", n)
	case "x", "X":
		if n == math.Trunc(n) && n >= 0 && n < 1<<53 {
			return fmt.Sprintf("%"+flags+width+conv, int64(n))
		}
		return fmt.Sprintf("%"+flags+width+"e", n)
	case "c", "s":
		return fmt.Sprintf(spec+"v", n)
	default:
		return fmt.Sprintf(spec+conv, n)
	}
}
