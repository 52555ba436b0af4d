package interp

import (
	"errors"
	"regexp"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/timewinder-dev/labrun/dft"
	"github.com/timewinder-dev/labrun/lab"
	"github.com/timewinder-dev/labrun/vm"
)

// ClearNotice is the transcript line written by clc.
const ClearNotice = "Console cleared"

var (
	assignPattern  = regexp.MustCompile(`^([A-Za-z_]\w*)\s*=([^=].*)$`)
	cleanupPattern = regexp.MustCompile(`^(clearvars|clear|clc|close)\b(.*)$`)
)

// Classify returns the statement class of one trimmed statement.
func Classify(stmt string) StatementKind {
	switch {
	case stmt == "":
		return Blank
	case strings.HasPrefix(stmt, "%"):
		return Comment
	case assignPattern.MatchString(stmt):
		return Assignment
	case printPattern.MatchString(stmt):
		return Print
	case strings.Contains(stmt, "plot"):
		return Plot
	case cleanupPattern.MatchString(stmt):
		return Cleanup
	default:
		return Generic
	}
}

func (ex *execution) step(stmt string) error {
	kind := Classify(stmt)
	log.Trace().Int("line", ex.line).Str("kind", kind.String()).Str("stmt", stmt).Msg("Step: executing statement")

	switch kind {
	case Blank, Comment:
	case Assignment:
		return ex.assign(stmt)
	case Print:
		lines, ok, err := ex.formatPrint(stmt)
		if err != nil {
			return err
		}
		if !ok {
			log.Trace().Int("line", ex.line).Msg("  Print: malformed, skipped")
			return nil
		}
		ex.transcript = append(ex.transcript, lines...)
	case Plot:
		ex.plot()
	case Cleanup:
		ex.cleanup(stmt)
	case Generic:
		ex.transcript = append(ex.transcript, stmt)
	}
	return nil
}

func (ex *execution) assign(stmt string) error {
	m := assignPattern.FindStringSubmatch(stmt)
	name, rhs := m[1], strings.TrimSpace(m[2])
	kind := classifyExpr(rhs)

	var v vm.Value
	var err error
	switch kind {
	case RangeExpr:
		v, err = ex.evalRange(rhs)
	case TrigExpr:
		v, err = ex.evalTrig(rhs)
	case FFTExpr:
		v, err = ex.evalFFT(rhs)
	case RandomExpr:
		v, err = ex.evalRandom(rhs)
	case LiteralExpr:
		v, err = evalLiteral(rhs)
	case VectorExpr:
		v, err = ex.evalVector(rhs)
	default:
		var s float64
		s, err = ex.eval.Scalar(rhs)
		v = vm.Scalar(s)
	}
	if err != nil {
		if errors.Is(err, ErrBudget) {
			return err
		}
		if strict := ex.eval.Policy.Recover(err); strict != nil {
			return strict
		}
		log.Trace().Int("line", ex.line).Str("name", name).Err(err).Msg("  Assignment: evaluation failed, binding 0")
		v = vm.Scalar(0)
	}
	log.Trace().Int("line", ex.line).Str("name", name).Str("expr", kind.String()).Str("value", vm.Format(v)).Msg("  Assignment")
	ex.store.Set(name, v)
	return nil
}

// plot reads the fixed names t, x, X and fs. Missing names are not an error;
// an unbound fs falls back to DefaultSampleRate.
func (ex *execution) plot() {
	if !ex.cfg.Plots() {
		return
	}
	t, okT := ex.store.RealVector("t")
	x, okX := ex.store.RealVector("x")
	if !okT || !okX {
		return
	}
	ex.dataset[lab.TimeSeries] = lab.NewSeries(t, x, lab.Line, "x(t)")

	spectrum, okSpec := ex.store.ComplexVector("X")
	if !okSpec || len(spectrum) == 0 {
		return
	}
	fs, ok := ex.store.Scalar("fs")
	if !ok {
		fs = DefaultSampleRate
	}
	freqs, mags := dft.HalfSpectrum(spectrum, fs)
	ex.dataset[lab.FrequencySeries] = lab.NewSeries(freqs, mags, lab.Line, "|X(f)|")
}

func (ex *execution) cleanup(stmt string) {
	m := cleanupPattern.FindStringSubmatch(stmt)
	switch m[1] {
	case "clc":
		ex.transcript = append(ex.transcript, ClearNotice)
	case "clear", "clearvars":
		rest := strings.NewReplacer("(", " ", ")", " ", "'", " ", `"`, " ", ",", " ").Replace(m[2])
		names := strings.Fields(rest)
		if len(names) == 0 || names[0] == "all" || names[0] == "-all" {
			ex.store.Clear()
			return
		}
		for _, n := range names {
			ex.store.Delete(n)
		}
	}
}
