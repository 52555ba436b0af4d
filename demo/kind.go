package demo

import (
	"fmt"
	"strings"
)

// DemoKind names one of the fixed lab demonstrations.
type DemoKind int

const (
	None DemoKind = iota
	Basic
	TwoTone
	Trigonometric
	Reconstruction
)

func (k DemoKind) String() string {
	switch k {
	case None:
		return "None"
	case Basic:
		return "Basic"
	case TwoTone:
		return "TwoTone"
	case Trigonometric:
		return "Trigonometric"
	case Reconstruction:
		return "Reconstruction"
	default:
		return fmt.Sprintf("Unknown(%d)", int(k))
	}
}

// Marker is the lab title that selects k, or "" for None.
func (k DemoKind) Marker() string {
	for _, m := range markers {
		if m.kind == k {
			return m.text
		}
	}
	return ""
}

// markers are probed in priority order. The first one found wins.
var markers = []struct {
	kind DemoKind
	text string
}{
	{Basic, "Lab 4.1: Hermitian Symmetry"},
	{TwoTone, "Lab 4.2: Two-Tone Spectrum"},
	{Trigonometric, "Lab 4.3: Complex to Trigonometric"},
	{Reconstruction, "Lab 4.4: Signal Reconstruction"},
}

// Classify resolves the demonstration a program asks for by exact substring
// match against the lab titles.
func Classify(program string) DemoKind {
	for _, m := range markers {
		if strings.Contains(program, m.text) {
			return m.kind
		}
	}
	return None
}
