// Package sanitize neutralizes dangerous call forms in a program before the
// local simulator sees it.
//
// The rewrite is applied on the local simulation path only. Native and
// remote backends receive the program as submitted and must contain it
// themselves.
package sanitize

import (
	"regexp"
	"slices"
	"strings"
)

// BlockedPrefix is prepended to every neutralized call name.
const BlockedPrefix = "BLOCKED_"

// ShellEscapeMarker replaces any line that begins with the shell escape sigil.
// It is a comment, so downstream evaluators skip it.
const ShellEscapeMarker = "% BLOCKED: shell escape"

// DenyList groups the neutralized call names by what they would do.
var DenyList = map[string][]string{
	"process":    {"system", "unix", "dos", "winopen", "perl", "python", "java"},
	"evaluation": {"eval", "evalin", "evalc", "assignin", "inline"},
	"dispatch":   {"feval", "str2func", "builtin", "func2str", "arrayfun", "cellfun"},
	"filesystem": {
		"fopen", "fclose", "fread", "fwrite", "fgetl", "fgets", "fscanf",
		"textscan", "dlmwrite", "dlmread", "csvwrite", "csvread",
		"load", "save", "importdata", "delete", "rmdir", "mkdir", "dir",
		"ls", "cd", "copyfile", "movefile", "tempname", "websave", "urlread",
	},
}

var (
	callPattern  = buildCallPattern()
	shellPattern = regexp.MustCompile(`(?m)^[ \t]*!.*$`)
)

// Names returns the deny-listed call names in sorted order.
func Names() []string {
	var out []string
	for _, names := range DenyList {
		out = append(out, names...)
	}
	slices.Sort(out)
	return out
}

func buildCallPattern() *regexp.Regexp {
	names := Names()
	// Longest first so that no name can shadow a longer one sharing its prefix.
	slices.SortStableFunc(names, func(a, b string) int { return len(b) - len(a) })
	quoted := make([]string, len(names))
	for i, n := range names {
		quoted[i] = regexp.QuoteMeta(n)
	}
	return regexp.MustCompile(`\b(` + strings.Join(quoted, "|") + `)(\s*\()`)
}

// Sanitize rewrites deny-listed calls to BLOCKED_<name>( and collapses shell
// escape lines. A program with none of these is returned unchanged.
func Sanitize(program string) string {
	out := callPattern.ReplaceAllString(program, BlockedPrefix+"${1}${2}")
	return shellPattern.ReplaceAllLiteralString(out, ShellEscapeMarker)
}

// Report describes what Sanitize would neutralize.
type Report struct {
	Blocked      map[string]int
	ShellEscapes int
}

// Clean is true when Sanitize would not change the program.
func (r Report) Clean() bool {
	return len(r.Blocked) == 0 && r.ShellEscapes == 0
}

// Inspect counts the neutralized call names and shell escape lines.
func Inspect(program string) Report {
	r := Report{Blocked: make(map[string]int)}
	for _, m := range callPattern.FindAllStringSubmatch(program, -1) {
		r.Blocked[m[1]]++
	}
	r.ShellEscapes = len(shellPattern.FindAllStringIndex(program, -1))
	return r
}
