package interp

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/timewinder-dev/labrun/lab"
)

func transcriptOf(program string) []string {
	return New().Run(context.Background(), program, lab.Config{}).Transcript
}

func TestFprintf(t *testing.T) {
	tests := []struct {
		name    string
		program string
		want    []string
	}{
		{"plain", `fprintf('Hello\n')`, []string{"Hello"}},
		{"double quoted", `fprintf("Hi there\n")`, []string{"Hi there"}},
		{"integer", "N = 64\nfprintf('N = %d\\n', N)", []string{"N = 64"}},
		{"precision", "fs = 1000\nfprintf('Step: %.4f s\\n', 1/fs)", []string{"Step: 0.0010 s"}},
		{"non integer d", "fprintf('%d\\n', 1.5)", []string{"1.500000e+00"}},
		{"string arg", `fprintf('%s: %d\n', 'peak', 3)`, []string{"peak: 3"}},
		{"percent", `fprintf('100%%\n')`, []string{"100%"}},
		{"escaped quote", `fprintf('it''s\n')`, []string{"it's"}},
		{"recycled", "v = 1:3\nfprintf('%d\\n', v)", []string{"1", "2", "3"}},
		{"missing arg", `fprintf('a=%d b=%d\n', 1)`, []string{"a=1 b="}},
		{"no args for verb", `fprintf('value: %d\n')`, []string{"value: "}},
		{"file id", `fprintf(1, 'to console\n')`, []string{"to console"}},
		{"multi line", `fprintf('a\nb\n')`, []string{"a", "b"}},
		{"width", `fprintf('[%5.1f]\n', 2.5)`, []string{"[  2.5]"}},
		{"unbound arg", `fprintf('%d\n', nothing)`, []string{"0"}},
		{"malformed no quote", `fprintf(x)`, []string{}},
		{"malformed unterminated", `fprintf('oops)`, []string{}},
		{"trailing semicolon", `fprintf('semi\n');`, []string{"semi"}},
		{"vector literal", `fprintf('%d %d\n', [1 2 3])`, []string{"1 2", "3 "}},
		{"vector literal commas", `fprintf('%g\n', [0.5, 2*2])`, []string{"0.5", "4"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, transcriptOf(tc.program))
		})
	}
}

func TestStatementsSplitting(t *testing.T) {
	assert.Equal(t, []string{"a = 1", "b = 2"}, statements("a = 1; b = 2;  % trailing"))
	assert.Equal(t, []string{"fprintf('x; y %d', 1)"}, statements("fprintf('x; y %d', 1);"))
	assert.Empty(t, statements("   % only a comment"))
	assert.Equal(t, []string{"y = x'"}, statements("y = x'; % transpose"))
}
