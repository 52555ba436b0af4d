package lab

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResultInvariant(t *testing.T) {
	ok := Succeeded(nil, Dataset{})
	assert.True(t, ok.Success)
	assert.Empty(t, ok.ErrorMessage)
	assert.NotNil(t, ok.Transcript)
	assert.Nil(t, ok.Dataset)

	bad := Failed([]string{"partial"}, errors.New("boom"))
	assert.False(t, bad.Success)
	assert.Equal(t, "boom", bad.ErrorMessage)
	assert.Equal(t, []string{"partial"}, bad.Transcript)

	assert.NotEmpty(t, Failed(nil, nil).ErrorMessage)
}

func TestNormalize(t *testing.T) {
	r := Result{Success: true, ErrorMessage: "stale"}
	r.Normalize()
	assert.Empty(t, r.ErrorMessage)
	assert.NotNil(t, r.Transcript)

	r = Result{Success: false}
	r.Normalize()
	assert.NotEmpty(t, r.ErrorMessage)
}

func TestNewSeriesTruncates(t *testing.T) {
	s := NewSeries([]float64{0, 1, 2}, []float64{5, 6}, Line, "x")
	assert.Equal(t, 2, s.Len())
	v, ok := s.Float(1)
	assert.True(t, ok)
	assert.Equal(t, 1.0, v)
}
