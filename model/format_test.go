package model

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/timewinder-dev/labrun/lab"
)

func TestFormatResult(t *testing.T) {
	out := FormatResult(lab.Succeeded([]string{"first", "second"}, nil))
	assert.Contains(t, out, "  first\n  second\n")
	assert.Contains(t, out, "Execution succeeded")

	out = FormatResult(lab.Failed([]string{"partial"}, assert.AnError))
	assert.Contains(t, out, "  partial\n")
	assert.Contains(t, out, "Execution failed")
	assert.Contains(t, out, assert.AnError.Error())

	assert.Contains(t, FormatResult(lab.Succeeded(nil, nil)), "(no output)")
}

func TestWriteDatasetTable(t *testing.T) {
	ds := lab.Dataset{
		"custom":            lab.NewSeries([]float64{1}, []float64{7}, lab.Marker, ""),
		lab.ErrorSeries:     lab.NewSeries([]float64{0, 1}, []float64{0.5, 0.25}, lab.Marker, "err"),
		lab.TimeSeries:      lab.NewSeries([]float64{0, 0.5, 1}, []float64{-1, 0, 2}, lab.Line, "x(t)"),
		lab.FrequencySeries: lab.NewSeries(nil, nil, lab.Line, ""),
	}
	var buf bytes.Buffer
	WriteDatasetTable(&buf, ds)
	out := buf.String()
	assert.Contains(t, out, "0 .. 1")
	assert.Contains(t, out, "x(t)")

	iTime := bytes.Index(buf.Bytes(), []byte(lab.TimeSeries))
	iFreq := bytes.Index(buf.Bytes(), []byte(lab.FrequencySeries))
	iErr := bytes.Index(buf.Bytes(), []byte("error "))
	iCustom := bytes.Index(buf.Bytes(), []byte("custom"))
	assert.Less(t, iTime, iFreq)
	assert.Less(t, iFreq, iErr)
	assert.Less(t, iErr, iCustom)

	buf.Reset()
	WriteDatasetTable(&buf, nil)
	assert.Equal(t, "(no dataset)\n", buf.String())
}

func TestWriteBatchTable(t *testing.T) {
	var buf bytes.Buffer
	WriteBatchTable(&buf, []NamedResult{
		{Name: "a.m", Result: lab.Succeeded([]string{"x"}, nil)},
		{Name: "b.m", Result: lab.Failed(nil, assert.AnError)},
	})
	assert.Contains(t, buf.String(), "a.m")
	assert.Contains(t, strings.ToLower(buf.String()), "1 failed")
}

func TestIndentWriter(t *testing.T) {
	var buf bytes.Buffer
	w := NewIndentWriter(&buf, "> ")
	_, _ = w.Write([]byte("one\ntw"))
	_, _ = w.Write([]byte("o\n\nthree"))
	assert.Equal(t, "> one\n> two\n> \n> three", buf.String())
}
