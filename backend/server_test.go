package backend

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/shamaton/msgpack/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/timewinder-dev/labrun/lab"
)

func echoProgram(ctx context.Context, program string, cfg lab.Config) lab.Result {
	return lab.Succeeded([]string{program, RequestID(ctx)}, nil)
}

func TestHandlerWithRemoteClient(t *testing.T) {
	srv := httptest.NewServer(Handler("k3y", echoProgram))
	defer srv.Close()

	ctx := WithRequestID(context.Background(), "abc")
	res, err := NewRemote(srv.URL).Execute(ctx, "disp(42)", lab.Config{EnableDockerRuntime: true, APIKey: "k3y"})
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Equal(t, []string{"disp(42)", "abc"}, res.Transcript)
}

func TestHandlerRejectsBadKey(t *testing.T) {
	srv := httptest.NewServer(Handler("k3y", echoProgram))
	defer srv.Close()

	_, err := NewRemote(srv.URL).Execute(context.Background(), "x", lab.Config{EnableDockerRuntime: true, APIKey: "wrong"})
	var se *StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusUnauthorized, se.Code)
}

func TestHandlerAcceptsBodyKey(t *testing.T) {
	h := Handler("k3y", echoProgram)
	body, err := msgpack.Marshal(Request{Code: "x = 1", APIKey: "k3y"})
	require.NoError(t, err)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, ExecutePath, bytes.NewReader(body)))
	require.Equal(t, http.StatusOK, rec.Code)

	var res lab.Result
	require.NoError(t, msgpack.Unmarshal(rec.Body.Bytes(), &res))
	assert.Equal(t, "x = 1", res.Transcript[0])
	assert.NotEmpty(t, res.Transcript[1])
}

func TestHandlerBadRequests(t *testing.T) {
	h := Handler("", echoProgram)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, ExecutePath, bytes.NewReader([]byte{0xc1})))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	body, err := msgpack.Marshal(Request{Code: "   "})
	require.NoError(t, err)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, ExecutePath, bytes.NewReader(body)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestHandlerShortReadBody(t *testing.T) {
	h := Handler("", echoProgram)
	body, err := msgpack.Marshal(Request{Code: "fs = 1000"})
	require.NoError(t, err)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, ExecutePath, iotest.OneByteReader(bytes.NewReader(body))))
	require.Equal(t, http.StatusOK, rec.Code)

	var res lab.Result
	require.NoError(t, decode(iotest.OneByteReader(rec.Body), &res))
	assert.Equal(t, "fs = 1000", res.Transcript[0])
}

func TestHandlerRejectsOversizedBody(t *testing.T) {
	h := Handler("", echoProgram)
	body, err := msgpack.Marshal(Request{Code: strings.Repeat("x", MaxRequestBytes)})
	require.NoError(t, err)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, ExecutePath, bytes.NewReader(body)))
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}
