package backend

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shamaton/msgpack/v2"
	"github.com/timewinder-dev/labrun/lab"
)

const (
	// ExecutePath is the remote endpoint that runs one program.
	ExecutePath = "/execute"
	ContentType = "application/msgpack"
	// RequestIDHeader carries the execution id.
	RequestIDHeader = "X-Request-Id"

	// MaxRequestBytes bounds an encoded request accepted by Handler.
	MaxRequestBytes = 1 << 20
	// MaxResultBytes bounds an encoded result read by Remote.
	MaxResultBytes = 64 << 20
)

// Request is the remote wire request.
type Request struct {
	Code    string `msgpack:"code"`
	Timeout int    `msgpack:"timeout"`
	APIKey  string `msgpack:"apiKey"`
}

// StatusError is a non-2xx answer from the remote service.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("remote returned %d %s", e.Code, http.StatusText(e.Code))
	}
	return fmt.Sprintf("remote returned %d %s: %s", e.Code, http.StatusText(e.Code), e.Body)
}

// Remote talks to the Docker hosted execution service.
type Remote struct {
	Endpoint string
	Client   *http.Client
}

var _ Backend = (*Remote)(nil)

func NewRemote(endpoint string) *Remote {
	return &Remote{Endpoint: endpoint, Client: http.DefaultClient}
}

func (r *Remote) Name() string { return "docker" }

func (r *Remote) endpoint(cfg lab.Config) string {
	if cfg.RemoteEndpoint != "" {
		return cfg.RemoteEndpoint
	}
	if r == nil {
		return ""
	}
	return r.Endpoint
}

func (r *Remote) Execute(ctx context.Context, program string, cfg lab.Config) (*lab.Result, error) {
	if !cfg.EnableDockerRuntime {
		return nil, fmt.Errorf("docker: %w", ErrDisabled)
	}
	base := r.endpoint(cfg)
	if base == "" {
		return nil, fmt.Errorf("docker: no endpoint configured: %w", ErrUnavailable)
	}
	if timeout := cfg.Timeout(); timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	body, err := msgpack.Marshal(Request{Code: program, Timeout: cfg.TimeoutMs, APIKey: cfg.APIKey})
	if err != nil {
		return nil, fmt.Errorf("docker: encoding request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, strings.TrimSuffix(base, "/")+ExecutePath, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("docker: %w", err)
	}
	id := RequestID(ctx)
	if id == "" {
		id = uuid.NewString()
	}
	req.Header.Set("Content-Type", ContentType)
	req.Header.Set("Accept", ContentType)
	req.Header.Set(RequestIDHeader, id)
	if cfg.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+cfg.APIKey)
	}

	client := http.DefaultClient
	if r != nil && r.Client != nil {
		client = r.Client
	}
	log.Trace().Str("id", id).Str("url", req.URL.String()).Msg("Remote: posting program")
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("docker: %w: %w", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("docker: %w", &StatusError{Code: resp.StatusCode, Body: strings.TrimSpace(string(msg))})
	}
	var res lab.Result
	if err := decode(io.LimitReader(resp.Body, MaxResultBytes), &res); err != nil {
		return nil, fmt.Errorf("docker: decoding result: %w", err)
	}
	res.Normalize()
	return &res, nil
}

// decode buffers a whole body before decoding it. msgpack.UnmarshalRead
// needs every Read to fill its buffer, and network bodies return short reads.
func decode(r io.Reader, v any) error {
	b, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	return msgpack.Unmarshal(b, v)
}
