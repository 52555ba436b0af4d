// Package backend holds the external execution backends tried before local
// simulation: a native runtime adapter and a remote (Docker hosted) service
// spoken to over HTTP with msgpack bodies.
//
// Programs reach these backends unsanitized. They are privileged
// collaborators and enforce their own containment.
package backend

import (
	"context"
	"errors"

	"github.com/timewinder-dev/labrun/lab"
)

var (
	// ErrDisabled is returned by a backend whose capability switch is off.
	ErrDisabled = errors.New("backend disabled")
	// ErrUnavailable is returned when a backend cannot be reached.
	ErrUnavailable = errors.New("backend unavailable")
)

// Backend executes a program outside this process. Any error means the
// caller should fall back.
type Backend interface {
	Name() string
	Execute(ctx context.Context, program string, cfg lab.Config) (*lab.Result, error)
}

type requestIDKey struct{}

// WithRequestID attaches the execution id forwarded to remote backends.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

// RequestID returns the execution id attached to ctx, if any.
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}
