package access

import (
	"context"
	"errors"
	"strings"
)

// ErrNoPrincipal is returned when no acting user is attached to the request.
var ErrNoPrincipal = errors.New("access: no acting user in context")

// Context names the acting principal used for audit stamping.
type Context interface {
	UserID() (string, error)
}

type principalKey struct{}

// WithUserID attaches the acting user id to ctx.
func WithUserID(ctx context.Context, userID string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, principalKey{}, strings.TrimSpace(userID))
}

type requestContext struct {
	ctx context.Context
}

// FromContext reads the acting user set by WithUserID.
func FromContext(ctx context.Context) Context {
	return requestContext{ctx: ctx}
}

func (r requestContext) UserID() (string, error) {
	if r.ctx == nil {
		return "", ErrNoPrincipal
	}
	v, _ := r.ctx.Value(principalKey{}).(string)
	if v == "" {
		return "", ErrNoPrincipal
	}
	return v, nil
}

// Static always reports the same principal (batch jobs, CLI).
type Static string

func (s Static) UserID() (string, error) {
	if strings.TrimSpace(string(s)) == "" {
		return "", ErrNoPrincipal
	}
	return string(s), nil
}
