package xcontext

import "context"

type requestStateKey struct{}

// requestState is a mutable holder shared between router, middlewares, and
// closers of a single request.
type requestState struct {
	response any
	err      error
}

func WithRequestState(ctx context.Context) context.Context {
	return context.WithValue(ctx, requestStateKey{}, &requestState{})
}

func state(ctx context.Context) *requestState {
	if s, ok := ctx.Value(requestStateKey{}).(*requestState); ok {
		return s
	}
	return nil
}

func SetResponse(ctx context.Context, resp any) {
	if s := state(ctx); s != nil {
		s.response = resp
	}
}

// GetResponse returns the response object of this request. It is non-nil only
// after the handler has run, i.e. in After middlewares and closers.
func GetResponse(ctx context.Context) any {
	if s := state(ctx); s != nil {
		return s.response
	}
	return nil
}

func SetError(ctx context.Context, err error) {
	if s := state(ctx); s != nil {
		s.err = err
	}
}

func GetError(ctx context.Context) error {
	if s := state(ctx); s != nil {
		return s.err
	}
	return nil
}
