package store

import "context"

type controllerKey struct{}

// WithController makes c available to everything below ctx
func WithController(ctx context.Context, c *Controller) context.Context {
	return context.WithValue(ctx, controllerKey{}, c)
}

// FromContext returns the controller installed by WithController
func FromContext(ctx context.Context) (*Controller, error) {
	c, ok := ctx.Value(controllerKey{}).(*Controller)
	if !ok || c == nil {
		return nil, ErrStateNotInitialized
	}
	return c, nil
}

// MustFromContext panics when no controller was installed. Use it at
// wiring points where a missing controller is a programming error.
func MustFromContext(ctx context.Context) *Controller {
	c, err := FromContext(ctx)
	if err != nil {
		panic("could not find todo store in context, did you forget store.WithController?")
	}
	return c
}
