package trace

import "context"

// carrier keeps the tracer and the innermost open span together, so a worker
// only needs its ctx to attach child spans.
type carrier struct {
	tracer Tracer
	parent uint64
}

type ctxKey struct{}

func load(ctx context.Context) carrier {
	if ctx != nil {
		if c, ok := ctx.Value(ctxKey{}).(carrier); ok {
			return c
		}
	}
	return carrier{tracer: Nop}
}

// FromContext returns the tracer attached to ctx, or Nop.
func FromContext(ctx context.Context) Tracer {
	return load(ctx).tracer
}

// WithTracer attaches t to ctx. Spans started from the result are roots.
func WithTracer(ctx context.Context, t Tracer) context.Context {
	if t == nil {
		t = Nop
	}
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxKey{}, carrier{tracer: t})
}

// Parent returns the ID of the innermost span opened with Start, 0 at the root.
func Parent(ctx context.Context) uint64 {
	return load(ctx).parent
}

// Start opens a span below the innermost span of ctx and returns a context in
// which the new span is the parent. A span filtered out by the level leaves
// the parent unchanged, so its children attach one level up.
func Start(ctx context.Context, scope Scope, name string) (context.Context, *Span) {
	c := load(ctx)
	span := Begin(c.tracer, scope, name, c.parent)
	if span.ID() == 0 {
		return ctx, span
	}
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxKey{}, carrier{tracer: c.tracer, parent: span.ID()}), span
}
