package observable

import "context"

// Watch reloads a query every time trigger publishes and streams the results.
//
// The first load happens as soon as trigger holds a value. Loads run one at a
// time in a single goroutine, so a result is never older than the result
// sent before it. Failed loads are reported to onError and skipped. The
// returned channel is closed when ctx is done.
func Watch[V, T any](ctx context.Context, trigger *Subject[V], load func(context.Context) (T, error), onError func(error)) <-chan T {
	out := make(chan T, 1)
	signals := trigger.Subscribe(ctx)

	go func() {
		defer close(out)
		for range signals {
			result, err := load(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				if onError != nil {
					onError(err)
				}
				continue
			}
			if ctx.Err() != nil {
				return
			}
			offer(out, result)
		}
	}()

	return out
}

// Forward publishes every value received from src into dst until src closes
// or ctx is done.
func Forward[T any](ctx context.Context, src <-chan T, dst *Subject[T]) {
	for {
		select {
		case <-ctx.Done():
			return
		case v, ok := <-src:
			if !ok {
				return
			}
			dst.Publish(v)
		}
	}
}
