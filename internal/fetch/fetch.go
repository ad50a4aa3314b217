// Package fetch issues one request per period and collects the outcomes in
// input order.
package fetch

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"finboard/internal/api"
	"finboard/internal/core"
	applog "finboard/internal/log"
)

type Options struct {
	// Concurrency caps in-flight requests; 0 means one goroutine per period.
	Concurrency int
	Logger      *applog.Logger
	// Label names the resource in log lines, e.g. "networth".
	Label string
}

// All resolves every period and returns one result per period, in input
// order. A failing period only fills its own slot: siblings keep running
// and the shared context is never cancelled on their behalf. There are no
// retries here.
func All[T any](ctx context.Context, periods []core.Period, resolve func(context.Context, core.Period) (T, error), opts Options) []core.Result[T] {
	results := make([]core.Result[T], len(periods))
	if len(periods) == 0 {
		return results
	}
	logger := opts.Logger
	if logger == nil {
		logger = applog.Discard()
	}
	logger = logger.WithComponent(applog.ComponentFetch)

	var g errgroup.Group
	if opts.Concurrency > 0 {
		g.SetLimit(opts.Concurrency)
	}

	start := time.Now()
	for i, p := range periods {
		g.Go(func() error {
			results[i] = resolveOne(ctx, p, resolve)
			if err := results[i].Err; err != nil {
				logger.WarnContext(ctx, "Period fetch failed",
					applog.FieldResource, opts.Label,
					applog.FieldPeriod, p.String(),
					applog.FieldSlot, i,
					applog.FieldErrorType, api.ErrorType(err),
					applog.FieldError, err)
			}
			return nil
		})
	}
	_ = g.Wait()

	failed := 0
	for _, r := range results {
		if !r.OK() {
			failed++
		}
	}
	logger.DebugContext(ctx, "Window fetched",
		applog.FieldResource, opts.Label,
		applog.FieldCount, len(periods),
		"failed", failed,
		applog.FieldDuration, time.Since(start).Milliseconds())
	return results
}

func resolveOne[T any](ctx context.Context, p core.Period, resolve func(context.Context, core.Period) (T, error)) (res core.Result[T]) {
	defer func() {
		if r := recover(); r != nil {
			res = core.Fail[T](fmt.Errorf("resolve %s: panic: %v", p, r))
		}
	}()
	v, err := resolve(ctx, p)
	if err != nil {
		return core.Fail[T](err)
	}
	return core.Ok(v)
}
