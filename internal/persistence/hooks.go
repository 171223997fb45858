package persistence

import (
	"context"
	"time"

	"github.com/modhost/modhost/pkg/hostlog"
)

type ctxKey string

const beginKey ctxKey = "begin"

// queryHooks satisfies sqlhooks.Hooks, logging every prepared statement's
// duration at debug level, the same instrumentation the reference
// backend wraps its own sqlite3 driver with.
type queryHooks struct{}

func (h *queryHooks) Before(ctx context.Context, query string, args ...interface{}) (context.Context, error) {
	hostlog.Debugf("persistence: query %s %q", query, args)
	return context.WithValue(ctx, beginKey, time.Now()), nil
}

func (h *queryHooks) After(ctx context.Context, query string, args ...interface{}) (context.Context, error) {
	if begin, ok := ctx.Value(beginKey).(time.Time); ok {
		hostlog.Debugf("persistence: took %s", time.Since(begin))
	}
	return ctx, nil
}
