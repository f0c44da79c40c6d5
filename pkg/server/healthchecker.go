package server

import (
	"context"
	"sort"
)

type HealthChecker interface {
	Healthy(ctx context.Context) bool
}

// HealthCheckerFunc adapts a plain function to HealthChecker.
type HealthCheckerFunc func(ctx context.Context) bool

func (f HealthCheckerFunc) Healthy(ctx context.Context) bool {
	return f(ctx)
}

// Static reports a fixed state; "app" uses it to signal the process is serving.
func Static(healthy bool) HealthChecker {
	return HealthCheckerFunc(func(context.Context) bool { return healthy })
}

// CheckAll runs every checker in name order and reports each outcome.
func CheckAll(ctx context.Context, checkers map[string]HealthChecker) (map[string]bool, bool) {
	names := make([]string, 0, len(checkers))
	for name := range checkers {
		names = append(names, name)
	}
	sort.Strings(names)

	results := make(map[string]bool, len(names))
	all := true
	for _, name := range names {
		ok := checkers[name].Healthy(ctx)
		results[name] = ok
		all = all && ok
	}
	return results, all
}
