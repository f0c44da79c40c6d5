package server

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCheckAll(t *testing.T) {
	t.Run("all healthy", func(t *testing.T) {
		results, ok := CheckAll(context.Background(), map[string]HealthChecker{
			"app":      Static(true),
			"postgres": HealthCheckerFunc(func(context.Context) bool { return true }),
		})
		assert.True(t, ok)
		assert.Equal(t, map[string]bool{"app": true, "postgres": true}, results)
	})

	t.Run("one failing", func(t *testing.T) {
		results, ok := CheckAll(context.Background(), map[string]HealthChecker{
			"app":           Static(true),
			"elasticsearch": Static(false),
		})
		assert.False(t, ok)
		assert.False(t, results["elasticsearch"])
	})

	t.Run("no checkers", func(t *testing.T) {
		results, ok := CheckAll(context.Background(), nil)
		assert.True(t, ok)
		assert.Empty(t, results)
	})
}
