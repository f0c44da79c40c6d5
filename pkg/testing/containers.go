package testing

import (
	"testing"

	"github.com/testcontainers/testcontainers-go"
)

// terminateOnCleanup stops the container when the test finishes.
func terminateOnCleanup(tb testing.TB, name string, c testcontainers.Container) {
	tb.Cleanup(func() {
		if err := testcontainers.TerminateContainer(c); err != nil {
			tb.Logf("terminate %s container: %v", name, err)
		}
	})
}
