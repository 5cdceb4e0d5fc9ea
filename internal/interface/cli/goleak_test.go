package cli

import (
	"testing"

	"go.uber.org/goleak"
)

// TestMain fails the package if any test leaves a goroutine running, such
// as the opener of a database the command forgot to close
func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}
