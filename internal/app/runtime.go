package app

import (
	"os"
	"sync/atomic"
)

const testModeEnv = "FIRMBOOKS_TEST_MODE"

var testMode atomic.Pointer[bool]

// InTestMode reports whether the process runs under the test harness
// and should skip runtime side effects such as opening listeners or
// connecting to backing services. The flag is read once and cached.
func InTestMode() bool {
	if v := testMode.Load(); v != nil {
		return *v
	}
	v := os.Getenv(testModeEnv) == "1"
	testMode.Store(&v)
	return v
}

// RefreshTestMode re-reads the flag after an environment change.
func RefreshTestMode() {
	v := os.Getenv(testModeEnv) == "1"
	testMode.Store(&v)
}
