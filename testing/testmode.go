// Package testing puts the process into test mode when blank-imported
// by a package's tests. Runtime entry points check the flag and skip
// side effects such as opening listeners.
package testing

import "os"

func init() {
	_ = os.Setenv("FIRMBOOKS_TEST_MODE", "1")
	if os.Getenv("GOTENBERG_URL") == "" {
		// Point the PDF renderer at a dead address so an accidental
		// call fails fast instead of reaching a real service.
		_ = os.Setenv("GOTENBERG_URL", "http://127.0.0.1:0")
	}
}
