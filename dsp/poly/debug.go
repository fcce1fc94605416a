package poly

import "fmt"

// CheckFinite panics when x holds NaN or Inf. It is a no-op unless the
// package is built with the synthdebug tag.
func CheckFinite(name string, x Float) {
	if !debugChecks {
		return
	}
	if !IsFinite(x) {
		panic(fmt.Sprintf("poly: %s is not finite: %v", name, x))
	}
}
