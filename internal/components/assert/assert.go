package assert

import "fmt"

// True panics with the formatted message when cond is false, use it only for
// states that indicate a bug rather than bad input.
func True(cond bool, format string, args ...any) {
	if !cond {
		panic(fmt.Sprintf("assertion failed: "+format, args...))
	}
}
