package chip8

import "math/rand"

// randIntn wraps math/rand so vm.go's defaultRNG stays a one-line
// constructor. Kept in its own file so the injected-RNG seam in Config.RNG
// is the only production entry point other code needs to know about.
func randIntn(n int) int {
	return rand.Intn(n)
}
