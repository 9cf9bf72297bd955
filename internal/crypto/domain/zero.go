package domain

import "runtime"

// Zero securely overwrites a byte slice with zeros to clear sensitive data from memory.
func Zero(b []byte) {
	if b == nil {
		return
	}
	for i := range b {
		b[i] = 0
	}
	runtime.KeepAlive(b)
}

// ZeroAll zeroes every slice passed in.
func ZeroAll(slices ...[]byte) {
	for _, b := range slices {
		Zero(b)
	}
}
