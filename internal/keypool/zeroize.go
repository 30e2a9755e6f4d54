package keypool

import "runtime"

// clearBytes zeros out a byte slice so a key's secret material does not
// linger in memory after eviction. Uses runtime.KeepAlive to prevent the
// compiler from optimizing away the zeroing loop.
func clearBytes(b []byte) {
	if b == nil || len(b) == 0 {
		return
	}

	for i := range b {
		b[i] = 0
	}

	// Prevent compiler from optimizing away the zeroing
	runtime.KeepAlive(b)
}
