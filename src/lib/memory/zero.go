package memory

import "sync/atomic"

// ZeroVolatile clears words one at a time with stores the compiler cannot
// elide or merge. It is how .bss gets cleared before anything reads it.
func ZeroVolatile(words []uint64) {
	for i := range words {
		atomic.StoreUint64(&words[i], 0)
	}
}
