// Package gid extracts the current goroutine's ID from the runtime stack.
// It exists so per-goroutine state (dependency tracking, provider scopes)
// can be keyed without threading a context through every call.
package gid

import "runtime"

// ID returns a unique identifier for the current goroutine.
// Implementation detail; never expose goroutine IDs to users.
func ID() uint64 {
	var buf [64]byte
	n := runtime.Stack(buf[:], false)

	// The stack trace starts with "goroutine <id> ".
	var id uint64
	for i := 10; i < n; i++ {
		if buf[i] == ' ' {
			break
		}
		id = id*10 + uint64(buf[i]-'0')
	}
	return id
}
