// Package lock serializes balance mutations per account.
//
// Two commands touching the same account (e.g. two payments crediting the
// same player) must not interleave their read-modify-write cycles, or the
// last write wins and the other delta is lost. Every mutation takes the
// locks of all usernames it touches first.
package lock

import (
	"context"
	"sort"
)

// Unlock releases every key acquired by one Lock call.
type Unlock func()

// Locker acquires exclusive ownership of a set of keys.
type Locker interface {
	// Lock blocks until all keys are held or ctx is done. Keys are taken in
	// sorted order so two callers locking overlapping sets cannot deadlock.
	Lock(ctx context.Context, keys ...string) (Unlock, error)
}

// normalize sorts keys and drops duplicates and empty strings.
func normalize(keys []string) []string {
	out := make([]string, 0, len(keys))
	for _, k := range keys {
		if k != "" {
			out = append(out, k)
		}
	}
	sort.Strings(out)

	n := 0
	for i, k := range out {
		if i > 0 && k == out[n-1] {
			continue
		}
		out[n] = k
		n++
	}
	return out[:n]
}
