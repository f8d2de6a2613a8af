// Package store caches raw upstream responses keyed by a relative path such
// as "element-summary/302.json". Only raw payloads are cached; nothing derived
// from them is ever written here.
package store

import (
	"errors"
	"time"
)

var (
	// ErrNotFound is returned by ReadRaw when no entry exists for a key.
	ErrNotFound = errors.New("store: not found")
	// ErrInvalidKey is returned for keys that are empty or escape the cache root.
	ErrInvalidKey = errors.New("store: invalid key")
)

// Store is a raw-response cache.
type Store interface {
	// Stat reports when rel was last written and whether it exists.
	Stat(rel string) (time.Time, bool)
	ReadRaw(rel string) ([]byte, error)
	WriteRaw(rel string, body []byte, pretty bool) error
}

// Fresh reports whether rel exists in st and is younger than maxAge.
// A zero maxAge means entries never expire.
func Fresh(st Store, rel string, maxAge time.Duration, now time.Time) bool {
	modTime, ok := st.Stat(rel)
	if !ok {
		return false
	}
	if maxAge <= 0 {
		return true
	}
	return now.Sub(modTime) < maxAge
}
