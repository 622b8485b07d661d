package store

import "errors"

// ErrNotFound is returned by KV.Get when the key holds no value.
var ErrNotFound = errors.New("key not found")

// KV is the byte store the recent-search store persists into.
// Calls are synchronous from the caller's point of view.
type KV interface {
	Get(key string) (string, error)
	Set(key, value string) error
	Remove(key string) error
}
