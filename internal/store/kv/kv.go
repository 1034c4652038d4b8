// Package kv is the durable key-value port the list store writes through.
package kv

// Storage is the minimal key-value surface the list store needs.
// Get reports ok=false with a nil error when the key has never been set.
type Storage interface {
	Get(key string) (value string, ok bool, err error)
	Set(key, value string) error
}
