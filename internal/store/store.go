// Package store is the persistent key-value adapter the session and the CLI
// cart use to survive restarts.
package store

// Keys used in production. The auth token is the only cross-component
// shared value; the cart key belongs to the CLI boundary alone.
const (
	TokenKey = "token"
	CartKey  = "cart"
)

type Store interface {
	Get(key string) (string, bool)
	Set(key, value string) error
	Remove(key string) error
}
