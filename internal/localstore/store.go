// Package localstore provides the durable local store: key-value
// persistence that survives process restarts. The file backend is the
// default; a redis backend exists for shared development environments.
package localstore

import (
	"context"
	"errors"
)

var ErrKeyNotFound = errors.New("key not found in local store")

// Store is a single-writer key-value slot store. The cart and the
// session token each own exactly one slot; external modification of a
// slot is undefined behavior and not guarded against.
type Store interface {
	Get(c context.Context, key string) ([]byte, error)
	Set(c context.Context, key string, value []byte) error
	Delete(c context.Context, key string) error
}
