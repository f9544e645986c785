package localstore

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func testContext() context.Context {
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339Nano}).
		WithContext(context.Background())
}

func TestFileStore(t *testing.T) {
	c := testContext()
	store := NewFileStore(t.TempDir())

	_, err := store.Get(c, "stridezone_cart")
	assert.ErrorIs(t, err, ErrKeyNotFound)

	assert.NoError(t, store.Set(c, "stridezone_cart", []byte(`[{"id":1}]`)))
	value, err := store.Get(c, "stridezone_cart")
	assert.NoError(t, err)
	assert.Equal(t, []byte(`[{"id":1}]`), value)

	assert.NoError(t, store.Set(c, "stridezone_cart", []byte(`[]`)))
	value, err = store.Get(c, "stridezone_cart")
	assert.NoError(t, err)
	assert.Equal(t, []byte(`[]`), value, "set should overwrite the previous value")

	assert.NoError(t, store.Delete(c, "stridezone_cart"))
	_, err = store.Get(c, "stridezone_cart")
	assert.ErrorIs(t, err, ErrKeyNotFound)

	assert.NoError(t, store.Delete(c, "stridezone_cart"), "delete should be idempotent")
}

func TestFileStoreCreatesDirOnFirstWrite(t *testing.T) {
	c := testContext()
	dir := t.TempDir() + "/nested/.stridezone"
	store := NewFileStore(dir)

	assert.NoError(t, store.Set(c, "stridezone_token", []byte("token")))
	value, err := store.Get(c, "stridezone_token")
	assert.NoError(t, err)
	assert.Equal(t, []byte("token"), value)
}
