package localstore

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/stridezone/storefront/internal/log"
)

// FileStore keeps one file per key under a state directory. Writes go
// through a temp file and rename so a crash mid-write never leaves a
// half-written slot.
type FileStore struct {
	dir string
}

func NewFileStore(dir string) *FileStore {
	return &FileStore{dir: dir}
}

func (s *FileStore) path(key string) string {
	return filepath.Join(s.dir, key)
}

func (s *FileStore) Get(c context.Context, key string) ([]byte, error) {
	value, err := os.ReadFile(s.path(key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrKeyNotFound
		}
		return nil, fmt.Errorf("failed reading slot key=%s with error=%w", key, err)
	}
	return value, nil
}

func (s *FileStore) Set(c context.Context, key string, value []byte) error {
	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "FileStore Set").
		Str(log.KeySlotKey, key).
		Logger()

	if err := os.MkdirAll(s.dir, 0o700); err != nil {
		err = fmt.Errorf("failed creating store dir=%s with error=%w", s.dir, err)
		logger.Error().Err(err).Msg(err.Error())
		return err
	}

	tmp, err := os.CreateTemp(s.dir, key+".tmp-*")
	if err != nil {
		err = fmt.Errorf("failed creating temp slot for key=%s with error=%w", key, err)
		logger.Error().Err(err).Msg(err.Error())
		return err
	}
	tmpName := tmp.Name()
	if _, err = tmp.Write(value); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		err = fmt.Errorf("failed writing slot key=%s with error=%w", key, err)
		logger.Error().Err(err).Msg(err.Error())
		return err
	}
	if err = tmp.Close(); err != nil {
		os.Remove(tmpName)
		err = fmt.Errorf("failed closing slot key=%s with error=%w", key, err)
		logger.Error().Err(err).Msg(err.Error())
		return err
	}
	if err = os.Rename(tmpName, s.path(key)); err != nil {
		os.Remove(tmpName)
		err = fmt.Errorf("failed replacing slot key=%s with error=%w", key, err)
		logger.Error().Err(err).Msg(err.Error())
		return err
	}
	return nil
}

func (s *FileStore) Delete(c context.Context, key string) error {
	err := os.Remove(s.path(key))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed deleting slot key=%s with error=%w", key, err)
	}
	return nil
}
