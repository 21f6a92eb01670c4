package database

import (
	"os"
	"path/filepath"
	"time"

	"github.com/pkg/errors"
	"go.etcd.io/bbolt"

	"github.com/lgoenaga/front-gea-cesde-sub000/core"
)

// Buckets created on open.
var Buckets = map[string][]byte{
	"session": []byte("session"),
}

// lockTimeout bounds the wait for the file lock held by another console or admin process.
const lockTimeout = 2 * time.Second

// Open opens (creating if needed) the local state file at conf.Session.Path.
func Open(conf *core.Config) (*bbolt.DB, error) {
	return OpenPath(conf.Session.Path)
}

func OpenPath(path string) (*bbolt.DB, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0700); err != nil {
			return nil, errors.Wrapf(err, "creating %s", dir)
		}
	}

	db, err := bbolt.Open(path, 0600, &bbolt.Options{Timeout: lockTimeout})
	if err != nil {
		return nil, errors.Wrapf(err, "opening %s", path)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		for _, name := range Buckets {
			if _, err := tx.CreateBucketIfNotExists(name); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, "creating buckets")
	}
	return db, nil
}
