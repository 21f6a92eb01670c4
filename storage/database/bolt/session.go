package boltdb

import (
	"crypto/rand"
	"crypto/sha256"
	"io"

	"github.com/kat-co/vala"
	"github.com/pkg/errors"
	"go.etcd.io/bbolt"
	"golang.org/x/crypto/nacl/secretbox"

	"github.com/lgoenaga/front-gea-cesde-sub000/core"
	"github.com/lgoenaga/front-gea-cesde-sub000/core/session"
	"github.com/lgoenaga/front-gea-cesde-sub000/storage/database"
)

const nonceSize = 24

var errUnsealable = errors.New("stored value cannot be opened with the current secret key")

// SessionStorage persists session keys in the "session" bucket.
// The bearer token is sealed with secretbox under a key derived from the app secret.
type SessionStorage struct {
	db     *bbolt.DB
	bucket []byte
	key    [32]byte
	sealed map[string]bool
}

var _ session.Storage = (*SessionStorage)(nil)

func NewSessionStorage(db *bbolt.DB, secretKey string) (*SessionStorage, error) {
	if err := vala.BeginValidation().Validate(
		vala.IsNotNil(db, "db"),
		vala.StringNotEmpty(secretKey, "secretKey"),
	).Check(); err != nil {
		return nil, errors.Wrap(err, "boltdb.NewSessionStorage")
	}
	return &SessionStorage{
		db:     db,
		bucket: database.Buckets["session"],
		key:    sha256.Sum256([]byte(secretKey)),
		sealed: map[string]bool{session.TokenKey: true},
	}, nil
}

func (s *SessionStorage) Get(key string) (string, error) {
	var raw []byte
	err := s.db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket(s.bucket)
		if b == nil {
			return session.ErrNotFound
		}
		v := b.Get([]byte(key))
		if v == nil {
			return session.ErrNotFound
		}
		raw = append([]byte(nil), v...) // v is only valid inside the tx
		return nil
	})
	if err != nil {
		return "", storeErr(err)
	}
	if !s.sealed[key] {
		return string(raw), nil
	}
	return s.open(raw)
}

func (s *SessionStorage) Set(values map[string]string) error {
	return storeErr(s.db.Update(func(tx *bbolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists(s.bucket)
		if err != nil {
			return err
		}
		for k, v := range values {
			data := []byte(v)
			if s.sealed[k] {
				if data, err = s.seal(data); err != nil {
					return err
				}
			}
			if err = b.Put([]byte(k), data); err != nil {
				return errors.Wrapf(err, "storing %s", k)
			}
		}
		return nil
	}))
}

func (s *SessionStorage) Delete(keys ...string) error {
	return storeErr(s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(s.bucket)
		if b == nil {
			return nil
		}
		for _, k := range keys {
			if err := b.Delete([]byte(k)); err != nil {
				return errors.Wrapf(err, "deleting %s", k)
			}
		}
		return nil
	}))
}

// storeErr turns a closed state file into a shutdown error.
func storeErr(err error) error {
	if errors.Cause(err) == bbolt.ErrDatabaseNotOpen {
		return core.NewShutdownError("session store is closed")
	}
	return err
}

func (s *SessionStorage) seal(plain []byte) ([]byte, error) {
	var nonce [nonceSize]byte
	if _, err := io.ReadFull(rand.Reader, nonce[:]); err != nil {
		return nil, errors.Wrap(err, "reading nonce")
	}
	return secretbox.Seal(nonce[:], plain, &nonce, &s.key), nil
}

func (s *SessionStorage) open(box []byte) (string, error) {
	if len(box) < nonceSize+secretbox.Overhead {
		return "", errUnsealable
	}
	var nonce [nonceSize]byte
	copy(nonce[:], box[:nonceSize])
	plain, ok := secretbox.Open(nil, box[nonceSize:], &nonce, &s.key)
	if !ok {
		return "", errUnsealable
	}
	return string(plain), nil
}
