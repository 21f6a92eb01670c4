package boltdb

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.etcd.io/bbolt"

	"github.com/lgoenaga/front-gea-cesde-sub000/core"
	"github.com/lgoenaga/front-gea-cesde-sub000/core/session"
	"github.com/lgoenaga/front-gea-cesde-sub000/storage/database"
)

func openDB(t *testing.T) *bbolt.DB {
	t.Helper()
	db, err := database.OpenPath(filepath.Join(t.TempDir(), "state", "session.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestSessionStorage(t *testing.T) {
	db := openDB(t)
	store, err := NewSessionStorage(db, "s3cr3t")
	require.NoError(t, err)

	_, err = store.Get(session.TokenKey)
	assert.Equal(t, session.ErrNotFound, err)

	require.NoError(t, store.Set(map[string]string{
		session.TokenKey:           "header.payload.sig",
		session.UserKey:            `{"id":1}`,
		session.TokenExpirationKey: "1700000000000",
	}))

	token, err := store.Get(session.TokenKey)
	require.NoError(t, err)
	assert.Equal(t, "header.payload.sig", token)

	usr, err := store.Get(session.UserKey)
	require.NoError(t, err)
	assert.Equal(t, `{"id":1}`, usr)

	// the token is not stored in clear
	_ = db.View(func(tx *bbolt.Tx) error {
		raw := tx.Bucket(database.Buckets["session"]).Get([]byte(session.TokenKey))
		assert.NotContains(t, string(raw), "header.payload.sig")
		return nil
	})

	// another secret cannot open it
	other, err := NewSessionStorage(db, "another")
	require.NoError(t, err)
	_, err = other.Get(session.TokenKey)
	assert.Equal(t, errUnsealable, err)

	require.NoError(t, store.Delete(session.TokenKey, session.UserKey, session.TokenExpirationKey))
	_, err = store.Get(session.UserKey)
	assert.Equal(t, session.ErrNotFound, err)
}

func TestNewSessionStorage(t *testing.T) {
	_, err := NewSessionStorage(openDB(t), "")
	assert.Error(t, err)
}

func TestSessionStorage_closed(t *testing.T) {
	db := openDB(t)
	store, err := NewSessionStorage(db, "s3cr3t")
	require.NoError(t, err)
	require.NoError(t, db.Close())

	err = store.Set(map[string]string{session.UserKey: "{}"})
	assert.True(t, core.IsShutdown(err), "err = %v", err)

	err = store.Delete(session.UserKey)
	assert.True(t, core.IsShutdown(err), "err = %v", err)

	_, err = store.Get(session.UserKey)
	assert.True(t, core.IsShutdown(err), "err = %v", err)
}
