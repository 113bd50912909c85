package repositories

import (
	"testing"

	"github.com/dgraph-io/badger/v4"
	"github.com/stretchr/testify/require"
)

func setupTestDB(t *testing.T) *badger.DB {
	opts := badger.DefaultOptions("").WithInMemory(true).WithLogger(nil)
	db, err := badger.Open(opts)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestGetNextID(t *testing.T) {
	db := setupTestDB(t)

	for want := 1; want <= 3; want++ {
		err := db.Update(func(txn *badger.Txn) error {
			id, err := getNextID(txn, PostSeqKey)
			require.NoError(t, err)
			require.Equal(t, want, id)
			return nil
		})
		require.NoError(t, err)
	}
}

func TestIndexRoundTrip(t *testing.T) {
	db := setupTestDB(t)

	err := db.Update(func(txn *badger.Txn) error {
		return setIndex(txn, UserEmailKeyPrefix+"a@b.c", 42)
	})
	require.NoError(t, err)

	err = db.View(func(txn *badger.Txn) error {
		id, err := lookupIndex(txn, UserEmailKeyPrefix+"a@b.c")
		require.NoError(t, err)
		require.Equal(t, 42, id)

		_, err = lookupIndex(txn, UserEmailKeyPrefix+"missing")
		require.ErrorIs(t, err, ErrNotFound)
		return nil
	})
	require.NoError(t, err)
}
