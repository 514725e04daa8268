package engine

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

// TestSuiteEngine runs the behavior every backend must share against engines
// produced by new.  Each subtest gets a fresh engine.
func TestSuiteEngine(t *testing.T, new func() Engine) {
	t.Run("TransactionSnapshot", func(t *testing.T) {
		engine := new()
		defer engine.Close()

		tx, err := engine.Transaction()
		require.NoErrorf(t, err, "failed to create transaction")

		key := []byte("n\x00\x00\x00\x01")
		value := []byte("node1")
		err = tx.Put(key, value)
		require.NoErrorf(t, err, "failed to put data into transaction")

		// Uncommitted writes are invisible.
		snapshot, err := engine.Snapshot()
		require.NoErrorf(t, err, "failed to create snapshot")

		has, err := snapshot.Has(key)
		require.NoErrorf(t, err, "failed to check if key exists in snapshot")
		require.Falsef(t, has, "expected key to not exist in snapshot")

		gotValue, err := snapshot.Get(key)
		require.Errorf(t, err, "expected to get error when getting value from snapshot")
		require.Nil(t, gotValue, "expected to get nil value from snapshot")

		err = tx.Commit()
		require.NoErrorf(t, err, "failed to commit transaction")

		// A snapshot taken before the commit keeps its view.
		has, err = snapshot.Has(key)
		require.NoErrorf(t, err, "failed to check if key exists in old snapshot")
		require.Falsef(t, has, "expected key to not exist in old snapshot")
		snapshot.Release()

		snapshot, err = engine.Snapshot()
		require.NoErrorf(t, err, "failed to create snapshot")

		gotValue, err = snapshot.Get(key)
		require.NoErrorf(t, err, "failed to get value from snapshot")
		require.Equalf(t, value, gotValue, "snapshot value mismatch")
		snapshot.Release()
	})

	t.Run("OverwriteDelete", func(t *testing.T) {
		engine := new()
		defer engine.Close()

		tx, err := engine.Transaction()
		require.NoError(t, err)
		require.NoError(t, tx.Put([]byte("m"), []byte("v1")))
		require.NoError(t, tx.Put([]byte("i-alice"), []byte("100")))
		require.NoError(t, tx.Commit())

		tx, err = engine.Transaction()
		require.NoError(t, err)
		require.NoError(t, tx.Put([]byte("m"), []byte("v2")))
		require.NoError(t, tx.Delete([]byte("i-alice")))
		require.NoError(t, tx.Delete([]byte("i-missing")))
		require.NoError(t, tx.Commit())

		snapshot, err := engine.Snapshot()
		require.NoError(t, err)
		defer snapshot.Release()

		got, err := snapshot.Get([]byte("m"))
		require.NoError(t, err)
		require.Equal(t, []byte("v2"), got)
		has, err := snapshot.Has([]byte("i-alice"))
		require.NoError(t, err)
		require.False(t, has)
	})

	t.Run("DiscardedTransaction", func(t *testing.T) {
		engine := new()
		defer engine.Close()

		tx, err := engine.Transaction()
		require.NoError(t, err)
		require.NoError(t, tx.Put([]byte("m"), []byte("v1")))
		tx.Discard()

		snapshot, err := engine.Snapshot()
		require.NoError(t, err)
		defer snapshot.Release()

		has, err := snapshot.Has([]byte("m"))
		require.NoError(t, err)
		require.False(t, has, "discarded write is visible")
	})

	t.Run("TransactionIterator", func(t *testing.T) {
		for _, test := range []struct {
			kvs       map[string]string // random order of key-value pairs
			ranges    *Range
			expectkvs [][2]string
		}{
			{
				kvs:       map[string]string{"key1": "value1", "key2": "value2", "key3": "value3"},
				ranges:    &Range{Start: []byte("key0"), Limit: []byte("key1")},
				expectkvs: nil,
			},
			{
				kvs:       map[string]string{"key1": "value1", "key2": "value2", "key3": "value3"},
				ranges:    &Range{Start: []byte("key1"), Limit: []byte("key3")},
				expectkvs: [][2]string{{"key1", "value1"}, {"key2", "value2"}},
			},
			{
				kvs:       map[string]string{"key1": "value1", "key2": "value2", "key3": "value3"},
				ranges:    &Range{Start: []byte("key10"), Limit: []byte("key30")},
				expectkvs: [][2]string{{"key2", "value2"}, {"key3", "value3"}},
			},
			{
				kvs:       map[string]string{"key1": "value1", "key2": "value2", "key3": "value3"},
				ranges:    &Range{Start: []byte("key2"), Limit: []byte("key2")},
				expectkvs: nil,
			},
			{
				kvs:       map[string]string{"m": "meta", "n\x00\x01": "a", "n\x00\x02": "b", "i-x": "c"},
				ranges:    BytesPrefix([]byte("n")),
				expectkvs: [][2]string{{"n\x00\x01", "a"}, {"n\x00\x02", "b"}},
			},
			{
				kvs:       map[string]string{"a": "1", "b\xff": "2", "c": "3"},
				ranges:    BytesPrefix([]byte("b\xff")),
				expectkvs: [][2]string{{"b\xff", "2"}},
			},
		} {
			engine := new()
			defer engine.Close()

			tx, err := engine.Transaction()
			require.NoErrorf(t, err, "failed to create transaction")
			for k, v := range test.kvs {
				err = tx.Put([]byte(k), []byte(v))
				require.NoErrorf(t, err, "failed to put data into transaction")
			}
			err = tx.Commit()
			require.NoErrorf(t, err, "failed to commit transaction")

			snapshot, err := engine.Snapshot()
			require.NoErrorf(t, err, "failed to create snapshot")

			iter := snapshot.NewIterator(test.ranges)
			var idx int
			for iter.Next() {
				if idx >= len(test.expectkvs) {
					require.FailNowf(t, "unexpected key-value pair", "key: %s, value: %s", iter.Key(), iter.Value())
				}

				require.Equalf(t, []byte(test.expectkvs[idx][0]), iter.Key(), "key mismatch")
				require.Equalf(t, []byte(test.expectkvs[idx][1]), iter.Value(), "value mismatch")
				idx++
			}
			require.Equalf(t, len(test.expectkvs), idx, "key-value pair count mismatch")
			require.Nil(t, iter.Key(), "exhausted iterator returned a key")

			iter.Release()
			snapshot.Release()
		}
	})

	t.Run("IteratorSeek", func(t *testing.T) {
		engine := new()
		defer engine.Close()

		tx, err := engine.Transaction()
		require.NoError(t, err)
		for i := 0; i < 10; i++ {
			key := []byte(fmt.Sprintf("n%02d", i*2))
			require.NoError(t, tx.Put(key, key))
		}
		require.NoError(t, tx.Commit())

		snapshot, err := engine.Snapshot()
		require.NoError(t, err)
		defer snapshot.Release()

		iter := snapshot.NewIterator(BytesPrefix([]byte("n")))
		defer iter.Release()

		require.True(t, iter.Seek([]byte("n05")))
		require.Equal(t, []byte("n06"), iter.Key())
		require.True(t, iter.Prev())
		require.Equal(t, []byte("n04"), iter.Key())
		require.True(t, iter.Last())
		require.Equal(t, []byte("n18"), iter.Key())
		require.False(t, iter.Next())
		require.True(t, iter.First())
		require.Equal(t, []byte("n00"), iter.Key())
		require.False(t, iter.Prev())
		require.False(t, iter.Seek([]byte("n19")))
		require.NoError(t, iter.Error())

		var visited int
		err = ForEach(snapshot, BytesPrefix([]byte("n1")), func(k, v []byte) error {
			require.Equal(t, k, v)
			visited++
			return nil
		})
		require.NoError(t, err)
		require.Equal(t, 5, visited)
	})

	t.Run("DbClose", func(t *testing.T) {
		engine := new()

		transaction, err := engine.Transaction()
		require.NoErrorf(t, err, "failed to create transaction")

		transaction.Discard()
		transaction.Discard() // multiple calls to discard should be safe
		err = transaction.Commit()
		require.Errorf(t, err, "expected to get error when committing discarded transaction")

		snapshot, err := engine.Snapshot()
		require.NoErrorf(t, err, "failed to create snapshot")

		iterator := snapshot.NewIterator(&Range{})
		require.NoErrorf(t, iterator.Error(), "failed to create iterator")
		iterator.Release()
		iterator.Release() // multiple calls to release should be safe

		snapshot.Release()
		snapshot.Release() // multiple calls to release should be safe
		_, err = snapshot.Get([]byte("key"))
		require.Errorf(t, err, "expected to get error when getting value from released snapshot")

		err = engine.Close()
		require.NoErrorf(t, err, "failed to close engine")

		err = engine.Close()
		require.Errorf(t, err, "expected to get error when closing closed engine")

		_, err = engine.Transaction()
		require.Errorf(t, err, "expected to get error when creating transaction from closed engine")

		_, err = engine.Snapshot()
		require.Errorf(t, err, "expected to get error when creating snapshot from closed engine")
	})
}
