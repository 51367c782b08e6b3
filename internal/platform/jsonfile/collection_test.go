package jsonfile

import (
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type record struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func TestLoadMissingFile(t *testing.T) {
	c := New[record](filepath.Join(t.TempDir(), "missing.json"))

	records, err := c.Load()
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestLoadEmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.json")
	require.NoError(t, os.WriteFile(path, nil, 0o644))

	c := New[record](path)
	records, err := c.Load()
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestLoadCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	c := New[record](path)
	_, err := c.Load()
	require.Error(t, err)
}

func TestMutatePersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "records.json")
	c := New[record](path)

	err := c.Mutate(func(records []record) ([]record, error) {
		return append(records, record{ID: "1", Name: "first"}), nil
	})
	require.NoError(t, err)

	// A fresh collection over the same file sees the write.
	records, err := New[record](path).Load()
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "first", records[0].Name)
}

func TestMutateErrorWritesNothing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "records.json")
	c := New[record](path)

	require.NoError(t, c.Mutate(func(records []record) ([]record, error) {
		return append(records, record{ID: "1", Name: "kept"}), nil
	}))

	boom := errors.New("boom")
	err := c.Mutate(func(records []record) ([]record, error) {
		return nil, boom
	})
	require.ErrorIs(t, err, boom)

	records, err := c.Load()
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "kept", records[0].Name)
}

func TestMutateConcurrent(t *testing.T) {
	c := New[record](filepath.Join(t.TempDir(), "records.json"))

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = c.Mutate(func(records []record) ([]record, error) {
				return append(records, record{ID: NextSeq(records, func(r record) string { return r.ID })}), nil
			})
		}()
	}
	wg.Wait()

	records, err := c.Load()
	require.NoError(t, err)
	assert.Len(t, records, 20)

	seen := map[string]bool{}
	for _, r := range records {
		assert.False(t, seen[r.ID], "duplicate id %s", r.ID)
		seen[r.ID] = true
	}
}

func TestNextSeq(t *testing.T) {
	records := []record{{ID: "1"}, {ID: "7"}, {ID: "3"}}
	assert.Equal(t, "8", NextSeq(records, func(r record) string { return r.ID }))
}

func TestNextSeqEmpty(t *testing.T) {
	assert.Equal(t, "1", NextSeq(nil, func(r record) string { return r.ID }))
}

func TestNextSeqIgnoresNonNumeric(t *testing.T) {
	records := []record{{ID: "abc"}, {ID: "2"}}
	assert.Equal(t, "3", NextSeq(records, func(r record) string { return r.ID }))
}
