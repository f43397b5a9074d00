package profile

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleProfile = `
fields:
  - key: firstName
    values: ["Ada", "Augusta"]
    source_count: 3
    confidence: 90
  - key: email
    values: ["ada@example.com"]
    confidence: 100
  - key: fax
    values: []
`

func writeProfile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "profile.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoad(t *testing.T) {
	fields, err := Load(writeProfile(t, sampleProfile))
	require.NoError(t, err)
	require.Len(t, fields, 3)

	assert.Equal(t, "firstName", fields[0].Key)
	assert.Equal(t, []string{"Ada", "Augusta"}, fields[0].Values)
	assert.Equal(t, 3, fields[0].SourceCount)
	assert.Equal(t, 90, fields[0].Confidence)
	assert.Equal(t, "Ada", fields[0].PreferredValue())
	assert.Equal(t, "", fields[2].PreferredValue())
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoadMalformedYAML(t *testing.T) {
	_, err := Load(writeProfile(t, "fields: [not: closed"))
	assert.Error(t, err)
}

func TestIndex(t *testing.T) {
	fields := []Field{
		{Key: "email", Values: []string{"first@example.com"}},
		{Key: "email", Values: []string{"second@example.com"}}, // duplicate loses
		{Key: "fax", Values: nil},                              // no value, skipped
		{Key: "city", Values: []string{"London"}},
	}

	idx := Index(fields)
	assert.Equal(t, map[string]string{
		"email": "first@example.com",
		"city":  "London",
	}, idx)
}

func TestStoreRefresh(t *testing.T) {
	path := writeProfile(t, sampleProfile)
	store, err := NewStore(path)
	require.NoError(t, err)
	defer store.Close()

	require.Len(t, store.Fields(), 3)

	require.NoError(t, os.WriteFile(path, []byte("fields:\n  - key: city\n    values: [London]\n"), 0644))
	require.NoError(t, store.Refresh())
	fields := store.Fields()
	require.Len(t, fields, 1)
	assert.Equal(t, "city", fields[0].Key)
}

func TestStoreRefreshKeepsSnapshotOnFailure(t *testing.T) {
	path := writeProfile(t, sampleProfile)
	store, err := NewStore(path)
	require.NoError(t, err)
	defer store.Close()

	require.NoError(t, os.WriteFile(path, []byte("fields: [broken"), 0644))
	assert.Error(t, store.Refresh())
	assert.Len(t, store.Fields(), 3)
}

func TestStoreWatchReloads(t *testing.T) {
	path := writeProfile(t, sampleProfile)
	store, err := NewStore(path)
	require.NoError(t, err)
	defer store.Close()

	reloaded := make(chan struct{}, 1)
	require.NoError(t, store.Watch(func() {
		select {
		case reloaded <- struct{}{}:
		default:
		}
	}))

	require.NoError(t, os.WriteFile(path, []byte("fields:\n  - key: city\n    values: [London]\n"), 0644))

	select {
	case <-reloaded:
	case <-time.After(5 * time.Second): // generous for slow CI filesystems
		t.Fatal("profile reload callback never fired")
	}
	assert.Len(t, store.Fields(), 1)
}
