package db

import (
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadMigrations(t *testing.T) {
	fsys := fstest.MapFS{
		"migrations/010_add_index.sql":          {Data: []byte("CREATE INDEX x ON t (a);")},
		"migrations/002_conversation_turns.sql": {Data: []byte("CREATE TABLE t (a INT);")},
		"migrations/README.md":                  {Data: []byte("notes")},
		"migrations/draft.sql":                  {Data: []byte("SELECT 1;")},
	}

	got, err := ReadMigrations(fsys)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, Migration{Number: 2, Name: "conversation_turns", SQL: "CREATE TABLE t (a INT);"}, got[0])
	assert.Equal(t, 10, got[1].Number)
	assert.Equal(t, "add_index", got[1].Name)
}

func TestEmbeddedMigrations(t *testing.T) {
	got, err := ReadMigrations(Migrations)
	require.NoError(t, err)
	require.NotEmpty(t, got)
	assert.Equal(t, 1, got[0].Number)
	assert.Contains(t, got[0].SQL, "conversation_turns")
}
