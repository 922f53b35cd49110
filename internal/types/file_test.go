package types

import (
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"os"
	"path/filepath"
	"testing"
)

func TestStatLocalFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "db.sql")
	require.NoError(t, os.WriteFile(path, []byte("select 1;"), 0600))

	f, err := StatLocalFile(path)
	require.NoError(t, err)
	assert.Equal(t, "db.sql", f.Name)
	assert.Equal(t, int64(9), f.Size)

	_, err = StatLocalFile(filepath.Join(dir, "missing.sql"))
	assert.ErrorIs(t, err, ErrFileNotFound)

	_, err = StatLocalFile(dir)
	assert.ErrorIs(t, err, ErrNotRegularFile)
}
