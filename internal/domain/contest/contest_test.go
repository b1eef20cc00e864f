package contest

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPartition(t *testing.T) {
	p, err := NewPartition(2024, 3)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("2024", "3"), p.Path())

	for _, bad := range [][2]int{{0, 1}, {2024, 0}, {2024, 13}, {10000, 1}} {
		_, err := NewPartition(bad[0], bad[1])
		assert.ErrorIs(t, err, ErrInvalidPartition)
	}
}

func TestCleanFileName(t *testing.T) {
	name, err := CleanFileName(" ninja.jpg ")
	require.NoError(t, err)
	assert.Equal(t, "ninja.jpg", name)

	for _, bad := range []string{"", ".", "..", "../etc/passwd", `dir\file.png`, "a/b.png"} {
		_, err := CleanFileName(bad)
		assert.ErrorIs(t, err, ErrInvalidFileName, bad)
	}
}
