package contest

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/icemaltacode/sc-bed-ninjacoders-m3u1/internal/application"
	"github.com/icemaltacode/sc-bed-ninjacoders-m3u1/internal/infrastructure/filestore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stage(t *testing.T, store *filestore.Store, content string) string {
	t.Helper()
	f, err := store.CreateTemp()
	require.NoError(t, err)
	_, err = f.WriteString(content)
	require.NoError(t, err)
	require.NoError(t, f.Close())
	return f.Name()
}

func TestStorePhotoCreatesPartition(t *testing.T) {
	root := filepath.Join(t.TempDir(), "contest-uploads")
	store := filestore.New(root)
	uc := NewStorePhotoUseCase(store, nil, nil)
	tmp := stage(t, store, "jpeg bytes")

	res, err := uc.Execute(context.Background(), StorePhotoInput{
		Year: "2024", Month: "3", TempPath: tmp, OriginalName: "sunset.jpg",
	})
	require.NoError(t, err)

	want := filepath.Join(root, "2024", "3", "sunset.jpg")
	assert.Equal(t, want, res.Path)
	data, err := os.ReadFile(want)
	require.NoError(t, err)
	assert.Equal(t, "jpeg bytes", string(data))

	_, err = os.Stat(tmp)
	assert.True(t, os.IsNotExist(err), "temp file must not remain")
}

func TestStorePhotoValidation(t *testing.T) {
	store := filestore.New(t.TempDir())
	uc := NewStorePhotoUseCase(store, nil, nil)

	tests := []struct {
		name string
		in   StorePhotoInput
	}{
		{"non numeric year", StorePhotoInput{Year: "twenty", Month: "3", TempPath: "x", OriginalName: "a.jpg"}},
		{"month out of range", StorePhotoInput{Year: "2024", Month: "13", TempPath: "x", OriginalName: "a.jpg"}},
		{"traversal", StorePhotoInput{Year: "2024", Month: "3", TempPath: "x", OriginalName: "../a.jpg"}},
		{"missing file", StorePhotoInput{Year: "2024", Month: "3", OriginalName: "a.jpg"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := uc.Execute(context.Background(), tt.in)
			assert.ErrorIs(t, err, application.ErrValidation)
		})
	}
}

func TestStorePhotoReportsIOError(t *testing.T) {
	store := filestore.New(t.TempDir())
	uc := NewStorePhotoUseCase(store, nil, nil)

	_, err := uc.Execute(context.Background(), StorePhotoInput{
		Year: "2024", Month: "3", TempPath: filepath.Join(t.TempDir(), "gone"), OriginalName: "a.jpg",
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, application.ErrIO)
	assert.ErrorIs(t, err, os.ErrNotExist)
	assert.Contains(t, err.Error(), "gone")
}
