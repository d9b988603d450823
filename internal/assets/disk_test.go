package assets

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveAndDelete(t *testing.T) {
	store, err := NewDiskStore(t.TempDir())
	require.NoError(t, err)

	url, err := store.Save("卡通头像.PNG", strings.NewReader("img-bytes"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(url, URLPrefix))
	assert.True(t, strings.HasSuffix(url, ".png"), "扩展名统一小写: %s", url)

	onDisk := filepath.Join(store.Dir(), filepath.Base(url))
	data, err := os.ReadFile(onDisk)
	require.NoError(t, err)
	assert.Equal(t, "img-bytes", string(data))

	require.NoError(t, store.Delete(url))
	_, err = os.Stat(onDisk)
	assert.True(t, os.IsNotExist(err))
}

func TestSaveWithoutExtensionDefaultsToJpg(t *testing.T) {
	store, err := NewDiskStore(t.TempDir())
	require.NoError(t, err)

	url, err := store.Save("noext", strings.NewReader("x"))
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(url, ".jpg"))
}

func TestDeleteIgnoresUnmanagedURLs(t *testing.T) {
	store, err := NewDiskStore(t.TempDir())
	require.NoError(t, err)

	assert.NoError(t, store.Delete(""))
	assert.NoError(t, store.Delete("https://cdn.example.com/a.png"))
	assert.NoError(t, store.Delete(URLPrefix+"missing.png"))
	// 路径穿越被 Base 掉
	assert.NoError(t, store.Delete(URLPrefix+"../../etc/passwd"))
}

func TestSaveGeneratesUniqueNames(t *testing.T) {
	store, err := NewDiskStore(t.TempDir())
	require.NoError(t, err)

	a, err := store.Save("a.png", strings.NewReader("1"))
	require.NoError(t, err)
	b, err := store.Save("a.png", strings.NewReader("2"))
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}
