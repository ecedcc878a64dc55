package manifest

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sample = `name: hello
region: eu-west-3
language: rust
cloudProvider: genezio
`

func TestPublishCreatesStagingAndCopies(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, DefaultFile), []byte(sample), 0o644))
	staging := filepath.Join(root, "target", "genezio", "out")

	dst, err := Publish(root, staging, "")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(staging, DefaultFile), dst)

	got, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, sample, string(got))
}

func TestPublishOverwritesPreviousCopy(t *testing.T) {
	root := t.TempDir()
	staging := filepath.Join(root, "out")
	require.NoError(t, os.MkdirAll(staging, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(staging, DefaultFile), []byte("stale: true\nlonger: than the new file\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, DefaultFile), []byte(sample), 0o644))

	dst, err := Publish(root, staging, DefaultFile)
	require.NoError(t, err)
	got, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, sample, string(got))
}

func TestPublishMissingManifest(t *testing.T) {
	root := t.TempDir()
	staging := filepath.Join(root, "out")

	_, err := Publish(root, staging, "")
	assert.ErrorIs(t, err, ErrManifestNotFound)
	assert.DirExists(t, staging, "staging dir is created before the manifest check")
}

func TestPublishDirectoryNamedLikeManifest(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(root, DefaultFile), 0o755))

	_, err := Publish(root, filepath.Join(root, "out"), "")
	assert.ErrorIs(t, err, ErrManifestNotFound)
}

func TestDescribe(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultFile)
	require.NoError(t, os.WriteFile(path, []byte(sample+"extra: ignored\n"), 0o644))

	m, err := Describe(path)
	require.NoError(t, err)
	assert.Equal(t, Manifest{Name: "hello", Region: "eu-west-3", Language: "rust", CloudProvider: "genezio"}, m)

	require.NoError(t, os.WriteFile(path, []byte("name: [unterminated"), 0o644))
	_, err = Describe(path)
	assert.Error(t, err)
}
