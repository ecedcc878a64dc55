package artifact

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
)

// ErrNotFound means the directory held no executable regular file.
var ErrNotFound = errors.New("no executable found in build output")

// Artifact is the compiled binary picked for embedding.
type Artifact struct {
	Path string
	Name string
	Mode fs.FileMode
}

// Locator picks the binary out of cargo's profile directory.
type Locator struct {
	// Pattern optionally restricts candidate names (doublestar syntax). Empty matches all.
	Pattern string
	// ReadDir lists a directory. Defaults to ReadDirUnsorted.
	ReadDir func(dir string) ([]fs.DirEntry, error)
}

// ReadDirUnsorted returns entries in the order the filesystem yields them, unlike os.ReadDir.
func ReadDirUnsorted(dir string) ([]fs.DirEntry, error) {
	f, err := os.Open(dir)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return f.ReadDir(-1)
}

// Locate returns the first entry, in iteration order, that is a regular file
// with an execute bit set. Subdirectories are not searched.
//
// If the build emits several executables the winner depends on iteration order.
func (l Locator) Locate(dir string) (Artifact, error) {
	readDir := l.ReadDir
	if readDir == nil {
		readDir = ReadDirUnsorted
	}
	if l.Pattern != "" && !doublestar.ValidatePattern(l.Pattern) {
		return Artifact{}, fmt.Errorf("invalid artifact pattern %q", l.Pattern)
	}

	entries, err := readDir(dir)
	if err != nil {
		return Artifact{}, fmt.Errorf("%w: %v", ErrNotFound, err)
	}

	for _, entry := range entries {
		if l.Pattern != "" {
			match, err := doublestar.Match(l.Pattern, entry.Name())
			if err != nil || !match {
				continue
			}
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if info.Mode().IsRegular() && info.Mode().Perm()&0o111 != 0 {
			return Artifact{Path: filepath.Join(dir, entry.Name()), Name: entry.Name(), Mode: info.Mode()}, nil
		}
	}
	return Artifact{}, fmt.Errorf("%w: %s", ErrNotFound, dir)
}

// Read returns the artifact's bytes.
func (a Artifact) Read() ([]byte, error) {
	return os.ReadFile(a.Path)
}
