// Package bundle packs a staging directory into a single tar.zst file so it
// can be deployed from another machine. Every bundle carries an index of
// sha256 digests that Extract checks before reporting success.
package bundle

import (
	"archive/tar"
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/valyala/gozstd"

	"genezio-rs/go/pkg/logbowl"
)

// IndexFile is the archive entry holding the Index. It is always written last.
const IndexFile = ".genezio-bundle.json"

// ErrDigestMismatch means an extracted file does not match the bundle index.
var ErrDigestMismatch = errors.New("bundle digest mismatch")

// Index records which build produced a bundle and the digest of every file in it.
type Index struct {
	RunID      string            `json:"run_id,omitempty"`
	Entrypoint string            `json:"entrypoint,omitempty"`
	Files      map[string]string `json:"files"`
}

// Options controls what Create packs.
type Options struct {
	RunID      string
	Entrypoint string
	Exclude    []string
	Log        logbowl.Logger
}

func (o Options) excluded(rel string) (string, bool) {
	for _, pattern := range o.Exclude {
		if match, _ := doublestar.Match(pattern, rel); match {
			return pattern, true
		}
	}
	return "", false
}

// Create archives the regular files below stagingDir, minus excluded ones,
// followed by their Index. Entries carry no timestamps, so equal input gives equal bytes.
func Create(stagingDir string, opts Options) ([]byte, Index, error) {
	for _, pattern := range opts.Exclude {
		if !doublestar.ValidatePattern(pattern) {
			return nil, Index{}, fmt.Errorf("invalid exclude pattern %q", pattern)
		}
	}
	if opts.Log.Logger == nil {
		opts.Log = logbowl.Discard()
	}

	idx := Index{RunID: opts.RunID, Entrypoint: opts.Entrypoint, Files: map[string]string{}}
	var buf bytes.Buffer
	zw := gozstd.NewWriter(&buf)
	tw := tar.NewWriter(zw)

	fsys := os.DirFS(stagingDir)
	err := doublestar.GlobWalk(fsys, "**", func(rel string, d fs.DirEntry) error {
		if d.IsDir() || rel == IndexFile {
			return nil
		}
		if pattern, ok := opts.excluded(rel); ok {
			opts.Log.Debug("archive", "pack", "skip", "Excluded from bundle", "path", rel, "pattern", pattern)
			return nil
		}
		if !d.Type().IsRegular() {
			opts.Log.Debug("archive", "pack", "skip", "Skipping non-regular file", "path", rel)
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		data, err := fs.ReadFile(fsys, rel)
		if err != nil {
			return err
		}
		sum := sha256.Sum256(data)
		idx.Files[rel] = hex.EncodeToString(sum[:])
		return writeEntry(tw, rel, int64(info.Mode().Perm()), data)
	})
	if err != nil {
		return nil, Index{}, fmt.Errorf("pack %s: %w", stagingDir, err)
	}
	if opts.Entrypoint != "" {
		if _, ok := idx.Files[opts.Entrypoint]; !ok {
			return nil, Index{}, fmt.Errorf("launcher script %s missing from bundle", opts.Entrypoint)
		}
	}

	indexData, err := json.MarshalIndent(idx, "", "  ")
	if err != nil {
		return nil, Index{}, err
	}
	if err := writeEntry(tw, IndexFile, 0644, indexData); err != nil {
		return nil, Index{}, err
	}
	if err := tw.Close(); err != nil {
		return nil, Index{}, err
	}
	if err := zw.Close(); err != nil {
		return nil, Index{}, err
	}
	opts.Log.Debug("archive", "pack", "success", "Packed staging directory", "files", len(idx.Files))
	return buf.Bytes(), idx, nil
}

func writeEntry(tw *tar.Writer, name string, mode int64, data []byte) error {
	hdr := &tar.Header{Name: name, Mode: mode, Size: int64(len(data)), Typeflag: tar.TypeReg}
	if err := tw.WriteHeader(hdr); err != nil {
		return err
	}
	_, err := tw.Write(data)
	return err
}

// Extract unpacks a bundle into dest, checks every file against the index and
// returns the extracted paths in sorted order. The index itself is not written.
func Extract(r io.Reader, dest string) ([]string, Index, error) {
	zr := gozstd.NewReader(r)
	defer zr.Release()
	tr := tar.NewReader(zr)

	cleanDest := filepath.Clean(dest)
	digests := map[string]string{}
	var idx *Index
	for {
		header, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, Index{}, err
		}
		target := filepath.Join(cleanDest, header.Name)
		if target != cleanDest && !strings.HasPrefix(target, cleanDest+string(os.PathSeparator)) {
			return nil, Index{}, fmt.Errorf("archive entry %q escapes destination", header.Name)
		}
		if header.Typeflag != tar.TypeReg {
			continue
		}

		if header.Name == IndexFile {
			idx = &Index{}
			if err := json.NewDecoder(tr).Decode(idx); err != nil {
				return nil, Index{}, fmt.Errorf("read bundle index: %w", err)
			}
			continue
		}
		sum, err := extractFile(tr, target, os.FileMode(header.Mode).Perm())
		if err != nil {
			return nil, Index{}, err
		}
		digests[header.Name] = sum
	}

	if idx == nil {
		return nil, Index{}, fmt.Errorf("%s missing from bundle", IndexFile)
	}
	if len(idx.Files) != len(digests) {
		return nil, Index{}, fmt.Errorf("%w: index lists %d files, bundle holds %d", ErrDigestMismatch, len(idx.Files), len(digests))
	}
	files := make([]string, 0, len(digests))
	for name, sum := range digests {
		if idx.Files[name] != sum {
			return nil, Index{}, fmt.Errorf("%w: %s", ErrDigestMismatch, name)
		}
		files = append(files, name)
	}
	sort.Strings(files)
	return files, *idx, nil
}

func extractFile(r io.Reader, target string, perm os.FileMode) (string, error) {
	if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
		return "", err
	}
	f, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, perm)
	if err != nil {
		return "", err
	}
	h := sha256.New()
	if _, err := io.Copy(io.MultiWriter(f, h), r); err != nil {
		f.Close()
		return "", err
	}
	if err := f.Close(); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
