package manifest

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// DefaultFile is the deployment descriptor genezio expects.
const DefaultFile = "genezio.yaml"

// ErrManifestNotFound means the workspace has no manifest to publish.
var ErrManifestNotFound = errors.New("genezio.yaml not found in workspace root")

// Manifest is the part of genezio.yaml worth logging. The file itself is copied verbatim.
type Manifest struct {
	Name          string `yaml:"name"`
	Region        string `yaml:"region"`
	Language      string `yaml:"language"`
	CloudProvider string `yaml:"cloudProvider"`
}

// Publish creates stagingDir if needed and copies workspaceRoot/fileName into it.
func Publish(workspaceRoot, stagingDir, fileName string) (string, error) {
	if fileName == "" {
		fileName = DefaultFile
	}
	if err := os.MkdirAll(stagingDir, 0755); err != nil {
		return "", fmt.Errorf("create staging dir: %w", err)
	}

	src := filepath.Join(workspaceRoot, fileName)
	info, err := os.Stat(src)
	if err != nil || !info.Mode().IsRegular() {
		return "", fmt.Errorf("%w: %s", ErrManifestNotFound, src)
	}

	dst := filepath.Join(stagingDir, fileName)
	if err := copyFile(src, dst); err != nil {
		return "", fmt.Errorf("copy %s: %w", src, err)
	}
	return dst, nil
}

// Describe parses the manifest for display.
func Describe(path string) (Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Manifest{}, err
	}
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return Manifest{}, err
	}
	return m, nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()
	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
