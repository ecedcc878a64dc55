package metadata

import (
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"

	"genezio-rs/go/pkg/toolchain"
)

// ErrMetadataUnavailable covers every way `cargo metadata` can fail to yield a workspace.
var ErrMetadataUnavailable = errors.New("failed to get cargo metadata")

// StagingSubdir is where the deployable output lives below the target directory.
var StagingSubdir = filepath.Join("genezio", "out")

// Workspace is the subset of `cargo metadata` the build needs.
type Workspace struct {
	WorkspaceRoot   string `json:"workspace_root"`
	TargetDirectory string `json:"target_directory"`
}

// StagingDir holds the manifest copy and the generated launcher.
func (w Workspace) StagingDir() string {
	return filepath.Join(w.TargetDirectory, StagingSubdir)
}

// Resolver queries cargo for the workspace layout.
type Resolver struct {
	Runner toolchain.Runner
	Cargo  string
}

// Resolve runs `cargo metadata` once and decodes its JSON output.
func (r Resolver) Resolve() (Workspace, error) {
	out, err := r.Runner.Output(toolchain.Invocation{
		Name:  r.Cargo,
		Args:  []string{"metadata", "--format-version", "1", "--no-deps"},
		Quiet: true,
	})
	if err != nil {
		return Workspace{}, fmt.Errorf("%w: %v", ErrMetadataUnavailable, err)
	}
	return Parse(out)
}

// Parse decodes a `cargo metadata` document. Unknown fields are ignored.
func Parse(data []byte) (Workspace, error) {
	var ws Workspace
	if err := json.Unmarshal(data, &ws); err != nil {
		return Workspace{}, fmt.Errorf("%w: %v", ErrMetadataUnavailable, err)
	}
	if ws.WorkspaceRoot == "" {
		return Workspace{}, fmt.Errorf("%w: workspace_root missing", ErrMetadataUnavailable)
	}
	if ws.TargetDirectory == "" {
		return Workspace{}, fmt.Errorf("%w: target_directory missing", ErrMetadataUnavailable)
	}
	return ws, nil
}
