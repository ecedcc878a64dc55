// Package pipeline wires the build steps together:
// metadata, manifest, compile, locate, embed.
package pipeline

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"genezio-rs/go/pkg/artifact"
	"genezio-rs/go/pkg/crossbuild"
	"genezio-rs/go/pkg/launcher"
	"genezio-rs/go/pkg/logbowl"
	"genezio-rs/go/pkg/manifest"
	"genezio-rs/go/pkg/metadata"
)

// Stage is the last step a build completed.
type Stage int

const (
	StageIdle Stage = iota
	StageMetadataResolved
	StageManifestPublished
	StageCompiled
	StageArtifactLocated
	StageEmbedded
	StageDone
)

func (s Stage) String() string {
	switch s {
	case StageIdle:
		return "idle"
	case StageMetadataResolved:
		return "metadata-resolved"
	case StageManifestPublished:
		return "manifest-published"
	case StageCompiled:
		return "compiled"
	case StageArtifactLocated:
		return "artifact-located"
	case StageEmbedded:
		return "embedded"
	case StageDone:
		return "done"
	}
	return fmt.Sprintf("stage(%d)", int(s))
}

// MetadataSource yields the cargo workspace layout.
type MetadataSource interface {
	Resolve() (metadata.Workspace, error)
}

// Compiler builds the crate for a profile.
type Compiler interface {
	Build(p crossbuild.Profile) error
	OutputDir(targetDir string, p crossbuild.Profile) string
}

// Deployer ships a staging directory.
type Deployer interface {
	Invoke(stagingDir string) error
}

// Pipeline runs one build (and optionally a deploy) per call.
type Pipeline struct {
	Metadata       MetadataSource
	Compiler       Compiler
	Locator        artifact.Locator
	Deployer       Deployer
	ManifestFile   string
	EntrypointFile string
	Log            logbowl.Logger
}

// Result records how far a run got and what it wrote.
type Result struct {
	RunID      string
	Stage      Stage
	Workspace  metadata.Workspace
	StagingDir string
	Manifest   string
	Artifact   artifact.Artifact
	Script     string
}

// Build runs the steps in order and stops at the first error, which is
// returned as produced by the failing component. Files already written stay.
func (p Pipeline) Build(profile crossbuild.Profile) (Result, error) {
	res := Result{RunID: uuid.NewString(), Stage: StageIdle}
	log := p.Log.With("run", res.RunID)
	log.Info("builder", "start", "progress", "Starting build", "profile", profile.Name(), "clean", profile.Clean)

	ws, err := p.Metadata.Resolve()
	if err != nil {
		return res, p.fail(log, res, err)
	}
	res.Workspace = ws
	res.StagingDir = ws.StagingDir()
	res.Stage = StageMetadataResolved
	log.Debug("metadata", "resolve", "success", "Resolved cargo workspace", "root", ws.WorkspaceRoot, "target", ws.TargetDirectory)

	res.Manifest, err = manifest.Publish(ws.WorkspaceRoot, res.StagingDir, p.ManifestFile)
	if err != nil {
		return res, p.fail(log, res, err)
	}
	res.Stage = StageManifestPublished
	if m, err := manifest.Describe(res.Manifest); err == nil {
		log.Info("manifest", "copy", "success", "Published manifest", "name", m.Name, "region", m.Region)
	} else {
		log.Warn("manifest", "parse", "warning", "Manifest copied but could not be parsed", "error", err)
	}

	if err := p.Compiler.Build(profile); err != nil {
		return res, p.fail(log, res, err)
	}
	res.Stage = StageCompiled

	// cargo clean removes the whole target dir, staging copy included.
	if _, err := os.Stat(res.Manifest); errors.Is(err, fs.ErrNotExist) {
		log.Debug("manifest", "copy", "progress", "Staging copy removed by clean, publishing again")
		if res.Manifest, err = manifest.Publish(ws.WorkspaceRoot, res.StagingDir, p.ManifestFile); err != nil {
			return res, p.fail(log, res, err)
		}
	}

	outDir := p.Compiler.OutputDir(ws.TargetDirectory, profile)
	res.Artifact, err = p.Locator.Locate(outDir)
	if err != nil {
		return res, p.fail(log, res, err)
	}
	res.Stage = StageArtifactLocated
	log.Info("artifact", "locate", "success", "Found executable", "path", res.Artifact.Path)

	data, err := res.Artifact.Read()
	if err != nil {
		return res, p.fail(log, res, fmt.Errorf("failed to render build output: %w", err))
	}
	entrypoint := p.EntrypointFile
	if entrypoint == "" {
		entrypoint = launcher.DefaultEntrypointFile
	}
	res.Script = filepath.Join(res.StagingDir, entrypoint)
	if err := os.MkdirAll(res.StagingDir, 0755); err != nil {
		return res, p.fail(log, res, fmt.Errorf("failed to render build output: %w", err))
	}
	if err := os.WriteFile(res.Script, []byte(launcher.Embed(data)), 0644); err != nil {
		return res, p.fail(log, res, fmt.Errorf("failed to render build output: %w", err))
	}
	res.Stage = StageEmbedded
	log.Info("launcher", "embed", "success", "Wrote launcher script", "path", res.Script, "payload_bytes", len(data))

	res.Stage = StageDone
	log.Info("builder", "finish", "success", "Build finished", "staging_dir", res.StagingDir)
	return res, nil
}

// Deploy builds and then hands the staging directory to the Deployer.
func (p Pipeline) Deploy(profile crossbuild.Profile) (Result, error) {
	res, err := p.Build(profile)
	if err != nil {
		return res, err
	}
	if err := p.Deployer.Invoke(res.StagingDir); err != nil {
		return res, err
	}
	p.Log.Info("deploy", "finish", "success", "Deploy finished", "run", res.RunID)
	return res, nil
}

func (p Pipeline) fail(log logbowl.Logger, res Result, err error) error {
	log.Debug("builder", "finish", "failure", "Build failed", "after", res.Stage.String(), "error", err)
	return err
}
