// Package config loads cargo-genezio settings from the environment.
//
// An optional .env file in the working directory is read first; variables
// already present in the process environment win over it.
package config

import (
	"context"
	"errors"
	"io/fs"

	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"

	"genezio-rs/go/pkg/toolchain"
)

// Config holds the tool names, build parameters and file names the core uses.
type Config struct {
	CargoBin   string `env:"GENEZIO_CARGO_BIN,default=cargo"`
	RustupBin  string `env:"GENEZIO_RUSTUP_BIN,default=rustup"`
	GenezioBin string `env:"GENEZIO_BIN,default=genezio"`

	TargetTriple string   `env:"GENEZIO_TARGET,default=aarch64-unknown-linux-musl"`
	Linker       string   `env:"GENEZIO_LINKER,default=aarch64-linux-gnu-gcc"`
	CodegenFlags []string `env:"GENEZIO_CODEGEN_FLAGS,default=target-feature=+crt-static,link-arg=-lgcc"`
	LambdaCfg    string   `env:"GENEZIO_CFG,default=genezio_with_lambda"`

	ManifestFile    string `env:"GENEZIO_MANIFEST,default=genezio.yaml"`
	EntrypointFile  string `env:"GENEZIO_ENTRYPOINT,default=index.js"`
	ArtifactPattern string `env:"GENEZIO_ARTIFACT_PATTERN"`
}

// Params converts the build section into the orchestrator's parameter set.
func (c Config) Params() toolchain.Params {
	return toolchain.Params{
		TargetTriple: c.TargetTriple,
		Linker:       c.Linker,
		CodegenFlags: append([]string(nil), c.CodegenFlags...),
		Cfg:          c.LambdaCfg,
	}
}

// Load reads dotenvPath (if it exists) and then the process environment.
func Load(ctx context.Context, dotenvPath string) (Config, error) {
	if dotenvPath != "" {
		if err := godotenv.Load(dotenvPath); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, err
		}
	}
	return LoadFrom(ctx, envconfig.OsLookuper())
}

// LoadFrom fills a Config from an arbitrary lookuper.
func LoadFrom(ctx context.Context, lookuper envconfig.Lookuper) (Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   &cfg,
		Lookuper: lookuper,
	}); err != nil {
		return Config{}, err
	}
	if err := cfg.Params().Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
