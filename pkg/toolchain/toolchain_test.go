package toolchain

import (
	"bytes"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultParamsConfigValues(t *testing.T) {
	p := DefaultParams()
	require.NoError(t, p.Validate())

	assert.Equal(t, "target.aarch64-unknown-linux-musl.linker='aarch64-linux-gnu-gcc'", p.LinkerConfig())
	assert.Equal(t,
		`target.aarch64-unknown-linux-musl.rustflags=[ "-C", "target-feature=+crt-static", "-C", "link-arg=-lgcc", "--cfg", "genezio_with_lambda" ]`,
		p.RustFlagsConfig())
}

func TestDefaultParamsAreIndependentCopies(t *testing.T) {
	a := DefaultParams()
	a.CodegenFlags[0] = "mutated"
	assert.Equal(t, "target-feature=+crt-static", DefaultParams().CodegenFlags[0])
}

func TestParamsValidate(t *testing.T) {
	assert.Error(t, Params{Linker: "cc"}.Validate())
	assert.Error(t, Params{TargetTriple: "x86_64-unknown-linux-gnu"}.Validate())
}

func TestRustFlagsWithoutCfg(t *testing.T) {
	p := Params{TargetTriple: "t", Linker: "l", CodegenFlags: []string{"opt-level=3"}}
	assert.Equal(t, []string{"-C", "opt-level=3"}, p.RustFlags())
}

func TestInvocationString(t *testing.T) {
	assert.Equal(t, "cargo", Invocation{Name: "cargo"}.String())
	assert.Equal(t, "rustup target list --installed", Invocation{Name: "rustup", Args: []string{"target", "list", "--installed"}}.String())
}

func TestExecRunner(t *testing.T) {
	sh, err := exec.LookPath("sh")
	if err != nil {
		t.Skip("sh not available")
	}

	var stdout, stderr bytes.Buffer
	r := &ExecRunner{Stdout: &stdout, Stderr: &stderr}

	t.Run("run streams output", func(t *testing.T) {
		require.NoError(t, r.Run(Invocation{Name: sh, Args: []string{"-c", "echo hello"}}))
		assert.Equal(t, "hello\n", stdout.String())
	})

	t.Run("quiet discards output", func(t *testing.T) {
		stdout.Reset()
		require.NoError(t, r.Run(Invocation{Name: sh, Args: []string{"-c", "echo hidden"}, Quiet: true}))
		assert.Empty(t, stdout.String())
	})

	t.Run("nonzero exit is an error", func(t *testing.T) {
		assert.Error(t, r.Run(Invocation{Name: sh, Args: []string{"-c", "exit 3"}}))
	})

	t.Run("missing binary is an error", func(t *testing.T) {
		assert.Error(t, r.Run(Invocation{Name: filepath.Join(t.TempDir(), "nope")}))
	})

	t.Run("output captures stdout in dir", func(t *testing.T) {
		dir := t.TempDir()
		out, err := r.Output(Invocation{Name: sh, Args: []string{"-c", "pwd -P"}, Dir: dir})
		require.NoError(t, err)
		resolved, err := filepath.EvalSymlinks(dir)
		require.NoError(t, err)
		assert.Equal(t, resolved+"\n", string(out))
	})

	t.Run("output failure carries stderr", func(t *testing.T) {
		stderr.Reset()
		_, err := r.Output(Invocation{Name: sh, Args: []string{"-c", "echo 'could not find Cargo.toml' >&2; exit 101"}, Quiet: true})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "exit status 101")
		assert.Contains(t, err.Error(), "could not find Cargo.toml")
		assert.Empty(t, stderr.String())
	})

	t.Run("output tees stderr when not quiet", func(t *testing.T) {
		stderr.Reset()
		_, err := r.Output(Invocation{Name: sh, Args: []string{"-c", "echo warned >&2; exit 2"}})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "warned")
		assert.Equal(t, "warned\n", stderr.String())
	})
}
