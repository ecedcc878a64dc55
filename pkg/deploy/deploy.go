package deploy

import (
	"errors"
	"fmt"

	"genezio-rs/go/pkg/logbowl"
	"genezio-rs/go/pkg/toolchain"
)

// ErrDeployFailed covers spawn failures and nonzero exits of the genezio CLI.
var ErrDeployFailed = errors.New("failed to deploy to genezio")

// Invoker hands the staging directory to the genezio CLI.
type Invoker struct {
	Runner  toolchain.Runner
	Genezio string
	Log     logbowl.Logger
}

// Invoke runs `genezio deploy` inside stagingDir and waits. It is attempted exactly once.
func (i Invoker) Invoke(stagingDir string) error {
	i.Log.Info("deploy", "deploy", "progress", "Deploying to genezio...", "dir", stagingDir)
	err := i.Runner.Run(toolchain.Invocation{
		Name: i.Genezio,
		Args: []string{"deploy"},
		Dir:  stagingDir,
	})
	if err != nil {
		i.Log.Debug("deploy", "deploy", "error", "genezio deploy failed", "error", err)
		return fmt.Errorf("%w: %v", ErrDeployFailed, err)
	}
	i.Log.Info("deploy", "deploy", "success", "Deployed")
	return nil
}
