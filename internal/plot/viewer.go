package plot

import (
	"context"
	"os/exec"
	"runtime"

	"github.com/Elenmith/TPLProgram/internal/errors"
)

// Wrapper for exec to allow testing
var execCommand = exec.Command

// Viewer displays a saved plot.
type Viewer interface {
	Open(ctx context.Context, path string) error
}

// SystemViewer opens files with the platform's default application.
type SystemViewer struct {
	goos string
}

// NewSystemViewer creates a viewer for the running platform.
func NewSystemViewer() *SystemViewer {
	return &SystemViewer{goos: runtime.GOOS}
}

// Open starts the viewer on path without waiting for it to exit. ctx only
// gates the launch; the viewer is not tied to it and keeps running after
// the run ends.
func (v *SystemViewer) Open(ctx context.Context, path string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	name, args := viewerCommand(v.goos, path)
	cmd := execCommand(name, args...)
	if err := cmd.Start(); err != nil {
		return errors.NewPlotError("cannot launch "+name, errors.Join(errors.ErrViewerFailed, err)).WithPath(path)
	}
	// The viewer outlives us; reap it in the background.
	go func() { _ = cmd.Wait() }()
	return nil
}

// viewerCommand returns the program and arguments that open path on goos.
func viewerCommand(goos, path string) (string, []string) {
	switch goos {
	case "windows":
		return "rundll32", []string{"url.dll,FileProtocolHandler", path}
	case "darwin":
		return "open", []string{path}
	default:
		return "xdg-open", []string{path}
	}
}
