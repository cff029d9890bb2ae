//go:build !unix

package mkvtoolnix

import "os/exec"

// configureCommand keeps the default cancellation, which kills the tool process only.
func configureCommand(_ *exec.Cmd) {}
