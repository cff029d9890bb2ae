// Package mkvtoolnix drives the mkvextract and mkvpropedit command-line tools to move
// chapter XML in and out of Matroska containers.
package mkvtoolnix

import (
	"bytes"
	"context"
	"errors"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/listenupapp/mkvchapters/internal/chapters"
	"github.com/listenupapp/mkvchapters/internal/config"
	domainerrors "github.com/listenupapp/mkvchapters/internal/errors"
	"github.com/listenupapp/mkvchapters/internal/id"
)

// Toolchain runs the configured extraction and editing tools.
// It holds no per-call state and may be shared.
type Toolchain struct {
	cfg    config.ToolsConfig
	runner Runner
	logger *slog.Logger
}

// New creates a toolchain. A nil runner means ExecRunner.
func New(cfg config.ToolsConfig, runner Runner, logger *slog.Logger) *Toolchain {
	if runner == nil {
		runner = ExecRunner{}
	}
	return &Toolchain{
		cfg:    cfg,
		runner: runner,
		logger: logger,
	}
}

// Resolve returns the path of the named tool. The tools directory is searched first,
// then $PATH when enabled. A missing tool is a BINARY_NOT_FOUND error.
func (t *Toolchain) Resolve(name string) (string, error) {
	exe := name
	if runtime.GOOS == "windows" && filepath.Ext(exe) == "" {
		exe += ".exe"
	}

	if filepath.IsAbs(exe) {
		if isExecutable(exe) {
			return exe, nil
		}
		return "", domainerrors.BinaryNotFound(name, filepath.Dir(exe))
	}

	var searched []string
	if t.cfg.Dir != "" {
		candidate := filepath.Join(t.cfg.Dir, exe)
		if isExecutable(candidate) {
			return candidate, nil
		}
		searched = append(searched, t.cfg.Dir)
	}

	if t.cfg.UsePath {
		if path, err := exec.LookPath(exe); err == nil {
			return path, nil
		}
		searched = append(searched, "$PATH")
	}

	return "", domainerrors.BinaryNotFound(name, strings.Join(searched, " or "))
}

// ExtractChapters pulls the chapter XML out of container and parses it.
func (t *Toolchain) ExtractChapters(ctx context.Context, container string) (*chapters.Document, error) {
	data, err := t.ExtractXML(ctx, container)
	if err != nil {
		return nil, err
	}
	doc, err := chapters.Parse(data)
	if err != nil {
		return nil, domainerrors.Wrapf(err, domainerrors.CodeMalformedInput, "chapters of %s", container)
	}
	return doc, nil
}

// ExtractXML runs `<extractor> <container> chapters <output>` and returns the raw output.
//
// A non-zero exit is EXTRACTION_FAILED with reason tool_failed. A missing or empty output
// file is EXTRACTION_FAILED with reason no_chapters.
func (t *Toolchain) ExtractXML(ctx context.Context, container string) ([]byte, error) {
	bin, err := t.Resolve(t.cfg.Extractor)
	if err != nil {
		return nil, err
	}

	out, err := t.tempPath("chapters")
	if err != nil {
		return nil, err
	}
	defer t.remove(out)

	if err := t.run(ctx, bin, container, "chapters", out); err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			return nil, domainerrors.ToolFailed(container, err)
		}
		return nil, err
	}

	info, err := os.Stat(out)
	if errors.Is(err, fs.ErrNotExist) || (err == nil && info.Size() == 0) {
		return nil, domainerrors.NoChapters(container)
	}
	if err != nil {
		return nil, domainerrors.Wrap(err, domainerrors.CodeInternal, "stat extracted chapters")
	}

	data, err := os.ReadFile(out) //#nosec G304 -- path generated above
	if err != nil {
		return nil, domainerrors.Wrap(err, domainerrors.CodeInternal, "read extracted chapters")
	}
	return data, nil
}

// CommitChapters serializes doc and writes it into container with
// `<editor> <container> --chapters <xml>`. A non-zero exit is COMMIT_FAILED.
func (t *Toolchain) CommitChapters(ctx context.Context, container string, doc *chapters.Document) error {
	data, err := doc.Marshal()
	if err != nil {
		return err
	}

	bin, err := t.Resolve(t.cfg.Editor)
	if err != nil {
		return err
	}

	path, err := t.tempPath("commit")
	if err != nil {
		return err
	}
	if err := writeExclusive(path, bytes.NewReader(data)); err != nil {
		return domainerrors.Wrap(err, domainerrors.CodeInternal, "write chapter file")
	}
	defer t.remove(path)

	if err := t.run(ctx, bin, container, "--chapters", path); err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			return domainerrors.CommitFailed(container, err)
		}
		return err
	}
	return nil
}

// run invokes one tool, applying the configured timeout.
func (t *Toolchain) run(ctx context.Context, bin string, args ...string) error {
	if t.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, t.cfg.Timeout)
		defer cancel()
	}

	log := t.logger.With(slog.String("tool", filepath.Base(bin)))
	log.Debug("running tool", slog.String("path", bin), slog.Any("args", args))

	start := time.Now()
	err := t.runner.Run(ctx, bin, args...)
	if err != nil {
		log.Warn("tool failed", slog.Duration("elapsed", time.Since(start)), slog.String("error", err.Error()))
		return err
	}

	log.Debug("tool finished", slog.Duration("elapsed", time.Since(start)))
	return nil
}

// tempPath returns a fresh, not yet existing path for an exchange file.
func (t *Toolchain) tempPath(prefix string) (string, error) {
	name, err := id.FileName(prefix, ".xml")
	if err != nil {
		return "", domainerrors.Wrap(err, domainerrors.CodeInternal, "name temp file")
	}
	dir := t.cfg.TempDir
	if dir == "" {
		dir = os.TempDir()
	}
	return filepath.Join(dir, name), nil
}

func (t *Toolchain) remove(path string) {
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		t.logger.Warn("failed to remove temp file", slog.String("path", path), slog.String("error", err.Error()))
	}
}

// writeExclusive creates path, which must not exist, and fills it from src.
// On failure the file is removed again.
func writeExclusive(path string, src io.Reader) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600) //#nosec G304 -- generated temp path
	if err != nil {
		return err
	}
	_, err = io.Copy(f, src)
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		_ = os.Remove(path)
		return err
	}
	return nil
}

func isExecutable(path string) bool {
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return false
	}
	if runtime.GOOS == "windows" {
		return true
	}
	return info.Mode().Perm()&0o111 != 0
}
