// Package main provides the mkvchapters command, which reads and edits the chapters of
// Matroska files through mkvextract and mkvpropedit.
//
// Usage:
//
//	mkvchapters [flags] show <file.mkv>
//	mkvchapters [flags] add <file.mkv> <start> <title...>
//	mkvchapters [flags] rename <file.mkv> <index> <title...>
//	mkvchapters [flags] export <file.mkv> [out.xml]
//	mkvchapters [flags] import <file.mkv> <chapters.xml>
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/samber/do/v2"

	"github.com/listenupapp/mkvchapters/internal/di"
	domainerrors "github.com/listenupapp/mkvchapters/internal/errors"
	"github.com/listenupapp/mkvchapters/internal/logger"
	"github.com/listenupapp/mkvchapters/internal/service"
)

func main() {
	injector := di.NewContainer(os.Args[1:])

	args, err := di.Bootstrap(injector)
	if errors.Is(err, flag.ErrHelp) {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(0)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to start mkvchapters: %v\n", err)
		os.Exit(domainerrors.CodeValidation.ExitCode())
	}

	log := do.MustInvoke[*logger.Logger](injector)
	cli := &app{
		chapters: do.MustInvoke[*service.ChapterService](injector),
		stdout:   os.Stdout,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err = cli.run(ctx, args)
	stop()

	if shutdownErr := injector.Shutdown(); shutdownErr != nil {
		log.Warn("Shutdown error", "error", shutdownErr)
	}

	if err != nil {
		failLog, status := failureLogger(log, err)
		failLog.Fatal(status, "Command failed")
	}
}

// failureLogger tags log with err and its code and returns the exit status for err.
func failureLogger(log *logger.Logger, err error) (*logger.Logger, int) {
	code := domainerrors.CodeOf(err)
	return log.WithError(err).WithField("code", string(code)), code.ExitCode()
}
