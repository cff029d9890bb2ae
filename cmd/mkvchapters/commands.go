package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	domainerrors "github.com/listenupapp/mkvchapters/internal/errors"
	"github.com/listenupapp/mkvchapters/internal/service"
)

const usage = `Usage: mkvchapters [flags] <command> [arguments]

Commands:
  show   <file.mkv>                    print the chapters of a file
  add    <file.mkv> <start> <title...> append a chapter (start: HH:MM:SS.nnnnnnnnn or 90s)
  rename <file.mkv> <index> <title...> change the title of chapter <index> (0-based)
  export <file.mkv> [out.xml]          write the chapter XML to out.xml or stdout
  import <file.mkv> <chapters.xml>     replace the chapters of a file

Run mkvchapters -h for the list of flags.
`

type app struct {
	chapters *service.ChapterService
	stdout   io.Writer
}

func (a *app) run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return usageError("missing command")
	}

	cmd, rest := args[0], args[1:]
	switch cmd {
	case "show":
		if len(rest) != 1 {
			return usageError("show takes exactly one file")
		}
		return a.show(ctx, rest[0])
	case "add":
		if len(rest) < 3 {
			return usageError("add needs a file, a start time and a title")
		}
		return a.add(ctx, rest[0], rest[1], strings.Join(rest[2:], " "))
	case "rename":
		if len(rest) < 3 {
			return usageError("rename needs a file, a chapter index and a title")
		}
		return a.rename(ctx, rest[0], rest[1], strings.Join(rest[2:], " "))
	case "export":
		if len(rest) != 1 && len(rest) != 2 {
			return usageError("export takes a file and an optional output path")
		}
		return a.export(ctx, rest[0], rest[1:])
	case "import":
		if len(rest) != 2 {
			return usageError("import takes a file and a chapter XML file")
		}
		return a.importXML(ctx, rest[0], rest[1])
	case "help":
		fmt.Fprint(a.stdout, usage)
		return nil
	default:
		return usageError(fmt.Sprintf("unknown command %q", cmd))
	}
}

// show prints the chapters of path. A file without chapters is reported, not failed.
func (a *app) show(ctx context.Context, path string) error {
	doc, err := a.chapters.ReadChapters(ctx, path)
	if domainerrors.IsNoChapters(err) {
		fmt.Fprintf(a.stdout, "No chapters in %s\n", path)
		return nil
	}
	if err != nil {
		return err
	}

	fmt.Fprint(a.stdout, doc.Display())

	summary := a.chapters.Summarize(path, doc)
	fmt.Fprintf(a.stdout, "\n%d chapters", summary.Chapters)
	if summary.Analysis.NeedsNames {
		fmt.Fprintf(a.stdout, ", %d with generic titles (%.0f%%)",
			summary.Analysis.GenericCount, summary.Analysis.GenericPercent*100)
	}
	fmt.Fprintln(a.stdout)
	return nil
}

func (a *app) add(ctx context.Context, path, start, title string) error {
	doc, err := a.chapters.AddChapter(ctx, service.AddChapterRequest{
		Path:  path,
		Title: title,
		Start: start,
	})
	if err != nil {
		return err
	}
	fmt.Fprint(a.stdout, doc.Display())
	return nil
}

func (a *app) rename(ctx context.Context, path, index, title string) error {
	n, err := strconv.Atoi(index)
	if err != nil {
		return domainerrors.Validation(fmt.Sprintf("chapter index %q is not a number", index))
	}

	doc, err := a.chapters.RenameChapter(ctx, service.RenameChapterRequest{
		Path:  path,
		Index: n,
		Title: title,
	})
	if err != nil {
		return err
	}
	fmt.Fprint(a.stdout, doc.Display())
	return nil
}

func (a *app) export(ctx context.Context, path string, out []string) error {
	if len(out) == 0 {
		return a.chapters.ExportChapters(ctx, path, a.stdout)
	}

	f, err := os.OpenFile(out[0], os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644) //#nosec G304 -- user-chosen output
	if err != nil {
		return domainerrors.Wrapf(err, domainerrors.CodeInternal, "create %s", out[0])
	}
	if err := a.chapters.ExportChapters(ctx, path, f); err != nil {
		_ = f.Close()
		_ = os.Remove(out[0])
		return err
	}
	if err := f.Close(); err != nil {
		return domainerrors.Wrapf(err, domainerrors.CodeInternal, "close %s", out[0])
	}
	return nil
}

func (a *app) importXML(ctx context.Context, path, xmlPath string) error {
	doc, err := a.chapters.ImportChapters(ctx, service.ImportRequest{
		Path:    path,
		XMLPath: xmlPath,
	})
	if err != nil {
		return err
	}
	fmt.Fprint(a.stdout, doc.Display())
	return nil
}

func usageError(msg string) error {
	return domainerrors.Validation(msg + " (see mkvchapters help)")
}
