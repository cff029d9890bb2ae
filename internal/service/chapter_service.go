// Package service implements the chapter operations exposed by the command line.
package service

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/listenupapp/mkvchapters/internal/chapters"
	domainerrors "github.com/listenupapp/mkvchapters/internal/errors"
	"github.com/listenupapp/mkvchapters/internal/id"
	"github.com/listenupapp/mkvchapters/internal/validation"
)

// ChapterIO moves chapter documents in and out of a container file.
type ChapterIO interface {
	ExtractChapters(ctx context.Context, container string) (*chapters.Document, error)
	CommitChapters(ctx context.Context, container string, doc *chapters.Document) error
}

// PathRequest names a container file.
type PathRequest struct {
	Path string `json:"path" validate:"required,file"`
}

// AddChapterRequest appends a chapter to a container.
type AddChapterRequest struct {
	Path  string `json:"path" validate:"required,file"`
	Title string `json:"title" validate:"required"`
	// Start is HH:MM:SS[.fraction] or a duration such as 90s.
	Start string `json:"start" validate:"required,timestamp"`
}

// RenameChapterRequest replaces the title of one chapter.
type RenameChapterRequest struct {
	Path  string `json:"path" validate:"required,file"`
	Index int    `json:"index" validate:"gte=0"`
	Title string `json:"title" validate:"required"`
}

// ImportRequest replaces the chapters of a container with those of an XML file.
type ImportRequest struct {
	Path    string `json:"path" validate:"required,file"`
	XMLPath string `json:"xml_path" validate:"required,file,nefield=Path"`
}

// Summary describes a chapter document.
type Summary struct {
	Path     string
	Chapters int
	Analysis chapters.Analysis
}

// ChapterService reads and edits the chapters of Matroska files.
type ChapterService struct {
	io        ChapterIO
	validator *validation.Validator
	logger    *slog.Logger
}

// NewChapterService creates a new chapter service.
func NewChapterService(
	chapterIO ChapterIO,
	validator *validation.Validator,
	logger *slog.Logger,
) *ChapterService {
	return &ChapterService{
		io:        chapterIO,
		validator: validator,
		logger:    logger,
	}
}

// ReadChapters extracts and parses the chapters of path.
func (s *ChapterService) ReadChapters(ctx context.Context, path string) (*chapters.Document, error) {
	if err := s.validator.Validate(PathRequest{Path: path}); err != nil {
		return nil, err
	}
	return s.io.ExtractChapters(ctx, path)
}

// AddChapter appends a chapter to the end of the chapter list of req.Path and writes the
// result back. The new chapter has no end time.
func (s *ChapterService) AddChapter(ctx context.Context, req AddChapterRequest) (*chapters.Document, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	start, err := chapters.NormalizeTimestamp(req.Start)
	if err != nil {
		return nil, domainerrors.Validation(err.Error())
	}

	log := s.opLogger("add", req.Path)

	doc, err := s.io.ExtractChapters(ctx, req.Path)
	if err != nil {
		return nil, err
	}

	doc.AppendChapter(req.Title, start)

	if err := s.io.CommitChapters(ctx, req.Path, doc); err != nil {
		return nil, err
	}

	log.Info("Added chapter",
		"title", req.Title,
		"start", start,
		"chapter_count", doc.Len(),
	)

	return doc, nil
}

// RenameChapter sets the title of the chapter at req.Index and writes the result back.
func (s *ChapterService) RenameChapter(ctx context.Context, req RenameChapterRequest) (*chapters.Document, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	log := s.opLogger("rename", req.Path)

	doc, err := s.io.ExtractChapters(ctx, req.Path)
	if err != nil {
		return nil, err
	}
	if req.Index >= doc.Len() {
		return nil, domainerrors.Validation(
			fmt.Sprintf("chapter %d out of range: %s has %d chapters", req.Index, req.Path, doc.Len()))
	}

	var previous string
	for i, ch := range doc.Editable() {
		if i == req.Index {
			previous = ch.Title
			ch.Title = req.Title
			break
		}
	}

	if err := s.io.CommitChapters(ctx, req.Path, doc); err != nil {
		return nil, err
	}

	log.Info("Renamed chapter",
		"index", req.Index,
		"from", previous,
		"to", req.Title,
	)

	return doc, nil
}

// ExportChapters writes the chapters of path to w as chapter XML.
func (s *ChapterService) ExportChapters(ctx context.Context, path string, w io.Writer) error {
	doc, err := s.ReadChapters(ctx, path)
	if err != nil {
		return err
	}

	data, err := doc.Marshal()
	if err != nil {
		return err
	}
	if _, err := w.Write(data); err != nil {
		return domainerrors.Wrap(err, domainerrors.CodeInternal, "write chapter xml")
	}
	return nil
}

// ImportChapters parses req.XMLPath and replaces the chapters of req.Path with it.
func (s *ChapterService) ImportChapters(ctx context.Context, req ImportRequest) (*chapters.Document, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	f, err := os.Open(req.XMLPath)
	if err != nil {
		return nil, domainerrors.Wrapf(err, domainerrors.CodeInternal, "open %s", req.XMLPath)
	}
	defer f.Close()

	doc, err := chapters.ParseReader(f)
	if err != nil {
		return nil, domainerrors.Wrapf(err, domainerrors.CodeMalformedInput, "chapters of %s", req.XMLPath)
	}

	if err := s.io.CommitChapters(ctx, req.Path, doc); err != nil {
		return nil, err
	}

	s.opLogger("import", req.Path).Info("Imported chapters",
		"source", req.XMLPath,
		"chapter_count", doc.Len(),
	)

	return doc, nil
}

// Summarize reports the chapter count and how many titles are placeholders.
func (s *ChapterService) Summarize(path string, doc *chapters.Document) Summary {
	analysis := doc.Analyze()
	if analysis.NeedsNames {
		s.logger.Debug("Chapters have generic names",
			"path", path,
			"generic", analysis.GenericCount,
			"total", analysis.Total,
		)
	}
	return Summary{
		Path:     path,
		Chapters: doc.Len(),
		Analysis: analysis,
	}
}

// opLogger tags the log lines of one mutating operation with a shared id.
func (s *ChapterService) opLogger(op, path string) *slog.Logger {
	opID, err := id.Generate("op")
	if err != nil {
		opID = op
	}
	return s.logger.With("op", op, "op_id", opID, "path", path)
}
