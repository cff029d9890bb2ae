// Package chapters models a Matroska chapter edition and its XML exchange format.
package chapters

// Chapter is one named timestamp range.
// StartTime and EndTime are kept exactly as they appear in the XML (HH:MM:SS.nnnnnnnnn).
type Chapter struct {
	StartTime string
	// EndTime is nil for an open-ended chapter.
	EndTime *string
	Title   string
}

// End returns the end timestamp and whether one is set.
func (c Chapter) End() (string, bool) {
	if c.EndTime == nil {
		return "", false
	}
	return *c.EndTime, true
}

// Document is the chapter list of a single edition.
// Documents only come from Parse; there is no empty constructor.
type Document struct {
	root     rootElement
	chapters []Chapter
}

// rootElement records which top-level element the document was parsed from,
// so Marshal writes the same shape back.
type rootElement int

const (
	rootEdition  rootElement = iota // bare <EditionEntry>
	rootChapters                    // <Chapters><EditionEntry>, as written by mkvextract
)

// Analysis contains chapter title statistics.
type Analysis struct {
	Total          int     `json:"total"`
	GenericCount   int     `json:"genericCount"`
	GenericPercent float64 `json:"genericPercent"`
	NeedsNames     bool    `json:"needsNames"`
}
