package chapters

import (
	"fmt"
	"iter"
	"strings"
)

// MissingEnd is shown in place of an absent end time.
const MissingEnd = "???"

// Len returns the number of chapters.
func (d *Document) Len() int {
	return len(d.chapters)
}

// At returns the i-th chapter in stored order.
func (d *Document) At(i int) Chapter {
	return d.chapters[i]
}

// All yields copies of the chapters in stored order.
func (d *Document) All() iter.Seq2[int, Chapter] {
	return func(yield func(int, Chapter) bool) {
		for i, ch := range d.chapters {
			if !yield(i, ch) {
				return
			}
		}
	}
}

// Editable yields pointers to the chapters in stored order so callers can edit them in place.
// The sequence itself is never reordered or resized by iteration.
func (d *Document) Editable() iter.Seq2[int, *Chapter] {
	return func(yield func(int, *Chapter) bool) {
		for i := range d.chapters {
			if !yield(i, &d.chapters[i]) {
				return
			}
		}
	}
}

// AppendChapter adds an open-ended chapter at the end of the edition.
// Chapters are never re-sorted; callers wanting chronological order pass ordered timestamps.
func (d *Document) AppendChapter(title, start string) {
	d.chapters = append(d.chapters, Chapter{
		StartTime: start,
		Title:     title,
	})
}

// Display renders one line per chapter:
//
//	Start: 00:00:00.000000000 End: ???          Title: Intro
func (d *Document) Display() string {
	var b strings.Builder
	for _, ch := range d.chapters {
		end, ok := ch.End()
		if !ok {
			end = MissingEnd
		}
		fmt.Fprintf(&b, "Start: %-12s End: %-12s Title: %s\n", ch.StartTime, end, ch.Title)
	}
	return b.String()
}

// String implements fmt.Stringer.
func (d *Document) String() string {
	return d.Display()
}
