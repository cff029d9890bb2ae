package chapters

import (
	"regexp"
	"strings"
)

var genericPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)^chapter\s+\d+$`),
	regexp.MustCompile(`(?i)^chapter\s+(one|two|three|four|five|six|seven|eight|nine|ten)$`),
	regexp.MustCompile(`(?i)^kapitel\s+\d+$`),
	regexp.MustCompile(`(?i)^chapitre\s+\d+$`),
	regexp.MustCompile(`(?i)^part\s+\d+$`),
	regexp.MustCompile(`^\d+$`),
	regexp.MustCompile(`^\d+\.\s*$`),
	// mkvmerge and most rippers fill titles with the start timestamp.
	regexp.MustCompile(`^\d{1,2}:\d{2}:\d{2}(\.\d+)?$`),
}

// IsGenericName returns true if the chapter title is a placeholder.
func IsGenericName(title string) bool {
	title = strings.TrimSpace(title)

	if title == "" {
		return true
	}

	for _, pattern := range genericPatterns {
		if pattern.MatchString(title) {
			return true
		}
	}

	return false
}

// Analyze returns statistics about the chapter titles.
func (d *Document) Analyze() Analysis {
	if len(d.chapters) == 0 {
		return Analysis{}
	}

	generic := 0
	for _, ch := range d.chapters {
		if IsGenericName(ch.Title) {
			generic++
		}
	}

	percent := float64(generic) / float64(len(d.chapters))

	return Analysis{
		Total:          len(d.chapters),
		GenericCount:   generic,
		GenericPercent: percent,
		NeedsNames:     percent > 0.5,
	}
}
