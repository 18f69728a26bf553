package textutil

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var trailingYearPattern = regexp.MustCompile(`^(.*?)\s*\(?(\d{4})\)?$`)

// SplitTitleYear separates a trailing year from a title. "Title (2024)"
// and "Title 2024" both yield ("Title", 2024); a title with no trailing
// year returns year 0.
func SplitTitleYear(title string) (string, int) {
	trimmed := strings.TrimSpace(title)
	matches := trailingYearPattern.FindStringSubmatch(trimmed)
	if matches == nil || matches[1] == "" {
		return trimmed, 0
	}
	year, err := strconv.Atoi(matches[2])
	if err != nil || year < 1800 || year > 2100 {
		return trimmed, 0
	}
	return strings.TrimSpace(matches[1]), year
}

var diacriticFolder = transform.Chain(
	norm.NFD,
	runes.Remove(runes.In(unicode.Mn)),
	norm.NFC,
)

// FoldTitle removes diacritic marks so lookup queries match providers that
// index ASCII-normalized titles. Input that cannot be transformed is
// returned unchanged.
func FoldTitle(title string) string {
	folded, _, err := transform.String(diacriticFolder, title)
	if err != nil {
		return title
	}
	return folded
}
