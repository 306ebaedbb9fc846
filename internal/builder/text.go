// Package builder turns journal input directories (OCR XML, translation XML,
// page scans) into the bundle JSON artifacts the viewer serves.
package builder

import (
	"regexp"
	"strings"
	"unicode"
)

var (
	spaceRunRE   = regexp.MustCompile(`[ \t\r\f\v]+`)
	newlineRunRE = regexp.MustCompile(`\n{2,}`)
	digitsRE     = regexp.MustCompile(`\d+`)
)

// norm normalizes whitespace while preserving single newlines within
// paragraphs: CRLF/CR become LF, runs of blank lines collapse to one, and
// runs of spaces/tabs inside a line collapse to a single space.
func norm(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	s = newlineRunRE.ReplaceAllString(strings.TrimSpace(s), "\n\n")

	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(spaceRunRE.ReplaceAllString(line, " "))
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}

// firstNumber returns the first run of digits in s as an int, or 0 when s
// contains none.
func firstNumber(s string) int {
	match := digitsRE.FindString(s)
	if match == "" {
		return 0
	}
	num := 0
	for _, r := range match {
		num = num*10 + int(r-'0')
	}
	return num
}

// titleize produces a display title from a doc id, e.g. "xuan-thu" -> "Xuan Thu".
func titleize(docID string) string {
	words := strings.Fields(strings.ReplaceAll(docID, "-", " "))
	for i, word := range words {
		runes := []rune(word)
		runes[0] = unicode.ToUpper(runes[0])
		words[i] = string(runes)
	}
	return strings.Join(words, " ")
}
