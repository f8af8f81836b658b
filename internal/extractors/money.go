package extractors

import (
	"regexp"
	"strconv"
	"strings"
)

var yearPattern = regexp.MustCompile(`\b(19|20)\d{2}\b`)

// parseMoney turns a money cell into a float. Handles "$1,234,567",
// parenthesized negatives "(1,234)", dashes and empty cells as zero, and
// trailing footnote markers like "(1)" or "(a)".
func (c *CleanupRules) parseMoney(cell string) (float64, bool) {
	s := strings.TrimSpace(cell)
	if s == "" || s == "—" || s == "-" || s == "–" {
		return 0, true
	}

	s = c.footnote.ReplaceAllString(s, "")
	s = strings.TrimSpace(s)

	negative := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		negative = true
		s = s[1 : len(s)-1]
	}

	s = c.currency.ReplaceAllString(s, "")
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, true
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	if negative {
		v = -v
	}
	return v, true
}

// parseYear pulls the first plausible four-digit year from a cell.
func parseYear(cell string) (int, bool) {
	m := yearPattern.FindString(cell)
	if m == "" {
		return 0, false
	}
	y, err := strconv.Atoi(m)
	if err != nil {
		return 0, false
	}
	return y, true
}
