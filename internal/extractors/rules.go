package extractors

import (
	_ "embed"
	"fmt"
	"regexp"
	"strings"

	"github.com/BurntSushi/toml"
)

//go:embed rules.toml
var defaultRulesTOML []byte

// Keyword is one weighted phrase used to score candidate tables.
type Keyword struct {
	Text   string  `toml:"text"`
	Weight float64 `toml:"weight"`
}

// Column maps header synonyms to an output field, with a positional
// fallback when no header matches.
type Column struct {
	Field    string   `toml:"field"`
	Synonyms []string `toml:"synonyms"`
	Position int      `toml:"position"`
}

// TableRules scores and maps one kind of table.
type TableRules struct {
	MinScore float64   `toml:"min_score"`
	Keywords []Keyword `toml:"keywords"`
	Columns  []Column  `toml:"columns"`
}

// CleanupRules holds the compiled cell-cleanup expressions.
type CleanupRules struct {
	FootnotePattern string `toml:"footnote_pattern"`
	CurrencyPattern string `toml:"currency_pattern"`

	footnote *regexp.Regexp
	currency *regexp.Regexp
}

// Rules is the full rule file.
type Rules struct {
	Cleanup CleanupRules `toml:"cleanup"`
	SCT     TableRules   `toml:"sct"`
	Tax     TableRules   `toml:"tax"`
}

// DefaultRules parses the embedded rule file. The embedded file is
// validated at build time by tests, so failure here is a programming error.
func DefaultRules() (*Rules, error) {
	return ParseRules(defaultRulesTOML)
}

// ParseRules decodes a TOML rule file. Keywords with non-positive weight
// are skipped rather than rejected; an unparseable cleanup regex is an
// error because every cell flows through it.
func ParseRules(data []byte) (*Rules, error) {
	var r Rules
	if err := toml.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("parse rules: %w", err)
	}

	r.SCT.Keywords = validKeywords(r.SCT.Keywords)
	r.Tax.Keywords = validKeywords(r.Tax.Keywords)

	var err error
	if r.Cleanup.footnote, err = regexp.Compile(r.Cleanup.FootnotePattern); err != nil {
		return nil, fmt.Errorf("invalid footnote pattern %q: %w", r.Cleanup.FootnotePattern, err)
	}
	if r.Cleanup.currency, err = regexp.Compile(r.Cleanup.CurrencyPattern); err != nil {
		return nil, fmt.Errorf("invalid currency pattern %q: %w", r.Cleanup.CurrencyPattern, err)
	}

	return &r, nil
}

func validKeywords(in []Keyword) []Keyword {
	out := in[:0]
	for _, kw := range in {
		if kw.Text == "" || kw.Weight <= 0 {
			continue
		}
		out = append(out, kw)
	}
	return out
}

// score sums the weights of keywords found in the table text, returning
// both the raw score and the maximum achievable for normalization.
func (tr TableRules) score(text string) (score, max float64) {
	for _, kw := range tr.Keywords {
		max += kw.Weight
		if containsKeyword(text, kw.Text) {
			score += kw.Weight
		}
	}
	return score, max
}

// containsKeyword does a case-insensitive substring check; table text is
// pre-lowercased by the scanner.
func containsKeyword(haystack, needle string) bool {
	return needle != "" && strings.Contains(haystack, strings.ToLower(needle))
}
