package extractors

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultRules(t *testing.T) {
	rules, err := DefaultRules()
	require.NoError(t, err)

	assert.Equal(t, 3.0, rules.SCT.MinScore)
	assert.Equal(t, 2.0, rules.Tax.MinScore)
	assert.NotEmpty(t, rules.SCT.Keywords)
	assert.NotEmpty(t, rules.SCT.Columns)
	assert.NotEmpty(t, rules.Tax.Keywords)
}

func TestParseRules_SkipsNonPositiveWeights(t *testing.T) {
	rules, err := ParseRules([]byte(`
[cleanup]
footnote_pattern = 'x'
currency_pattern = 'y'

[sct]
min_score = 1.0

[[sct.keywords]]
text = "kept"
weight = 1.0

[[sct.keywords]]
text = "dropped"
weight = 0.0

[[sct.keywords]]
text = ""
weight = 2.0
`))
	require.NoError(t, err)
	require.Len(t, rules.SCT.Keywords, 1)
	assert.Equal(t, "kept", rules.SCT.Keywords[0].Text)
}

func TestParseRules_BadCleanupRegex(t *testing.T) {
	_, err := ParseRules([]byte(`
[cleanup]
footnote_pattern = '(['
currency_pattern = 'y'
`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "footnote pattern")
}

func TestTableRulesScore(t *testing.T) {
	tr := TableRules{Keywords: []Keyword{
		{Text: "summary compensation table", Weight: 3.0},
		{Text: "all other compensation", Weight: 1.0},
	}}

	score, max := tr.score("the summary compensation table follows")
	assert.Equal(t, 3.0, score)
	assert.Equal(t, 4.0, max)

	score, _ = tr.score("nothing relevant")
	assert.Zero(t, score)
}

func TestParseMoney(t *testing.T) {
	rules, err := DefaultRules()
	require.NoError(t, err)

	tests := []struct {
		cell   string
		want   float64
		parsed bool
	}{
		{"$1,234,567", 1234567, true},
		{"(1,234)", -1234, true},
		{"$5,250,000(1)", 5250000, true},
		{"123,456(a)", 123456, true},
		{"—", 0, true},
		{"-", 0, true},
		{"", 0, true},
		{"$", 0, true},
		{"n/a", 0, false},
		{"12.5", 12.5, true},
	}
	for _, tc := range tests {
		got, ok := rules.Cleanup.parseMoney(tc.cell)
		assert.Equal(t, tc.parsed, ok, "cell %q", tc.cell)
		if tc.parsed {
			assert.Equal(t, tc.want, got, "cell %q", tc.cell)
		}
	}
}

func TestParseYear(t *testing.T) {
	y, ok := parseYear("Fiscal 2023")
	require.True(t, ok)
	assert.Equal(t, 2023, y)

	_, ok = parseYear("12345")
	assert.False(t, ok)

	_, ok = parseYear("total")
	assert.False(t, ok)
}
