package extractors

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fyrsmithlabs/edgarsift/internal/refine"
)

const taxFixture = `<html><body>
<table>
<tr><td colspan="4">Provision for Income Taxes</td></tr>
<tr><td></td><td>2023</td><td>2022</td><td>2021</td></tr>
<tr><td>Current:</td><td></td><td></td><td></td></tr>
<tr><td>Federal</td><td>$1,000</td><td>$900</td><td>$800</td></tr>
<tr><td>State</td><td>100</td><td>90</td><td>80</td></tr>
<tr><td>Foreign</td><td>500</td><td>(450)</td><td>400</td></tr>
<tr><td>Deferred:</td><td></td><td></td><td></td></tr>
<tr><td>Federal</td><td>(200)</td><td>150</td><td>100</td></tr>
</table>
</body></html>`

func TestTaxExtractor_ExtractItems(t *testing.T) {
	e, err := NewTaxExtractor(nil)
	require.NoError(t, err)

	items, conf, _, err := e.ExtractItems([]byte(taxFixture))
	require.NoError(t, err)
	assert.Greater(t, conf, 0.0)
	require.Len(t, items, 4)

	fed := items[0]
	assert.Equal(t, "Federal", fed.Label)
	assert.Equal(t, TaxCurrent, fed.Category)
	assert.Equal(t, "federal", fed.Jurisdiction)
	assert.Equal(t, []string{"2023", "2022", "2021"}, fed.Periods)
	assert.Equal(t, []float64{1000, 900, 800}, fed.Values)

	foreign := items[2]
	assert.Equal(t, TaxCurrent, foreign.Category)
	assert.Equal(t, "foreign", foreign.Jurisdiction)
	assert.Equal(t, []float64{500, -450, 400}, foreign.Values)

	// Section heading flips the category for the rows beneath it.
	deferred := items[3]
	assert.Equal(t, TaxDeferred, deferred.Category)
	assert.Equal(t, []float64{-200, 150, 100}, deferred.Values)
}

func TestTaxExtractor_ExtractRecords(t *testing.T) {
	e, err := NewTaxExtractor(nil)
	require.NoError(t, err)

	result, err := e.Extract([]byte(taxFixture))
	require.NoError(t, err)
	assert.Equal(t, "tax", result.Extractor)
	require.Len(t, result.Records, 4)
	assert.Equal(t, "current", result.Records[0]["category"])
	assert.Equal(t, "federal", result.Records[0]["jurisdiction"])
}

func TestTaxExtractor_UnparseableCellKeepsPeriodAlignment(t *testing.T) {
	e, err := NewTaxExtractor(nil)
	require.NoError(t, err)

	doc := []byte(`<html><body>
<table>
<tr><td colspan="3">Provision for Income Taxes</td></tr>
<tr><td></td><td>2023</td><td>2022</td></tr>
<tr><td>Federal</td><td>n/a</td><td>2,000</td></tr>
<tr><td>State</td><td>100</td><td>90</td></tr>
</table>
</body></html>`)

	items, _, warnings, err := e.ExtractItems(doc)
	require.NoError(t, err)
	require.Len(t, items, 2)

	// 2,000 is the 2022 figure; the n/a cell must hold its 2023 slot.
	fed := items[0]
	assert.Equal(t, []string{"2023", "2022"}, fed.Periods)
	assert.Equal(t, []float64{0, 2000}, fed.Values)

	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0], "1 of 2 period values parsed")
}

func TestTaxExtractor_NoQualifyingTable(t *testing.T) {
	e, err := NewTaxExtractor(nil)
	require.NoError(t, err)

	doc := []byte(`<table><tr><td>Revenue</td><td>$1</td></tr></table>`)
	_, err = e.Extract(doc)

	var xerr *ExtractionError
	require.True(t, errors.As(err, &xerr))
	assert.Equal(t, refine.FailureMissingData, xerr.Type)
}

func TestTaxExtractor_NoPeriodHeader(t *testing.T) {
	e, err := NewTaxExtractor(nil)
	require.NoError(t, err)

	// Scores on keywords but has no row with two or more fiscal years.
	doc := []byte(`<table>
		<tr><td>Provision for Income Taxes</td></tr>
		<tr><td>Federal</td><td>$1,000</td></tr>
	</table>`)
	_, err = e.Extract(doc)

	var xerr *ExtractionError
	require.True(t, errors.As(err, &xerr))
	assert.Equal(t, refine.FailureMissingData, xerr.Type)
	assert.Contains(t, xerr.Message, "period header")
}

func TestSectionCategory(t *testing.T) {
	cat, ok := sectionCategory("Current:")
	require.True(t, ok)
	assert.Equal(t, TaxCurrent, cat)

	cat, ok = sectionCategory("Deferred")
	require.True(t, ok)
	assert.Equal(t, TaxDeferred, cat)

	_, ok = sectionCategory("Federal")
	assert.False(t, ok)
}
