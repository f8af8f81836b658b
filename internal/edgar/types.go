package edgar

// Submissions is the company filing index served by data.sec.gov. Recent
// filings arrive as parallel arrays keyed by position.
type Submissions struct {
	CIK     string   `json:"cik"`
	Name    string   `json:"name"`
	Tickers []string `json:"tickers"`
	Filings struct {
		Recent RecentFilings `json:"recent"`
	} `json:"filings"`
}

// RecentFilings holds the parallel arrays of the most recent filings.
type RecentFilings struct {
	AccessionNumber []string `json:"accessionNumber"`
	FilingDate      []string `json:"filingDate"`
	Form            []string `json:"form"`
	PrimaryDocument []string `json:"primaryDocument"`
}

// Filing is one entry flattened out of the parallel arrays.
type Filing struct {
	AccessionNumber string `json:"accession_number"`
	FilingDate      string `json:"filing_date"`
	Form            string `json:"form"`
	PrimaryDocument string `json:"primary_document"`
}

// FilingsOfForm flattens the recent filings and keeps those matching the
// given form type (e.g. "DEF 14A", "10-K").
func (s *Submissions) FilingsOfForm(form string) []Filing {
	recent := s.Filings.Recent
	var out []Filing
	for i, f := range recent.Form {
		if f != form {
			continue
		}
		filing := Filing{Form: f}
		if i < len(recent.AccessionNumber) {
			filing.AccessionNumber = recent.AccessionNumber[i]
		}
		if i < len(recent.FilingDate) {
			filing.FilingDate = recent.FilingDate[i]
		}
		if i < len(recent.PrimaryDocument) {
			filing.PrimaryDocument = recent.PrimaryDocument[i]
		}
		out = append(out, filing)
	}
	return out
}

// FilingIndex is the JSON directory listing of one filing.
type FilingIndex struct {
	Directory struct {
		Item []struct {
			Name string `json:"name"`
			Type string `json:"type"`
			Size string `json:"size"`
		} `json:"item"`
	} `json:"directory"`
}
