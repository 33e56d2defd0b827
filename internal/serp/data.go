package serp

// Search input boundary

// ScrapeParam carries the caller-supplied query parameters for one
// result-scraping run.
type ScrapeParam struct {
	query      string
	numResults int
	locale     string
	// excludeList entries are matched as substrings against the full result
	// URL, not by domain equality, so callers can exclude by domain, path
	// fragment, or any fragment of the URL.
	excludeList []string
}

func NewScrapeParam(
	query string,
	numResults int,
	locale string,
	excludeList []string,
) ScrapeParam {
	return ScrapeParam{
		query:       query,
		numResults:  numResults,
		locale:      locale,
		excludeList: excludeList,
	}
}

func (p *ScrapeParam) Query() string {
	return p.query
}

func (p *ScrapeParam) NumResults() int {
	return p.numResults
}

func (p *ScrapeParam) Locale() string {
	return p.locale
}

func (p *ScrapeParam) ExcludeList() []string {
	return p.excludeList
}
