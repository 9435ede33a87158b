package models

// CompetitorListing is one competitor slot on the input form. Only Bullets is
// sent to the model; URL and Title are used to fetch Bullets when it is empty.
type CompetitorListing struct {
	URL     string `json:"url"`
	Title   string `json:"title"`
	Bullets string `json:"bullets"`
}

// ListingInputData is the payload assembled for a single analysis.
type ListingInputData struct {
	ABAFileContent    string              `json:"abaFileContent,omitempty"`
	Competitors       []CompetitorListing `json:"competitors"`
	ReviewFileContent string              `json:"reviewFileContent" binding:"required"`
	ProductName       string              `json:"productName" binding:"required"`
	ProductDesc       string              `json:"productDesc" binding:"required"`
}

// AnalysisResults mirrors the response schema sent to the model:
//
//	{
//	  "keywordAnalysis":    {"roots": [string], "highFreq": [{"word": string, "count": number}], "coreKeywords": [string]},
//	  "competitorInsights": {"writingStyles": string, "coreKeywordUsage": string, "sellingPoints": [string]},
//	  "reviewInsights":     {"painPoints": [string], "defects": [string]},
//	  "listings":           {"version1": AmazonListing, "version2": AmazonListing}
//	}
type AnalysisResults struct {
	KeywordAnalysis    KeywordAnalysis    `json:"keywordAnalysis"`
	CompetitorInsights CompetitorInsights `json:"competitorInsights"`
	ReviewInsights     ReviewInsights     `json:"reviewInsights"`
	Listings           Listings           `json:"listings"`
}

type KeywordAnalysis struct {
	Roots        []string       `json:"roots"`
	HighFreq     []HighFreqWord `json:"highFreq"`
	CoreKeywords []string       `json:"coreKeywords"`
}

type HighFreqWord struct {
	Word  string  `json:"word"`
	Count float64 `json:"count"`
}

type CompetitorInsights struct {
	WritingStyles    string   `json:"writingStyles"`
	CoreKeywordUsage string   `json:"coreKeywordUsage"`
	SellingPoints    []string `json:"sellingPoints"`
}

type ReviewInsights struct {
	PainPoints []string `json:"painPoints"`
	Defects    []string `json:"defects"`
}

type Listings struct {
	Version1 AmazonListing `json:"version1"`
	Version2 AmazonListing `json:"version2"`
}

// AmazonListing is one generated listing variant.
type AmazonListing struct {
	Title       string   `json:"title"`
	Bullets     []string `json:"bullets"`
	Description string   `json:"description"`
}
