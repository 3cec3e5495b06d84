package marketdata

// Quote is the provider's /quote response. The price fields are pointers
// because the provider may omit them, e.g. for unknown symbols.
type Quote struct {
	Current       *float64 `json:"c"`
	ChangePercent *float64 `json:"dp"`
	Change        *float64 `json:"d"`
	High          *float64 `json:"h"`
	Low           *float64 `json:"l"`
	Open          *float64 `json:"o"`
	PreviousClose *float64 `json:"pc"`
}

// Profile is the provider's /stock/profile2 response. Fields the app does
// not recognize are ignored during decoding.
type Profile struct {
	Country  string `json:"country,omitempty"`
	Currency string `json:"currency,omitempty"`
	Exchange string `json:"exchange,omitempty"`
	Name     string `json:"name,omitempty"`
	Ticker   string `json:"ticker,omitempty"`
	Logo     string `json:"logo,omitempty"`
	WebURL   string `json:"weburl,omitempty"`
}

// SearchResult is one instrument match from the provider's /search endpoint
type SearchResult struct {
	Symbol        string `json:"symbol"`
	DisplaySymbol string `json:"displaySymbol"`
	Description   string `json:"description"`
	Type          string `json:"type"`
}

// SearchResponse is the provider's /search response
type SearchResponse struct {
	Count  int            `json:"count"`
	Result []SearchResult `json:"result"`
}
