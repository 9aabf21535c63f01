package font

import "context"

// Font describes one family offered by the design panel's font picker.
type Font struct {
	Family     string   `json:"family"`
	Category   string   `json:"category"` // sans-serif | serif | display | monospace
	Subsets    []string `json:"subsets"`  // korean, latin
	Weights    []int    `json:"weights"`
	Popularity int      `json:"popularity"`
}

// SearchRequest filters the catalog. Empty fields match everything.
type SearchRequest struct {
	Query    string `json:"query" query:"q"`
	Category string `json:"category" query:"category"`
	Subset   string `json:"subset" query:"subset"`
}

type IFontUsecase interface {
	List(ctx context.Context) ([]Font, error)
	Search(ctx context.Context, req SearchRequest) ([]Font, error)
}
