package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"

	domainCache "github.com/daeho-materials/daeho-web/domains/cache"
	domainFont "github.com/daeho-materials/daeho-web/domains/font"
)

const (
	fontListTTLSeconds   = 86400
	fontSearchTTLSeconds = 3600
)

// fontService serves the curated bilingual catalog the design panel's font
// picker offers. The catalog is static per release; caching exists so the
// admin UI can hammer search-as-you-type without recomputing.
type fontService struct {
	cache   domainCache.ICacheManager
	catalog []domainFont.Font
}

func NewFontService(cache domainCache.ICacheManager) domainFont.IFontUsecase {
	return &fontService{cache: cache, catalog: fontCatalog()}
}

func (s *fontService) List(ctx context.Context) ([]domainFont.Font, error) {
	return domainCache.GetOrSet(ctx, s.cache, domainCache.KeyFontList, fontListTTLSeconds,
		func(ctx context.Context) ([]domainFont.Font, error) {
			fonts := make([]domainFont.Font, len(s.catalog))
			copy(fonts, s.catalog)
			sort.SliceStable(fonts, func(i, j int) bool {
				return fonts[i].Popularity > fonts[j].Popularity
			})
			return fonts, nil
		})
}

func (s *fontService) Search(ctx context.Context, req domainFont.SearchRequest) ([]domainFont.Font, error) {
	query := strings.ToLower(strings.TrimSpace(req.Query))
	category := strings.ToLower(strings.TrimSpace(req.Category))
	subset := strings.ToLower(strings.TrimSpace(req.Subset))

	key := fmt.Sprintf("%s%s:%s:%s", domainCache.KeyFontSearchPrefix, query, category, subset)

	return domainCache.GetOrSet(ctx, s.cache, key, fontSearchTTLSeconds,
		func(ctx context.Context) ([]domainFont.Font, error) {
			matches := make([]domainFont.Font, 0)
			for _, f := range s.catalog {
				if query != "" && !strings.Contains(strings.ToLower(f.Family), query) {
					continue
				}
				if category != "" && f.Category != category {
					continue
				}
				if subset != "" && !containsString(f.Subsets, subset) {
					continue
				}
				matches = append(matches, f)
			}
			sort.SliceStable(matches, func(i, j int) bool {
				return matches[i].Popularity > matches[j].Popularity
			})
			return matches, nil
		})
}

func containsString(list []string, want string) bool {
	for _, v := range list {
		if v == want {
			return true
		}
	}
	return false
}

// fontCatalog returns the families the site offers. Korean families come
// first; Latin-only families are used for numeric and English copy.
func fontCatalog() []domainFont.Font {
	return []domainFont.Font{
		{Family: "Noto Sans KR", Category: "sans-serif", Subsets: []string{"korean", "latin"}, Weights: []int{100, 300, 400, 500, 700, 900}, Popularity: 100},
		{Family: "Noto Serif KR", Category: "serif", Subsets: []string{"korean", "latin"}, Weights: []int{200, 300, 400, 500, 600, 700, 900}, Popularity: 82},
		{Family: "Nanum Gothic", Category: "sans-serif", Subsets: []string{"korean", "latin"}, Weights: []int{400, 700, 800}, Popularity: 90},
		{Family: "Nanum Myeongjo", Category: "serif", Subsets: []string{"korean", "latin"}, Weights: []int{400, 700, 800}, Popularity: 74},
		{Family: "Gowun Dodum", Category: "sans-serif", Subsets: []string{"korean", "latin"}, Weights: []int{400}, Popularity: 55},
		{Family: "Black Han Sans", Category: "display", Subsets: []string{"korean", "latin"}, Weights: []int{400}, Popularity: 63},
		{Family: "Do Hyeon", Category: "display", Subsets: []string{"korean", "latin"}, Weights: []int{400}, Popularity: 58},
		{Family: "IBM Plex Sans KR", Category: "sans-serif", Subsets: []string{"korean", "latin"}, Weights: []int{100, 200, 300, 400, 500, 600, 700}, Popularity: 61},
		{Family: "Pretendard", Category: "sans-serif", Subsets: []string{"korean", "latin"}, Weights: []int{100, 200, 300, 400, 500, 600, 700, 800, 900}, Popularity: 96},
		{Family: "Roboto", Category: "sans-serif", Subsets: []string{"latin"}, Weights: []int{100, 300, 400, 500, 700, 900}, Popularity: 95},
		{Family: "Inter", Category: "sans-serif", Subsets: []string{"latin"}, Weights: []int{100, 200, 300, 400, 500, 600, 700, 800, 900}, Popularity: 92},
		{Family: "Montserrat", Category: "sans-serif", Subsets: []string{"latin"}, Weights: []int{100, 200, 300, 400, 500, 600, 700, 800, 900}, Popularity: 88},
		{Family: "Playfair Display", Category: "serif", Subsets: []string{"latin"}, Weights: []int{400, 500, 600, 700, 800, 900}, Popularity: 70},
		{Family: "Lora", Category: "serif", Subsets: []string{"latin"}, Weights: []int{400, 500, 600, 700}, Popularity: 66},
		{Family: "JetBrains Mono", Category: "monospace", Subsets: []string{"latin"}, Weights: []int{100, 200, 300, 400, 500, 600, 700, 800}, Popularity: 40},
	}
}
