// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the blog-agents pipeline:
// categories, research sources, briefs, drafts, reviews, and configuration.
package types

import (
	"fmt"
	"strings"
)

// Category is a content category of the blog. Each category has its own
// source mapping, writer style, and Blogger label.
type Category string

const (
	CategoryMacroFinance  Category = "macro_finance"
	CategoryRealEstateTax Category = "real_estate_tax"
	CategoryCorporateFair Category = "corporate_fair"
	CategoryGlobalNews    Category = "global_news"
)

// Categories lists every category in rotation order.
var Categories = []Category{
	CategoryMacroFinance,
	CategoryRealEstateTax,
	CategoryCorporateFair,
	CategoryGlobalNews,
}

var displayNames = map[Category]string{
	CategoryMacroFinance:  "거시경제·금융정책",
	CategoryRealEstateTax: "부동산·세법",
	CategoryCorporateFair: "기업법·공정거래",
	CategoryGlobalNews:    "글로벌 뉴스",
}

var categoryAliases = map[string]Category{
	"macro":           CategoryMacroFinance,
	"macro_finance":   CategoryMacroFinance,
	"realestate":      CategoryRealEstateTax,
	"real_estate_tax": CategoryRealEstateTax,
	"corporate":       CategoryCorporateFair,
	"corporate_fair":  CategoryCorporateFair,
	"global":          CategoryGlobalNews,
	"global_news":     CategoryGlobalNews,
	"news":            CategoryGlobalNews,
}

// DisplayName returns the Korean label used in prompts and as the Blogger label.
func (c Category) DisplayName() string {
	if name, ok := displayNames[c]; ok {
		return name
	}
	return string(c)
}

// Valid reports whether c is a known category.
func (c Category) Valid() bool {
	_, ok := displayNames[c]
	return ok
}

// ParseCategory resolves a category name or alias (case-insensitive).
func ParseCategory(s string) (Category, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	if c, ok := categoryAliases[key]; ok {
		return c, nil
	}
	return "", fmt.Errorf("unknown category %q: use one of macro, realestate, corporate, global", s)
}

// CategoryForLabel returns the category whose display name equals label.
func CategoryForLabel(label string) (Category, bool) {
	for c, name := range displayNames {
		if name == label {
			return c, true
		}
	}
	return "", false
}
