package concentration

import "slices"

// =============================================================================
// Rule category configuration - 계산 로직과 분리된 셋/테이블
// =============================================================================

// Config bundles the data sets the rule bodies evaluate against
// ⭐ SSOT: 지역/산업/등급 셋은 여기서만, 규칙 본문에는 리터럴 금지
type Config struct {
	Geography  GeographyConfig
	Categories CategoryConfig
	Ratings    RatingConfig
}

// GeographyConfig holds the country sets used by geography tests
type GeographyConfig struct {
	USAliases        []string
	CanadaAliases    []string
	UKAliases        []string
	GroupICountries  []string
	GroupIICountries []string
	GroupIIICountries []string
	TaxJurisdictions []string
}

// CategoryConfig holds seniority/priority category sets
type CategoryConfig struct {
	SeniorSecuredLoan   []string // sp_priority_category 값
	SecondLienLoan      []string
	UnsecuredLoan       []string
	StructuredFinance   []string // mdy_asset_category 값
}

// RatingConfig holds rating sets and lookup tables
type RatingConfig struct {
	CaaRatings []string // Moody's Caa1 이하
	CCCRatings []string // S&P CCC+ 이하
	// WARFFactors maps a Moody's rating to its rating factor.
	// 등급 없음/미등재 → DefaultWARF
	WARFFactors map[string]float64
	DefaultWARF float64
	// RecoveryByCategory supplies Moody's recovery when the asset carries none
	RecoveryByCategory map[string]float64
	DefaultRecovery    float64
	// DiscountPriceCutoff: market value / par 이 이 값 미만이면 discount obligation
	DiscountPriceCutoff float64
}

// DefaultConfig returns the standard rule configuration
func DefaultConfig() Config {
	return Config{
		Geography: GeographyConfig{
			USAliases:     []string{"USA", "US", "UNITED STATES"},
			CanadaAliases: []string{"CANADA"},
			UKAliases:     []string{"UNITED KINGDOM", "UK", "GREAT BRITAIN"},
			GroupICountries: []string{
				"NETHERLANDS", "AUSTRALIA", "NEW ZEALAND",
				"UNITED KINGDOM", "UK", "GREAT BRITAIN",
			},
			GroupIICountries: []string{"GERMANY", "SWEDEN", "SWITZERLAND"},
			GroupIIICountries: []string{
				"AUSTRIA", "BELGIUM", "DENMARK", "FINLAND", "FRANCE",
				"ICELAND", "LIECHTENSTEIN", "LUXEMBOURG", "NORWAY", "SPAIN",
			},
			TaxJurisdictions: []string{
				"CAYMAN ISLANDS", "BERMUDA", "BRITISH VIRGIN ISLANDS",
				"NETHERLANDS ANTILLES", "JERSEY", "GUERNSEY", "ISLE OF MAN",
				"MARSHALL ISLANDS", "LIBERIA",
			},
		},
		Categories: CategoryConfig{
			SeniorSecuredLoan: []string{"SENIOR SECURED LOAN"},
			SecondLienLoan:    []string{"SECOND LIEN LOAN"},
			UnsecuredLoan:     []string{"SENIOR UNSECURED LOAN", "SUBORDINATED LOAN", "UNSECURED LOAN"},
			StructuredFinance: []string{"STRUCTURED FINANCE", "ABS", "CLO", "CDO"},
		},
		Ratings: RatingConfig{
			CaaRatings:          []string{"Caa1", "Caa2", "Caa3", "Ca", "C"},
			CCCRatings:          []string{"CCC+", "CCC", "CCC-", "CC", "C", "D"},
			WARFFactors:         defaultWARFFactors(),
			DefaultWARF:         10000,
			RecoveryByCategory:  defaultRecoveryByCategory(),
			DefaultRecovery:     0.30,
			DiscountPriceCutoff: 0.85,
		},
	}
}

// --- predicate helpers over the config sets ---

// IsSeniorSecuredLoan: LOAN이면서 senior secured 카테고리
func (c *Config) IsSeniorSecuredLoan(category string, isLoan bool) bool {
	return isLoan && slices.Contains(c.Categories.SeniorSecuredLoan, category)
}

// IsSecondLienLoan reports second lien priority
func (c *Config) IsSecondLienLoan(category string) bool {
	return slices.Contains(c.Categories.SecondLienLoan, category)
}

// IsUnsecuredLoan reports unsecured priority
func (c *Config) IsUnsecuredLoan(category string) bool {
	return slices.Contains(c.Categories.UnsecuredLoan, category)
}

// IsStructuredFinance matches the Moody's asset category
func (c *Config) IsStructuredFinance(mdyCategory string) bool {
	return slices.Contains(c.Categories.StructuredFinance, mdyCategory)
}

// IsUS, IsCanada, IsUK match normalized country names
func (g *GeographyConfig) IsUS(country string) bool {
	return slices.Contains(g.USAliases, country)
}

func (g *GeographyConfig) IsCanada(country string) bool {
	return slices.Contains(g.CanadaAliases, country)
}

func (g *GeographyConfig) IsUK(country string) bool {
	return slices.Contains(g.UKAliases, country)
}

func (g *GeographyConfig) IsGroupI(country string) bool {
	return slices.Contains(g.GroupICountries, country)
}

func (g *GeographyConfig) IsGroupII(country string) bool {
	return slices.Contains(g.GroupIICountries, country)
}

func (g *GeographyConfig) IsGroupIII(country string) bool {
	return slices.Contains(g.GroupIIICountries, country)
}

func (g *GeographyConfig) IsTaxJurisdiction(country string) bool {
	return slices.Contains(g.TaxJurisdictions, country)
}

// IsCaa matches the Moody's Caa-and-below rating set
func (r *RatingConfig) IsCaa(rating string) bool {
	return slices.Contains(r.CaaRatings, rating)
}

// IsCCC matches the S&P CCC-and-below rating set
func (r *RatingConfig) IsCCC(rating string) bool {
	return slices.Contains(r.CCCRatings, rating)
}

// WARFFactor returns the rating factor, falling back to DefaultWARF
func (r *RatingConfig) WARFFactor(rating string) float64 {
	if f, ok := r.WARFFactors[rating]; ok {
		return f
	}
	return r.DefaultWARF
}

// RecoveryRate returns the asset recovery rate with category fallback
func (r *RatingConfig) RecoveryRate(assetRate float64, category string) float64 {
	if assetRate > 0 {
		return assetRate
	}
	if rate, ok := r.RecoveryByCategory[category]; ok {
		return rate
	}
	return r.DefaultRecovery
}
