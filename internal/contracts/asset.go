package contracts

import (
	"fmt"
	"strings"
	"time"
)

// BondLoan classifies a position as loan or bond
type BondLoan string

const (
	AssetLoan BondLoan = "LOAN"
	AssetBond BondLoan = "BOND"
)

// CouponType classifies the coupon as fixed or floating
type CouponType string

const (
	CouponFixed CouponType = "FIXED"
	CouponFloat CouponType = "FLOAT"
)

// Asset represents one portfolio position for a test run
// ⭐ 계약: 한 번의 테스트 실행 동안 불변 스냅샷으로 취급
type Asset struct {
	// Identity
	AssetID    string `json:"asset_id"`
	IssuerID   string `json:"issuer_id"`
	IssuerName string `json:"issuer_name"`

	// Classification
	BondLoan           BondLoan `json:"bond_loan"`
	Seniority          string   `json:"seniority"`
	SPPriorityCategory string   `json:"sp_priority_category"` // 예: SENIOR SECURED LOAN
	MdyAssetCategory   string   `json:"mdy_asset_category"`
	Country            string   `json:"country"`
	SPIndustry         string   `json:"sp_industry"`
	MdyIndustry        string   `json:"mdy_industry"`

	// Ratings
	MdyRating       string `json:"mdy_rating"`
	MdyDPRating     string `json:"mdy_dp_rating"`
	MdyDPRatingWARF string `json:"mdy_dp_rating_warf"`
	MdyFacilityRating string `json:"mdy_facility_rating"`
	MdyIssuerRating   string `json:"mdy_issuer_rating"`
	MdySnrSecRating   string `json:"mdy_snr_sec_rating"`
	MdySubRating      string `json:"mdy_sub_rating"`
	SPRating          string `json:"sp_rating"`
	SPFacilityRating  string `json:"sp_facility_rating"`
	SPIssuerRating    string `json:"sp_issuer_rating"`

	// Economics
	ParAmount       float64    `json:"par_amount"`
	MarketValue     float64    `json:"market_value"`
	Coupon          float64    `json:"coupon"`
	CouponType      CouponType `json:"coupon_type"`
	CpnSpread       float64    `json:"cpn_spread"`
	LiborFloor      float64    `json:"libor_floor"`
	FacilitySize    float64    `json:"facility_size"`
	UnfundedAmount  float64    `json:"unfunded_amount"`
	WAL             float64    `json:"wal"` // years
	MdyRecoveryRate float64    `json:"mdy_recovery_rate"`
	PayFreq         int        `json:"pay_freq"` // payments per year (12, 4, 2, 1)
	Maturity        time.Time  `json:"maturity"`

	// Flags
	DefaultAsset  bool `json:"default_asset"`
	DIP           bool `json:"dip"`
	CovLite       bool `json:"cov_lite"`
	BridgeLoan    bool `json:"bridge_loan"`
	PIKAsset      bool `json:"pik_asset"`
	CurrentPay    bool `json:"current_pay"`
	Participation bool `json:"participation"`
	LOC           bool `json:"loc"`
}

// Validate checks asset invariants
func (a *Asset) Validate() error {
	if a.AssetID == "" {
		return fmt.Errorf("asset_id is required")
	}
	if a.ParAmount < 0 {
		return fmt.Errorf("asset %s: par_amount must be >= 0, got %f", a.AssetID, a.ParAmount)
	}
	return nil
}

// IsLoan reports whether the asset is a loan
func (a *Asset) IsLoan() bool {
	return a.BondLoan == AssetLoan
}

// IsBond reports whether the asset is a bond
func (a *Asset) IsBond() bool {
	return a.BondLoan == AssetBond
}

// IsDefaulted reports whether the asset is a defaulted obligation
func (a *Asset) IsDefaulted() bool {
	return a.DefaultAsset
}

// ObligorKey returns the grouping key for obligor concentration
// IssuerID 우선, 없으면 IssuerName으로 그룹핑 (레거시 동작)
func (a *Asset) ObligorKey() string {
	if a.IssuerID != "" {
		return a.IssuerID
	}
	return strings.ToUpper(strings.TrimSpace(a.IssuerName))
}

// CountryKey returns the normalized country name for geography tests
func (a *Asset) CountryKey() string {
	return strings.ToUpper(strings.TrimSpace(a.Country))
}

// WARFRating returns the rating used for rating-factor lookups
// mdy_dp_rating_warf → mdy_dp_rating → mdy_rating 순서로 폴백
func (a *Asset) WARFRating() string {
	if a.MdyDPRatingWARF != "" {
		return a.MdyDPRatingWARF
	}
	if a.MdyDPRating != "" {
		return a.MdyDPRating
	}
	return a.MdyRating
}

// IsRated reports whether either agency rates the asset
func (a *Asset) IsRated() bool {
	return !isEmptyRating(a.MdyRating) || !isEmptyRating(a.SPRating)
}

func isEmptyRating(r string) bool {
	r = strings.ToUpper(strings.TrimSpace(r))
	return r == "" || r == "NR" || r == "N/A"
}
