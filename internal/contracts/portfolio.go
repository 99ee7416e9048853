package contracts

import "time"

// DealSnapshot is the portfolio of one CLO as of an analysis date
// ⭐ 계약: 자산 로딩(Service) → 엔진 입력 전달
type DealSnapshot struct {
	DealID            string            `json:"deal_id"`
	DealName          string            `json:"deal_name,omitempty"`
	AnalysisDate      time.Time         `json:"analysis_date"`
	Assets            map[string]*Asset `json:"assets"`
	PrincipalProceeds float64           `json:"principal_proceeds"`
	MagVersion        string            `json:"mag_version,omitempty"`
}

// CollateralPrincipalAmount = Σ par_amount (defaulted 포함) + principal_proceeds
// 비율 테스트의 기본 분모
func (s *DealSnapshot) CollateralPrincipalAmount() float64 {
	total := s.PrincipalProceeds
	for _, a := range s.Assets {
		total += a.ParAmount
	}
	return total
}

// TotalPar returns the par amount over all assets (no proceeds)
func (s *DealSnapshot) TotalPar() float64 {
	var total float64
	for _, a := range s.Assets {
		total += a.ParAmount
	}
	return total
}

// Count returns the number of positions
func (s *DealSnapshot) Count() int {
	return len(s.Assets)
}

// IsEmpty reports whether the snapshot has no positions
func (s *DealSnapshot) IsEmpty() bool {
	return len(s.Assets) == 0
}

// Deal is one CLO deal master row
type Deal struct {
	DealID            string     `json:"deal_id"`
	DealName          string     `json:"deal_name"`
	Manager           string     `json:"manager,omitempty"`
	MagVersion        string     `json:"mag_version"`
	StatedMaturity    *time.Time `json:"stated_maturity,omitempty"`
	PrincipalProceeds float64    `json:"principal_proceeds"`
	Active            bool       `json:"active"`
}
