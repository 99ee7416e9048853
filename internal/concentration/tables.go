package concentration

// =============================================================================
// Fixed lookup tables - Moody's rating factor / recovery / diversity
// =============================================================================

// defaultWARFFactors is the standard Moody's rating factor table.
// 미등재 등급은 RatingConfig.DefaultWARF(10000)로 처리.
func defaultWARFFactors() map[string]float64 {
	return map[string]float64{
		"Aaa":  1,
		"Aa1":  10,
		"Aa2":  20,
		"Aa3":  40,
		"A1":   70,
		"A2":   120,
		"A3":   180,
		"Baa1": 260,
		"Baa2": 360,
		"Baa3": 610,
		"Ba1":  940,
		"Ba2":  1350,
		"Ba3":  1766,
		"B1":   2220,
		"B2":   2720,
		"B3":   3490,
		"Caa1": 4770,
		"Caa2": 6500,
		"Caa3": 8070,
		"Ca":   10000,
		"C":    10000,
	}
}

// defaultRecoveryByCategory supplies Moody's recovery assumptions
// when an asset carries no recovery rate of its own.
func defaultRecoveryByCategory() map[string]float64 {
	return map[string]float64{
		"SENIOR SECURED LOAN":   0.45,
		"SECOND LIEN LOAN":      0.30,
		"SENIOR UNSECURED LOAN": 0.35,
		"SUBORDINATED LOAN":     0.25,
		"UNSECURED LOAN":        0.35,
		"SENIOR SECURED BOND":   0.40,
		"SENIOR UNSECURED BOND": 0.30,
		"SUBORDINATED BOND":     0.20,
	}
}

// diversityTable maps aggregate industry equivalent units to an industry
// diversity score (Moody's method). 정수 눈금 사이는 선형 보간.
var diversityTable = []struct {
	Units float64
	Score float64
}{
	{0, 0},
	{1, 1.00},
	{2, 1.50},
	{3, 2.00},
	{4, 2.33},
	{5, 2.67},
	{6, 3.00},
	{7, 3.25},
	{8, 3.50},
	{9, 3.75},
	{10, 4.00},
	{11, 4.20},
	{12, 4.40},
	{13, 4.60},
	{14, 4.80},
	{15, 5.00},
}

// industryDiversityScore interpolates the diversity table; units beyond the
// table cap at the last entry's score.
func industryDiversityScore(units float64) float64 {
	if units <= 0 {
		return 0
	}
	last := diversityTable[len(diversityTable)-1]
	if units >= last.Units {
		return last.Score
	}
	for i := 1; i < len(diversityTable); i++ {
		hi := diversityTable[i]
		if units <= hi.Units {
			lo := diversityTable[i-1]
			frac := (units - lo.Units) / (hi.Units - lo.Units)
			return lo.Score + frac*(hi.Score-lo.Score)
		}
	}
	return last.Score
}
