package concentration

import "sort"

// =============================================================================
// Test Catalog - 54개 집중도 테스트의 닫힌 목록
// =============================================================================

// TestNumber is the legacy numeric test identifier (1..54)
type TestNumber int

const (
	TestSeniorSecuredLoans        TestNumber = 1
	TestNonSeniorSecuredAssets    TestNumber = 2
	TestSixthLargestObligor       TestNumber = 3
	TestFirstLargestObligor       TestNumber = 4 // no-op, emitted by 3
	TestLargestNonSnrSecObligor   TestNumber = 5
	TestLargestDIPObligor         TestNumber = 6
	TestCaaRatedAssets            TestNumber = 7
	TestCCCRatedAssets            TestNumber = 8
	TestLessFrequentThanQuarterly TestNumber = 9
	TestFixedRateAssets           TestNumber = 10
	TestCurrentPayAssets          TestNumber = 11
	TestDIPAssets                 TestNumber = 12
	TestUnfundedCommitments       TestNumber = 13
	TestParticipations            TestNumber = 14
	TestNonUSCountries            TestNumber = 15
	TestNonUSCanadaCountries      TestNumber = 16
	TestCanada                    TestNumber = 17
	TestTaxJurisdictions          TestNumber = 18
	TestGroupICountries           TestNumber = 19
	TestIndividualGroupICountry   TestNumber = 20 // no-op, emitted by 19
	TestGroupIICountries          TestNumber = 21
	TestIndividualGroupIICountry  TestNumber = 22 // no-op, emitted by 21
	TestGroupIIICountries         TestNumber = 23
	TestIndividualGroupIIICountry TestNumber = 24 // no-op, emitted by 23
	TestFirstLargestSPIndustry    TestNumber = 25
	TestSecondLargestSPIndustry   TestNumber = 26 // no-op, emitted by 25
	TestThirdLargestSPIndustry    TestNumber = 27 // no-op, emitted by 25
	TestFirstLargestMdyIndustry   TestNumber = 28
	TestSecondLargestMdyIndustry  TestNumber = 29 // no-op, emitted by 28
	TestThirdLargestMdyIndustry   TestNumber = 30 // no-op, emitted by 28
	TestBridgeLoans               TestNumber = 31
	TestCovLiteLoans              TestNumber = 32
	TestDeferrableSecurities      TestNumber = 33
	TestLettersOfCredit           TestNumber = 34
	TestLongDatedAssets           TestNumber = 35
	TestSecondLienLoans           TestNumber = 36
	TestUnsecuredLoans            TestNumber = 37
	TestWARF                      TestNumber = 38
	TestWeightedAvgSpread         TestNumber = 39
	TestWeightedAvgCoupon         TestNumber = 40
	TestWeightedAvgLife           TestNumber = 41
	TestWeightedAvgRecovery       TestNumber = 42
	TestBonds                     TestNumber = 43
	TestUnitedKingdom             TestNumber = 44
	TestFiveLargestObligors       TestNumber = 45
	TestDefaultedAssets           TestNumber = 46
	TestDiscountObligations       TestNumber = 47
	TestStructuredFinance         TestNumber = 48
	TestFloatingNoFloor           TestNumber = 49
	TestLargestNonUSCountry       TestNumber = 50
	TestTenLargestObligors        TestNumber = 51
	TestDiversityScore            TestNumber = 52
	TestUnratedAssets             TestNumber = 53
	TestLargestAsset              TestNumber = 54
)

// Comparator is the pass/fail direction of a test
// 레거시 규칙별 비교 방향은 테스트마다 고정 계약임
type Comparator string

const (
	CompareMax        Comparator = "max" // pass iff result < threshold
	CompareMin        Comparator = "min" // pass iff result > threshold
	CompareMinOrEqual Comparator = "gte" // pass iff result >= threshold
)

// ValueKind drives threshold write validation bounds
type ValueKind string

const (
	KindFraction ValueKind = "fraction" // 0.0 ~ 1.0 (API는 0~100% 입력을 정규화)
	KindFactor   ValueKind = "factor"   // 0 ~ 10000 (rating factor)
	KindYears    ValueKind = "years"    // 0 ~ 50
	KindScore    ValueKind = "score"    // >= 0 (diversity 등 절대값)
)

// TestSpec describes one catalog entry
type TestSpec struct {
	Number           TestNumber
	Name             string
	Category         string
	Kind             ValueKind
	Compare          Comparator
	DefaultThreshold float64
	// CapOverride caps deal overrides for single-obligor tests (0 = uncapped)
	CapOverride float64
	// NoOp marks legacy dead dispatch branches; EmittedBy names the sibling
	// routine that produces this test number's result as a side effect.
	NoOp      bool
	EmittedBy TestNumber
}

// catalog is the closed set of tests. Order matters only for documentation;
// execution order is ascending test number.
var catalog = map[TestNumber]TestSpec{
	TestSeniorSecuredLoans:        {Number: 1, Name: "Limitation on Senior Secured Loans", Category: "asset_class", Kind: KindFraction, Compare: CompareMin, DefaultThreshold: 0.90},
	TestNonSeniorSecuredAssets:    {Number: 2, Name: "Limitation on Assets Other Than Senior Secured Loans", Category: "asset_class", Kind: KindFraction, Compare: CompareMax, DefaultThreshold: 0.10},
	TestSixthLargestObligor:       {Number: 3, Name: "Limitation on 6th Largest Obligor", Category: "obligor", Kind: KindFraction, Compare: CompareMax, DefaultThreshold: 0.02, CapOverride: 0.05},
	TestFirstLargestObligor:       {Number: 4, Name: "Limitation on 1st Largest Obligor", Category: "obligor", Kind: KindFraction, Compare: CompareMax, DefaultThreshold: 0.025, CapOverride: 0.05, NoOp: true, EmittedBy: 3},
	TestLargestNonSnrSecObligor:   {Number: 5, Name: "Limitation on 1st Largest Non-Senior-Secured Obligor", Category: "obligor", Kind: KindFraction, Compare: CompareMax, DefaultThreshold: 0.01, CapOverride: 0.05},
	TestLargestDIPObligor:         {Number: 6, Name: "Limitation on 1st Largest DIP Obligor", Category: "obligor", Kind: KindFraction, Compare: CompareMax, DefaultThreshold: 0.01, CapOverride: 0.05},
	TestCaaRatedAssets:            {Number: 7, Name: "Limitation on Caa Rated Assets", Category: "rating", Kind: KindFraction, Compare: CompareMax, DefaultThreshold: 0.075},
	TestCCCRatedAssets:            {Number: 8, Name: "Limitation on CCC Rated Assets", Category: "rating", Kind: KindFraction, Compare: CompareMax, DefaultThreshold: 0.075},
	TestLessFrequentThanQuarterly: {Number: 9, Name: "Limitation on Assets Paying Less Frequently than Quarterly", Category: "asset_class", Kind: KindFraction, Compare: CompareMax, DefaultThreshold: 0.05},
	TestFixedRateAssets:           {Number: 10, Name: "Limitation on Fixed Rate Obligations", Category: "asset_class", Kind: KindFraction, Compare: CompareMax, DefaultThreshold: 0.025},
	TestCurrentPayAssets:          {Number: 11, Name: "Limitation on Current Pay Obligations", Category: "asset_class", Kind: KindFraction, Compare: CompareMax, DefaultThreshold: 0.025},
	TestDIPAssets:                 {Number: 12, Name: "Limitation on DIP Assets", Category: "asset_class", Kind: KindFraction, Compare: CompareMax, DefaultThreshold: 0.05},
	TestUnfundedCommitments:       {Number: 13, Name: "Limitation on Unfunded Commitments", Category: "asset_class", Kind: KindFraction, Compare: CompareMax, DefaultThreshold: 0.10},
	TestParticipations:            {Number: 14, Name: "Limitation on Participation Interests", Category: "asset_class", Kind: KindFraction, Compare: CompareMax, DefaultThreshold: 0.15},
	TestNonUSCountries:            {Number: 15, Name: "Limitation on Countries Other Than the United States", Category: "geography", Kind: KindFraction, Compare: CompareMax, DefaultThreshold: 0.20},
	TestNonUSCanadaCountries:      {Number: 16, Name: "Limitation on Countries Other Than the US and Canada", Category: "geography", Kind: KindFraction, Compare: CompareMax, DefaultThreshold: 0.15},
	TestCanada:                    {Number: 17, Name: "Limitation on Canada", Category: "geography", Kind: KindFraction, Compare: CompareMax, DefaultThreshold: 0.125},
	TestTaxJurisdictions:          {Number: 18, Name: "Limitation on Tax Jurisdictions", Category: "geography", Kind: KindFraction, Compare: CompareMax, DefaultThreshold: 0.075},
	TestGroupICountries:           {Number: 19, Name: "Limitation on Group I Countries", Category: "geography", Kind: KindFraction, Compare: CompareMax, DefaultThreshold: 0.15},
	TestIndividualGroupICountry:   {Number: 20, Name: "Limitation on Individual Group I Countries", Category: "geography", Kind: KindFraction, Compare: CompareMax, DefaultThreshold: 0.10, NoOp: true, EmittedBy: 19},
	TestGroupIICountries:          {Number: 21, Name: "Limitation on Group II Countries", Category: "geography", Kind: KindFraction, Compare: CompareMax, DefaultThreshold: 0.10},
	TestIndividualGroupIICountry:  {Number: 22, Name: "Limitation on Individual Group II Countries", Category: "geography", Kind: KindFraction, Compare: CompareMax, DefaultThreshold: 0.075, NoOp: true, EmittedBy: 21},
	TestGroupIIICountries:         {Number: 23, Name: "Limitation on Group III Countries", Category: "geography", Kind: KindFraction, Compare: CompareMax, DefaultThreshold: 0.075},
	TestIndividualGroupIIICountry: {Number: 24, Name: "Limitation on Individual Group III Countries", Category: "geography", Kind: KindFraction, Compare: CompareMax, DefaultThreshold: 0.05, NoOp: true, EmittedBy: 23},
	TestFirstLargestSPIndustry:    {Number: 25, Name: "Limitation on 1st Largest S&P Industry", Category: "industry", Kind: KindFraction, Compare: CompareMax, DefaultThreshold: 0.075},
	TestSecondLargestSPIndustry:   {Number: 26, Name: "Limitation on 2nd Largest S&P Industry", Category: "industry", Kind: KindFraction, Compare: CompareMax, DefaultThreshold: 0.12, NoOp: true, EmittedBy: 25},
	TestThirdLargestSPIndustry:    {Number: 27, Name: "Limitation on 3rd Largest S&P Industry", Category: "industry", Kind: KindFraction, Compare: CompareMax, DefaultThreshold: 0.15, NoOp: true, EmittedBy: 25},
	TestFirstLargestMdyIndustry:   {Number: 28, Name: "Limitation on 1st Largest Moody's Industry", Category: "industry", Kind: KindFraction, Compare: CompareMax, DefaultThreshold: 0.12},
	TestSecondLargestMdyIndustry:  {Number: 29, Name: "Limitation on 2nd Largest Moody's Industry", Category: "industry", Kind: KindFraction, Compare: CompareMax, DefaultThreshold: 0.12, NoOp: true, EmittedBy: 28},
	TestThirdLargestMdyIndustry:   {Number: 30, Name: "Limitation on 3rd Largest Moody's Industry", Category: "industry", Kind: KindFraction, Compare: CompareMax, DefaultThreshold: 0.12, NoOp: true, EmittedBy: 28},
	TestBridgeLoans:               {Number: 31, Name: "Limitation on Bridge Loans", Category: "asset_class", Kind: KindFraction, Compare: CompareMax, DefaultThreshold: 0.05},
	TestCovLiteLoans:              {Number: 32, Name: "Limitation on Cov-Lite Loans", Category: "asset_class", Kind: KindFraction, Compare: CompareMax, DefaultThreshold: 0.60},
	TestDeferrableSecurities:      {Number: 33, Name: "Limitation on Deferrable Securities", Category: "asset_class", Kind: KindFraction, Compare: CompareMax, DefaultThreshold: 0.05},
	TestLettersOfCredit:           {Number: 34, Name: "Limitation on Letters of Credit", Category: "asset_class", Kind: KindFraction, Compare: CompareMax, DefaultThreshold: 0.10},
	TestLongDatedAssets:           {Number: 35, Name: "Limitation on Long Dated Obligations", Category: "asset_class", Kind: KindFraction, Compare: CompareMax, DefaultThreshold: 0.05},
	TestSecondLienLoans:           {Number: 36, Name: "Limitation on Second Lien Loans", Category: "asset_class", Kind: KindFraction, Compare: CompareMax, DefaultThreshold: 0.10},
	TestUnsecuredLoans:            {Number: 37, Name: "Limitation on Unsecured Loans", Category: "asset_class", Kind: KindFraction, Compare: CompareMax, DefaultThreshold: 0.05},
	TestWARF:                      {Number: 38, Name: "Maximum Moody's Rating Factor", Category: "weighted_average", Kind: KindFactor, Compare: CompareMax, DefaultThreshold: 2720},
	TestWeightedAvgSpread:         {Number: 39, Name: "Minimum Weighted Average Spread", Category: "weighted_average", Kind: KindFraction, Compare: CompareMin, DefaultThreshold: 0.04},
	TestWeightedAvgCoupon:         {Number: 40, Name: "Minimum Weighted Average Coupon", Category: "weighted_average", Kind: KindFraction, Compare: CompareMinOrEqual, DefaultThreshold: 0.07},
	TestWeightedAvgLife:           {Number: 41, Name: "Maximum Weighted Average Life", Category: "weighted_average", Kind: KindYears, Compare: CompareMax, DefaultThreshold: 5.0},
	TestWeightedAvgRecovery:       {Number: 42, Name: "Minimum Weighted Average Moody's Recovery Rate", Category: "weighted_average", Kind: KindFraction, Compare: CompareMin, DefaultThreshold: 0.47},
	TestBonds:                     {Number: 43, Name: "Limitation on Bonds", Category: "asset_class", Kind: KindFraction, Compare: CompareMax, DefaultThreshold: 0.05},
	TestUnitedKingdom:             {Number: 44, Name: "Limitation on the United Kingdom", Category: "geography", Kind: KindFraction, Compare: CompareMax, DefaultThreshold: 0.10},
	TestFiveLargestObligors:       {Number: 45, Name: "Limitation on 5 Largest Obligors", Category: "obligor", Kind: KindFraction, Compare: CompareMax, DefaultThreshold: 0.10},
	TestDefaultedAssets:           {Number: 46, Name: "Limitation on Defaulted Assets", Category: "rating", Kind: KindFraction, Compare: CompareMax, DefaultThreshold: 0.025},
	TestDiscountObligations:       {Number: 47, Name: "Limitation on Discount Obligations", Category: "asset_class", Kind: KindFraction, Compare: CompareMax, DefaultThreshold: 0.075},
	TestStructuredFinance:         {Number: 48, Name: "Limitation on Structured Finance Obligations", Category: "asset_class", Kind: KindFraction, Compare: CompareMax, DefaultThreshold: 0.005},
	TestFloatingNoFloor:           {Number: 49, Name: "Limitation on Floating Rate Obligations Without a Floor", Category: "asset_class", Kind: KindFraction, Compare: CompareMax, DefaultThreshold: 0.50},
	TestLargestNonUSCountry:       {Number: 50, Name: "Limitation on 1st Largest Non-US Country", Category: "geography", Kind: KindFraction, Compare: CompareMax, DefaultThreshold: 0.125},
	TestTenLargestObligors:        {Number: 51, Name: "Limitation on 10 Largest Obligors", Category: "obligor", Kind: KindFraction, Compare: CompareMax, DefaultThreshold: 0.15},
	TestDiversityScore:            {Number: 52, Name: "Minimum Diversity Score", Category: "weighted_average", Kind: KindScore, Compare: CompareMin, DefaultThreshold: 45},
	TestUnratedAssets:             {Number: 53, Name: "Limitation on Unrated Assets", Category: "rating", Kind: KindFraction, Compare: CompareMax, DefaultThreshold: 0.025},
	TestLargestAsset:              {Number: 54, Name: "Limitation on 1st Largest Asset", Category: "obligor", Kind: KindFraction, Compare: CompareMax, DefaultThreshold: 0.02, CapOverride: 0.05},
}

// Spec returns the catalog entry for a test number
func Spec(n TestNumber) (TestSpec, bool) {
	spec, ok := catalog[n]
	return spec, ok
}

// AllTestNumbers returns every catalog test number in ascending order
func AllTestNumbers() []TestNumber {
	numbers := make([]TestNumber, 0, len(catalog))
	for n := range catalog {
		numbers = append(numbers, n)
	}
	sort.Slice(numbers, func(i, j int) bool { return numbers[i] < numbers[j] })
	return numbers
}

// CatalogSize is the number of tests in the closed catalog
func CatalogSize() int {
	return len(catalog)
}
