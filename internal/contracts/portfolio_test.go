package contracts

import (
	"encoding/json"
	"testing"
	"time"
)

func TestDealSnapshot_CollateralPrincipalAmount(t *testing.T) {
	snapshot := &DealSnapshot{
		DealID:       "MAG17-001",
		AnalysisDate: time.Date(2016, 3, 23, 0, 0, 0, 0, time.UTC),
		Assets: map[string]*Asset{
			"A": {AssetID: "A", ParAmount: 900, DefaultAsset: false},
			"B": {AssetID: "B", ParAmount: 50, DefaultAsset: true},
			"C": {AssetID: "C", ParAmount: 50},
		},
		PrincipalProceeds: 0,
	}

	// Defaulted assets count toward collateral principal exactly once
	if got := snapshot.CollateralPrincipalAmount(); got != 1000 {
		t.Errorf("CollateralPrincipalAmount() = %v, want 1000", got)
	}

	snapshot.PrincipalProceeds = 250
	if got := snapshot.CollateralPrincipalAmount(); got != 1250 {
		t.Errorf("CollateralPrincipalAmount() with proceeds = %v, want 1250", got)
	}

	if got := snapshot.TotalPar(); got != 1000 {
		t.Errorf("TotalPar() = %v, want 1000", got)
	}

	if snapshot.Count() != 3 {
		t.Errorf("Count() = %d, want 3", snapshot.Count())
	}

	if snapshot.IsEmpty() {
		t.Error("IsEmpty() = true for populated snapshot")
	}
}

func TestDealSnapshot_Empty(t *testing.T) {
	snapshot := &DealSnapshot{DealID: "MAG17-002", Assets: map[string]*Asset{}}

	if !snapshot.IsEmpty() {
		t.Error("IsEmpty() = false for empty snapshot")
	}
	if got := snapshot.CollateralPrincipalAmount(); got != 0 {
		t.Errorf("CollateralPrincipalAmount() = %v, want 0", got)
	}
}

func TestTestResult_JSON(t *testing.T) {
	original := &TestResult{
		TestNumber:      38,
		TestName:        "Maximum Moody's Rating Factor",
		Threshold:       2720,
		Result:          2540.5,
		Numerator:       2540500,
		Denominator:     1000,
		PassFail:        ResultPass,
		ThresholdSource: SourceDefault,
		MagVersion:      "MAG17",
	}

	data, err := json.Marshal(original)
	if err != nil {
		t.Fatalf("Marshal() failed: %v", err)
	}

	var decoded TestResult
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal() failed: %v", err)
	}

	if decoded.TestNumber != 38 || decoded.PassFail != ResultPass || decoded.Result != 2540.5 {
		t.Errorf("Round-trip mismatch: %+v", decoded)
	}
}

func TestTestResult_PassedFailed(t *testing.T) {
	r := &TestResult{PassFail: ResultPass}
	if !r.Passed() || r.Failed() {
		t.Error("PASS result misreported")
	}

	r = &TestResult{PassFail: ResultFail}
	if r.Passed() || !r.Failed() {
		t.Error("FAIL result misreported")
	}

	r = &TestResult{PassFail: ResultNA}
	if r.Passed() || r.Failed() {
		t.Error("N/A result should be neither passed nor failed")
	}
}
