package contracts

import (
	"testing"
)

func TestAsset_Validate(t *testing.T) {
	asset := &Asset{AssetID: "A-001", ParAmount: 1000000}
	if err := asset.Validate(); err != nil {
		t.Errorf("Validate() failed for valid asset: %v", err)
	}

	// Negative par is invalid
	asset = &Asset{AssetID: "A-002", ParAmount: -1}
	if err := asset.Validate(); err == nil {
		t.Error("Expected Validate() to fail for negative par_amount")
	}

	// Missing ID is invalid
	asset = &Asset{ParAmount: 100}
	if err := asset.Validate(); err == nil {
		t.Error("Expected Validate() to fail for missing asset_id")
	}
}

func TestAsset_ObligorKey(t *testing.T) {
	asset := &Asset{IssuerID: "ISS-9", IssuerName: "Acme Corp"}
	if key := asset.ObligorKey(); key != "ISS-9" {
		t.Errorf("ObligorKey() = %s, want ISS-9", key)
	}

	// Falls back to normalized issuer name
	asset = &Asset{IssuerName: "  Acme Corp "}
	if key := asset.ObligorKey(); key != "ACME CORP" {
		t.Errorf("ObligorKey() = %s, want ACME CORP", key)
	}
}

func TestAsset_WARFRating(t *testing.T) {
	asset := &Asset{MdyDPRatingWARF: "B2", MdyDPRating: "B1", MdyRating: "Ba3"}
	if r := asset.WARFRating(); r != "B2" {
		t.Errorf("WARFRating() = %s, want B2", r)
	}

	asset = &Asset{MdyDPRating: "B1", MdyRating: "Ba3"}
	if r := asset.WARFRating(); r != "B1" {
		t.Errorf("WARFRating() = %s, want B1", r)
	}

	asset = &Asset{MdyRating: "Ba3"}
	if r := asset.WARFRating(); r != "Ba3" {
		t.Errorf("WARFRating() = %s, want Ba3", r)
	}

	asset = &Asset{}
	if r := asset.WARFRating(); r != "" {
		t.Errorf("WARFRating() = %s, want empty", r)
	}
}

func TestAsset_IsRated(t *testing.T) {
	tests := []struct {
		mdy, sp string
		want    bool
	}{
		{"B2", "B", true},
		{"B2", "", true},
		{"", "B", true},
		{"", "", false},
		{"NR", "NR", false},
		{"nr", "N/A", false},
	}

	for _, tt := range tests {
		asset := &Asset{MdyRating: tt.mdy, SPRating: tt.sp}
		if got := asset.IsRated(); got != tt.want {
			t.Errorf("IsRated() with mdy=%q sp=%q = %v, want %v", tt.mdy, tt.sp, got, tt.want)
		}
	}
}

func TestAsset_CountryKey(t *testing.T) {
	asset := &Asset{Country: " canada "}
	if key := asset.CountryKey(); key != "CANADA" {
		t.Errorf("CountryKey() = %s, want CANADA", key)
	}
}
