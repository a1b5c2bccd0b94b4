package ephem

import "testing"

func TestLookupPlatform_Known(t *testing.T) {
	tests := []struct {
		input    string
		expected TargetID
	}{
		{"JWST", NAIFJWST},
		{"jwst", NAIFJWST},
		{"webb", NAIFJWST}, // alias
		{"James Webb Space Telescope", NAIFJWST},
		{"HST", NAIFHubble},
		{"CXO", NAIFChandra}, // alias
		{"-170", NAIFJWST},
		{" TESS ", NAIFTESS},
	}

	for _, tc := range tests {
		t.Run(tc.input, func(t *testing.T) {
			got, ok := LookupPlatform(tc.input)
			if !ok {
				t.Fatalf("LookupPlatform(%q) ok=false", tc.input)
			}
			if got.NAIFID != tc.expected {
				t.Errorf("LookupPlatform(%q) = %d, want %d", tc.input, got.NAIFID, tc.expected)
			}
		})
	}
}

func TestLookupPlatform_NumericUnknown(t *testing.T) {
	p, ok := LookupPlatform("-999")
	if !ok {
		t.Fatal("numeric NAIF ID should be accepted")
	}
	if p.NAIFID != -999 {
		t.Errorf("NAIFID = %d, want -999", p.NAIFID)
	}

	if _, ok := LookupPlatform("0"); ok {
		t.Error("NAIF ID 0 should be rejected")
	}
}

func TestLookupPlatform_Unknown(t *testing.T) {
	if _, ok := LookupPlatform("UNKNOWN123"); ok {
		t.Error("LookupPlatform(UNKNOWN123) ok=true, want false")
	}
}

func TestPlatformsByNAIF_Coverage(t *testing.T) {
	for _, p := range Platforms {
		if _, ok := PlatformsByNAIF[p.NAIFID]; !ok {
			t.Errorf("Platform %s (NAIF %d) missing from PlatformsByNAIF", p.Code, p.NAIFID)
		}
	}
}

func TestPlatformsByCode_Coverage(t *testing.T) {
	for _, p := range Platforms {
		if _, ok := PlatformsByCode[p.Code]; !ok {
			t.Errorf("Platform %s missing from PlatformsByCode", p.Code)
		}
		for _, alias := range p.Aliases {
			if _, ok := PlatformsByCode[alias]; !ok {
				t.Errorf("Alias %s for %s missing from PlatformsByCode", alias, p.Code)
			}
		}
	}
}

func TestPlatformCodesUnique(t *testing.T) {
	seen := make(map[string]bool)
	for _, p := range Platforms {
		if seen[p.Code] {
			t.Errorf("duplicate platform code %s", p.Code)
		}
		seen[p.Code] = true
	}
}
