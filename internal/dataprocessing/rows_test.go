package dataprocessing

import "testing"

func TestRowExtractor(t *testing.T) {
	extractor := NewRowExtractor()

	tests := []struct {
		name       string
		row        []string
		wantScheme string
		wantValue  float64
		wantOK     bool
	}{
		{
			name:       "valid row with comma separators",
			row:        []string{"1", "Small Cap Fund", "29", "2000", "6,100.00", "2,100.00", "4,000.25", "80,000"},
			wantScheme: "Small Cap Fund",
			wantValue:  4000.25,
			wantOK:     true,
		},
		{
			name:       "negative inflow",
			row:        []string{"2", "Focused Fund", "20", "900", "100.00", "700.00", "-600.00", "9,000"},
			wantScheme: "Focused Fund",
			wantValue:  -600,
			wantOK:     true,
		},
		{
			name:   "empty scheme cell",
			row:    []string{"3", "   ", "1", "2", "3", "4", "5", "6"},
			wantOK: false,
		},
		{
			name:   "row shorter than scheme column",
			row:    []string{"only one cell"},
			wantOK: false,
		},
		{
			name:   "subtotal marker",
			row:    []string{"", "Sub Total", "", "", "", "", "6,000.75", ""},
			wantOK: false,
		},
		{
			name:   "hyphenated subtotal marker",
			row:    []string{"", "Sub-Total", "", "", "", "", "6,000.75", ""},
			wantOK: false,
		},
		{
			name:   "repeated section title",
			row:    []string{"", "Growth/Equity Oriented Schemes", "", "", "", "", "", ""},
			wantOK: false,
		},
		{
			name:   "unparseable value cell",
			row:    []string{"4", "Fund of Funds", "10", "500", "100.00", "400.00", "N.A.", "5,000"},
			wantOK: false,
		},
		{
			name:   "value column missing from ragged row",
			row:    []string{"5", "Mid Cap Fund", "24"},
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			scheme, value, ok := extractor.Extract(tt.row)
			if ok != tt.wantOK {
				t.Fatalf("ok mismatch: want %v, got %v", tt.wantOK, ok)
			}
			if !tt.wantOK {
				return
			}
			if scheme != tt.wantScheme {
				t.Errorf("scheme mismatch: want %q, got %q", tt.wantScheme, scheme)
			}
			if value != tt.wantValue {
				t.Errorf("value mismatch: want %v, got %v", tt.wantValue, value)
			}
		})
	}
}

func TestParseInflow(t *testing.T) {
	tests := []struct {
		in      string
		want    float64
		wantErr bool
	}{
		{"1,234.56", 1234.56, false},
		{"  42 ", 42, false},
		{"-1,000.5", -1000.5, false},
		{"0", 0, false},
		{"", 0, true},
		{"N.A.", 0, true},
		{"12.3.4", 0, true},
	}

	for _, tt := range tests {
		got, err := parseInflow(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("parseInflow(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if err == nil && got != tt.want {
			t.Errorf("parseInflow(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
