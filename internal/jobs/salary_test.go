package jobs

import "testing"

func TestExtractSalary(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want int64
		none bool
	}{
		{name: "range takes the minimum", raw: "$50,000 - $70,000", want: 50000},
		{name: "plain number with label", raw: "Salary: 60000 USD", want: 60000},
		{name: "no number", raw: "Competitive salary", none: true},
		{name: "per-year suffix", raw: "$120,000/year", want: 120000},
		{name: "empty", raw: "", none: true},
		{name: "small numbers skipped", raw: "3 years experience, pays $95,000", want: 95000},
		{name: "below plausibility threshold", raw: "top 10 company, 500 employees", none: true},
		{name: "no comma grouping", raw: "$85000 and up", want: 85000},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExtractSalary(tt.raw)
			if tt.none {
				if got != nil {
					t.Fatalf("ExtractSalary(%q) = %d, want nil", tt.raw, *got)
				}
				return
			}
			if got == nil {
				t.Fatalf("ExtractSalary(%q) = nil, want %d", tt.raw, tt.want)
			}
			if *got != tt.want {
				t.Errorf("ExtractSalary(%q) = %d, want %d", tt.raw, *got, tt.want)
			}
		})
	}
}
