package parser

import (
	"reflect"
	"testing"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want []string
	}{
		{
			name: "simple query",
			raw:  "rust engineer",
			want: []string{"rust", "engineer"},
		},
		{
			name: "same normalization as indexing",
			raw:  "Senior C++/Go Developer!",
			want: []string{"senior", "c", "go", "developer"},
		},
		{
			name: "duplicates collapse to first occurrence",
			raw:  "go Go backend GO",
			want: []string{"go", "backend"},
		},
		{
			name: "stop words removed",
			raw:  "engineer of the year",
			want: []string{"engineer", "year"},
		},
		{
			name: "empty string",
			raw:  "",
			want: nil,
		},
		{
			name: "whitespace only",
			raw:  "   \t\n  ",
			want: nil,
		},
		{
			name: "all stop words",
			raw:  "the a an and",
			want: nil,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := Parse(tt.raw)
			if q.Raw != tt.raw {
				t.Errorf("Raw = %q, want %q", q.Raw, tt.raw)
			}
			if !reflect.DeepEqual(q.Terms, tt.want) {
				t.Errorf("Terms = %v, want %v", q.Terms, tt.want)
			}
		})
	}
}

func TestParseEmpty(t *testing.T) {
	if !Parse("").Empty() {
		t.Error("Parse(\"\").Empty() = false, want true")
	}
	if !Parse("the and of").Empty() {
		t.Error("stop-word-only query should be empty")
	}
	if Parse("rust").Empty() {
		t.Error("Parse(\"rust\").Empty() = true, want false")
	}
}
