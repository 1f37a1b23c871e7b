package jobs

import (
	"regexp"
	"strconv"
	"strings"
)

// salaryPattern matches numbers that may use comma grouping, optionally
// preceded by a dollar sign (e.g. "$50,000" or "50000").
var salaryPattern = regexp.MustCompile(`\$?(\d{1,3}(?:,\d{3})*|\d+)`)

// minPlausibleSalary filters out numbers that are clearly not salaries
// (years of experience, list counts, and the like).
const minPlausibleSalary = 1000

// ExtractSalary pulls the first plausible salary figure out of free-form
// listing text, which for a range like "$50,000 - $70,000" is the minimum.
// It returns nil when no number at or above the plausibility threshold is
// found.
func ExtractSalary(raw string) *int64 {
	for _, match := range salaryPattern.FindAllStringSubmatch(raw, -1) {
		digits := strings.ReplaceAll(match[1], ",", "")
		n, err := strconv.ParseInt(digits, 10, 64)
		if err != nil {
			continue
		}
		if n >= minPlausibleSalary {
			return &n
		}
	}
	return nil
}
