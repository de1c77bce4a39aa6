package scoring

import (
	"regexp"
	"strconv"
	"strings"
)

// Salary mentions: £45,000 / £45000 / £45k. The k suffix is swallowed here
// and handled by the under-1000 rule below.
var salaryPattern = regexp.MustCompile(`£\s*([\d,]+)\s*(?:k|K)?`)

// Only values in this band are treated as annual salaries; anything else is
// noise (e.g. "£50 per day" or a phone number).
const (
	minPlausibleSalary = 15000
	maxPlausibleSalary = 500000
)

// parseSalaries extracts every plausible annual salary figure from text.
// Values under 1000 are read as thousands ("£45k" → 45000).
func parseSalaries(text string) []int {
	matches := salaryPattern.FindAllStringSubmatch(text, -1)
	if len(matches) == 0 {
		return nil
	}

	var salaries []int
	for _, m := range matches {
		raw := strings.ReplaceAll(m[1], ",", "")
		val, err := strconv.Atoi(raw)
		if err != nil {
			continue
		}
		if val < 1000 {
			val *= 1000
		}
		if val >= minPlausibleSalary && val <= maxPlausibleSalary {
			salaries = append(salaries, val)
		}
	}
	return salaries
}

// salaryBelowMinimum reports whether a stated salary disqualifies the
// posting. For ranges the highest figure is what counts: "£24,000 - £35,000"
// is rejected only if 35,000 is still under the minimum. Postings with no
// parseable salary pass by default: salary not stated is not disqualifying.
func salaryBelowMinimum(text string, minSalary int) bool {
	salaries := parseSalaries(text)
	if len(salaries) == 0 {
		return false
	}

	max := salaries[0]
	for _, s := range salaries[1:] {
		if s > max {
			max = s
		}
	}
	return max < minSalary
}
