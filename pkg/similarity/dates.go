package similarity

import "strconv"

// ExtractYear returns the first run of 4 consecutive digits in s as a year.
// The second result is false when s contains no such run.
func ExtractYear(s string) (int, bool) {
	digits := 0
	for i, r := range s {
		if r >= '0' && r <= '9' {
			digits++
			if digits == 4 {
				year, err := strconv.Atoi(s[i-3 : i+1])
				if err != nil {
					return 0, false
				}
				return year, true
			}
		} else {
			digits = 0
		}
	}
	return 0, false
}

// DatesMatch reports exact, non-empty full-string equality of two partial
// ISO dates.
func DatesMatch(a, b string) bool {
	return a != "" && a == b
}

// YearsMatch reports whether both dates carry a year and the years are equal.
func YearsMatch(a, b string) bool {
	ya, okA := ExtractYear(a)
	yb, okB := ExtractYear(b)
	return okA && okB && ya == yb
}

// YearsClose reports whether both dates carry a year and the years differ by
// at most tolerance.
func YearsClose(a, b string, tolerance int) bool {
	ya, okA := ExtractYear(a)
	yb, okB := ExtractYear(b)
	if !okA || !okB {
		return false
	}
	diff := ya - yb
	if diff < 0 {
		diff = -diff
	}
	return diff <= tolerance
}
