package util

import (
	"fmt"
	"regexp"
)

var (
	monthRe = regexp.MustCompile(`^\d{4}-\d{2}$`)
	dateRe  = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}`)
)

// ValidateMonth checks the YYYY-MM shape. The values are not range checked.
func ValidateMonth(month string) error {
	if !monthRe.MatchString(month) {
		return fmt.Errorf("invalid month %q, want YYYY-MM", month)
	}
	return nil
}

// ValidateDate checks that s starts with YYYY-MM-DD. Anything after the day
// (a time part) is allowed, and the day itself is not checked against a
// calendar.
func ValidateDate(s string) error {
	if s == "" {
		return fmt.Errorf("date is empty")
	}
	if !dateRe.MatchString(s) {
		return fmt.Errorf("invalid date %q, want YYYY-MM-DD", s)
	}
	return nil
}

// MonthBounds returns the inclusive string bounds used to select a month's
// dates: "<month>-01" and "<month>-31".
func MonthBounds(month string) (start, end string) {
	return month + "-01", month + "-31"
}
