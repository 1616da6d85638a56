package util

import (
	"testing"
)

func TestValidateMonth_Valid(t *testing.T) {
	for _, m := range []string{"2024-03", "1999-12", "2024-00", "2024-99"} {
		if err := ValidateMonth(m); err != nil {
			t.Errorf("ValidateMonth(%q) error = %v, want nil", m, err)
		}
	}
}

func TestValidateMonth_Invalid(t *testing.T) {
	testCases := []string{
		"",
		"2024-3",
		"24-03",
		"2024/03",
		"2024-03-01",
		"march",
		" 2024-03",
	}

	for _, m := range testCases {
		if err := ValidateMonth(m); err == nil {
			t.Errorf("ValidateMonth(%q) error = nil, want error", m)
		}
	}
}

func TestValidateDate_Valid(t *testing.T) {
	testCases := []string{
		"2024-01-01",
		"2024-12-31",
		"2024-02-31", // shape only, no calendar check
		"2024-03-05T10:00:00.000Z",
	}

	for _, date := range testCases {
		if err := ValidateDate(date); err != nil {
			t.Errorf("ValidateDate(%q) error = %v, want nil", date, err)
		}
	}
}

func TestValidateDate_InvalidFormat(t *testing.T) {
	testCases := []string{
		"",
		"2024/01/01",
		"01-01-2024",
		"2024-1-1",
		"not-a-date",
	}

	for _, date := range testCases {
		if err := ValidateDate(date); err == nil {
			t.Errorf("ValidateDate(%q) error = nil, want error", date)
		}
	}
}

func TestMonthBounds(t *testing.T) {
	start, end := MonthBounds("2024-02")
	if start != "2024-02-01" || end != "2024-02-31" {
		t.Fatalf("MonthBounds = %q, %q", start, end)
	}
}
