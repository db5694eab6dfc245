package models

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// DateLayout is the single internal representation of calendar dates.
const DateLayout = "2006-01-02"

var dayFirstPattern = regexp.MustCompile(`^(\d{1,2})[/-](\d{1,2})[/-](\d{4})$`)

// Date is a calendar date without a time component, anchored at UTC midnight.
type Date struct {
	time.Time
}

// NewDate builds a Date for the given day.
func NewDate(year int, month time.Month, day int) Date {
	return Date{Time: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// DateOf truncates t to its calendar day in t's own location.
func DateOf(t time.Time) Date {
	return NewDate(t.Year(), t.Month(), t.Day())
}

// ParseDate accepts DD/MM/YYYY (or DD-MM-YYYY), YYYY-MM-DD and RFC3339 values.
func ParseDate(value string) (Date, error) {
	str := strings.TrimSpace(value)
	if str == "" {
		return Date{}, errors.New("empty date")
	}

	if match := dayFirstPattern.FindStringSubmatch(str); match != nil {
		day, _ := strconv.Atoi(match[1])
		month, _ := strconv.Atoi(match[2])
		year, _ := strconv.Atoi(match[3])
		d := NewDate(year, time.Month(month), day)
		if d.Day() != day || int(d.Month()) != month {
			return Date{}, fmt.Errorf("invalid calendar date %q", value)
		}
		return d, nil
	}

	if t, err := time.Parse(time.RFC3339, str); err == nil {
		return DateOf(t), nil
	}

	if len(str) > len(DateLayout) {
		str = str[:len(DateLayout)]
	}
	t, err := time.Parse(DateLayout, str)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q", value)
	}
	return DateOf(t), nil
}

// ParseOptionalDate returns nil for empty or unparseable input.
func ParseOptionalDate(value string) *Date {
	d, err := ParseDate(value)
	if err != nil {
		return nil
	}
	return &d
}

func (d Date) String() string {
	return d.Format(DateLayout)
}

// MarshalJSON renders the date as "YYYY-MM-DD".
func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(d.String())), nil
}

// UnmarshalJSON accepts every layout ParseDate does.
func (d *Date) UnmarshalJSON(data []byte) error {
	str, err := strconv.Unquote(string(data))
	if err != nil {
		return fmt.Errorf("date must be a string: %w", err)
	}
	parsed, err := ParseDate(str)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
