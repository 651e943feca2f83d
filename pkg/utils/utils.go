package utils

import (
	"fmt"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/shopspring/decimal"
)

// DateLayout is the calendar-day format used for every business date.
const DateLayout = "2006-01-02"

// UnknownDriver names vehicles that were recorded without a driver.
const UnknownDriver = "未知司机"

// RoundMoney rounds to cents, half away from zero.
func RoundMoney(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// LineAmount is weight × unit price rounded to cents.
func LineAmount(weight, price decimal.Decimal) decimal.Decimal {
	return RoundMoney(weight.Mul(price))
}

// FloorZero clamps negative values to zero.
func FloorZero(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}

// Today returns the current calendar day in DateLayout.
func Today() string {
	return time.Now().Format(DateLayout)
}

// DateOrToday returns date, or today's date when it is blank.
func DateOrToday(date string) string {
	if strings.TrimSpace(date) == "" {
		return Today()
	}
	return date
}

// IsDate reports whether s parses as a DateLayout date.
func IsDate(s string) bool {
	_, err := time.Parse(DateLayout, s)
	return err == nil
}

// NormalizeDriverName trims the name and substitutes UnknownDriver for blanks.
func NormalizeDriverName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return UnknownDriver
	}
	return name
}

// DriverIDFromName derives the id of a driver that has no roster entry.
// The digest is stable across processes and restarts.
func DriverIDFromName(name string) string {
	return fmt.Sprintf("drv_%016x", xxhash.Sum64String(NormalizeDriverName(name)))
}
