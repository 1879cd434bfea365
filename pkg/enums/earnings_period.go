package enums

import "fmt"

// EarningsPeriod selects the aggregation window of an earnings summary.
type EarningsPeriod string

const (
	EarningsPeriodToday EarningsPeriod = "today"
	EarningsPeriodWeek  EarningsPeriod = "week"
	EarningsPeriodMonth EarningsPeriod = "month"
	EarningsPeriodAll   EarningsPeriod = "all"
)

var validEarningsPeriods = []EarningsPeriod{
	EarningsPeriodToday,
	EarningsPeriodWeek,
	EarningsPeriodMonth,
	EarningsPeriodAll,
}

// String implements fmt.Stringer.
func (e EarningsPeriod) String() string {
	return string(e)
}

// IsValid reports whether the value matches a known EarningsPeriod.
func (e EarningsPeriod) IsValid() bool {
	for _, candidate := range validEarningsPeriods {
		if candidate == e {
			return true
		}
	}
	return false
}

// ParseEarningsPeriod converts raw input into an EarningsPeriod.
func ParseEarningsPeriod(value string) (EarningsPeriod, error) {
	for _, candidate := range validEarningsPeriods {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid earnings period %q", value)
}
