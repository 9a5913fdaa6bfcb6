package repository

import (
	"fmt"
	"strconv"
	"strings"
)

// Status filter values
const (
	StatusInStock    = "stock"
	StatusDispatched = "dispatched"
)

// ReportFilter describes the optional predicates of an inventory or dispatch
// report. Zero values mean "no constraint". All fields are exact matches
// except TimeRange, an "HH-HH" hour-of-day window that may wrap past
// midnight to cover overnight shifts.
type ReportFilter struct {
	PipeName string
	Size     string
	Color    string
	// Status is "stock", "dispatched" or empty; any other value applies no
	// constraint.
	Status string
	// Date restricts to one calendar day (YYYY-MM-DD) of the selected date
	// column, ignoring time of day.
	Date string
	// TimeRange is "HH-HH" with hours 0-23. Malformed values are ignored.
	TimeRange string
	// Dispatch selects dispatched_at as the date column and implicitly
	// requires it to be non-null.
	Dispatch bool
}

// DateColumn returns the column the report filters and sorts by. The two
// candidates form a closed set; caller input never reaches the query text.
func (f ReportFilter) DateColumn() string {
	if f.Dispatch {
		return "dispatched_at"
	}
	return "created_at"
}

// Where renders the filter as a conjunctive predicate with bound parameters.
// Only the date column name is interpolated, and only from the closed
// two-column set above; every literal value is bound.
func (f ReportFilter) Where() (string, []interface{}) {
	conditions := []string{"1=1"}
	var params []interface{}

	if f.PipeName != "" {
		conditions = append(conditions, "pipe_name = ?")
		params = append(params, f.PipeName)
	}
	if f.Size != "" {
		conditions = append(conditions, "size = ?")
		params = append(params, f.Size)
	}
	if f.Color != "" {
		conditions = append(conditions, "color = ?")
		params = append(params, f.Color)
	}

	switch f.Status {
	case StatusInStock:
		conditions = append(conditions, "dispatched_at IS NULL")
	case StatusDispatched:
		conditions = append(conditions, "dispatched_at IS NOT NULL")
	}

	dateCol := f.DateColumn()

	if f.Date != "" {
		conditions = append(conditions, fmt.Sprintf("date(%s) = ?", dateCol))
		params = append(params, f.Date)
	}

	if start, end, ok := parseHourRange(f.TimeRange); ok {
		hour := fmt.Sprintf("CAST(strftime('%%H', %s) AS INTEGER)", dateCol)
		if start < end {
			conditions = append(conditions, fmt.Sprintf("%s >= ? AND %s < ?", hour, hour))
		} else {
			// Overnight shift: the window wraps past midnight.
			conditions = append(conditions, fmt.Sprintf("(%s >= ? OR %s < ?)", hour, hour))
		}
		params = append(params, start, end)
	}

	if f.Dispatch {
		conditions = append(conditions, "dispatched_at IS NOT NULL")
	}

	return strings.Join(conditions, " AND "), params
}

// parseHourRange parses "HH-HH". Malformed or out-of-range input reports
// ok=false and the filter is simply not applied; bad shift strings must not
// break a report.
func parseHourRange(s string) (start, end int, ok bool) {
	if s == "" {
		return 0, 0, false
	}
	first, second, found := strings.Cut(s, "-")
	if !found {
		return 0, 0, false
	}
	start, err := strconv.Atoi(strings.TrimSpace(first))
	if err != nil {
		return 0, 0, false
	}
	end, err = strconv.Atoi(strings.TrimSpace(second))
	if err != nil {
		return 0, 0, false
	}
	if start < 0 || start > 23 || end < 0 || end > 23 {
		return 0, 0, false
	}
	return start, end, true
}
