package models

// DateFields holds the raw day, month and year slices of a "DD/MM/YYYY"
// spreadsheet cell. The parts are not validated; callers compare them as text.
type DateFields struct {
	Day   string
	Month string
	Year  string
}

// SplitDate cuts s at fixed character offsets: day [0,2), month [3,5),
// year [6,10). Offsets count runes, not bytes, so a cell with accented text
// before the year still lines up. Separators are not checked. Cells shorter
// than 10 characters are reported as unusable.
func SplitDate(s string) (DateFields, bool) {
	r := []rune(s)
	if len(r) < 10 {
		return DateFields{}, false
	}
	return DateFields{
		Day:   string(r[0:2]),
		Month: string(r[3:5]),
		Year:  string(r[6:10]),
	}, true
}
