package show

import (
	"slices"
	"time"
)

const birthdayLayout = "2006-01-02"

// SortCastByBirthday orders members oldest first. Members without a
// parseable birthday go last; ties keep their input order.
func SortCastByBirthday(cast []CastMember) {
	slices.SortStableFunc(cast, func(a, b CastMember) int {
		ta, okA := parseBirthday(a.Birthday)
		tb, okB := parseBirthday(b.Birthday)
		switch {
		case okA && okB:
			return ta.Compare(tb)
		case okA:
			return -1
		case okB:
			return 1
		default:
			return 0
		}
	})
}

func parseBirthday(s *string) (time.Time, bool) {
	if s == nil {
		return time.Time{}, false
	}
	t, err := time.Parse(birthdayLayout, *s)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
