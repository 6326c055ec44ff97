package show

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func strPtr(s string) *string { return &s }

func castNames(cast []CastMember) []string {
	names := make([]string, len(cast))
	for i, c := range cast {
		names[i] = c.Name
	}
	return names
}

func TestSortCastByBirthday(t *testing.T) {
	t.Run("ascending with missing birthdays last", func(t *testing.T) {
		cast := []CastMember{
			{ID: 1, Name: "young", Birthday: strPtr("1990-05-01")},
			{ID: 2, Name: "old", Birthday: strPtr("1985-02-02")},
			{ID: 3, Name: "unknown", Birthday: nil},
		}

		SortCastByBirthday(cast)

		assert.Equal(t, []string{"old", "young", "unknown"}, castNames(cast))
	})

	t.Run("unparseable dates count as missing and keep order", func(t *testing.T) {
		cast := []CastMember{
			{Name: "garbled", Birthday: strPtr("sometime in 1970")},
			{Name: "nil", Birthday: nil},
			{Name: "dated", Birthday: strPtr("2001-01-01")},
		}

		SortCastByBirthday(cast)

		assert.Equal(t, []string{"dated", "garbled", "nil"}, castNames(cast))
	})

	t.Run("equal dates are stable", func(t *testing.T) {
		cast := []CastMember{
			{Name: "first", Birthday: strPtr("1970-01-01")},
			{Name: "second", Birthday: strPtr("1970-01-01")},
			{Name: "earliest", Birthday: strPtr("1960-01-01")},
		}

		SortCastByBirthday(cast)

		assert.Equal(t, []string{"earliest", "first", "second"}, castNames(cast))
	})
}
