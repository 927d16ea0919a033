package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestExtractYear(t *testing.T) {
	assert.Equal(t, "2026", extractYear("January 21-23, 2026"))
	assert.Equal(t, "1999", extractYear("held 1999"))
	assert.Equal(t, fallbackYear, extractYear("sometime soon"))
	assert.Equal(t, fallbackYear, extractYear(""))
}

func TestIssuedParts(t *testing.T) {
	day, month, year := issuedParts("January 21-23, 2026")
	assert.Equal(t, 23, day)
	assert.Equal(t, "January", month)
	assert.Equal(t, "2026", year)

	day, month, year = issuedParts("nonsense")
	assert.Equal(t, 0, day)
	assert.Equal(t, "", month)
	assert.Equal(t, fallbackYear, year)
}

func TestOrdinal(t *testing.T) {
	cases := map[int]string{
		1: "1st", 2: "2nd", 3: "3rd", 4: "4th",
		11: "11th", 12: "12th", 13: "13th",
		21: "21st", 22: "22nd", 23: "23rd", 101: "101st", 111: "111th",
	}
	for n, want := range cases {
		assert.Equal(t, want, ordinal(n))
	}
}

func TestRangeEndDate(t *testing.T) {
	end, ok := rangeEndDate("January 21-23, 2026")
	assert.True(t, ok)
	assert.Equal(t, time.Date(2026, time.January, 23, 0, 0, 0, 0, time.UTC), end)

	end, ok = rangeEndDate("January 21, 2024")
	assert.True(t, ok)
	assert.Equal(t, time.Date(2024, time.January, 21, 0, 0, 0, 0, time.UTC), end)

	// The end of a cross-month range carries its own month.
	end, ok = rangeEndDate("January 30 - February 1, 2026")
	assert.True(t, ok)
	assert.Equal(t, time.February, end.Month())

	_, ok = rangeEndDate("TBD")
	assert.False(t, ok)
	_, ok = rangeEndDate("")
	assert.False(t, ok)
}

func TestRenewalDate(t *testing.T) {
	assert.Equal(t, "January 23, 2026", renewalDate("January 21, 2024"))
	assert.Equal(t, "January 25, 2028", renewalDate("January 21-23, 2026"))
	assert.Equal(t, "N/A", renewalDate("TBD"))
	assert.Equal(t, "N/A", renewalDate(""))
}

func TestBatchSortTime(t *testing.T) {
	jan := batchSortTime("January 21-23, 2026")
	assert.Equal(t, time.Date(2026, time.January, 21, 0, 0, 0, 0, time.UTC), jan)

	mar := batchSortTime("March 5, 2026")
	assert.True(t, jan.Before(mar))

	epoch := time.Unix(0, 0).UTC()
	assert.Equal(t, epoch, batchSortTime("TBD"))
	assert.Equal(t, epoch, batchSortTime(""))
	assert.Equal(t, epoch, batchSortTime("January 21"))
}
