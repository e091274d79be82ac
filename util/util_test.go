package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetStringListAsBatch(t *testing.T) {
	batch1 := GetStringListAsBatch([]string{"1", "2", "3", "4"}, 2)
	assert.Len(t, batch1, 2)
	assert.Len(t, batch1[0], 2)
	assert.Len(t, batch1[1], 2)

	batch2 := GetStringListAsBatch([]string{"1", "2", "3"}, 2)
	assert.Len(t, batch2, 2)
	assert.Len(t, batch2[1], 1)
	assert.Equal(t, "1", batch2[0][0])
	assert.Equal(t, "2", batch2[0][1])
	assert.Equal(t, "3", batch2[1][0])

	assert.Empty(t, GetStringListAsBatch([]string{}, 2))

	batch3 := GetStringListAsBatch([]string{"1"}, 9)
	assert.Len(t, batch3, 1)
	assert.Len(t, batch3[0], 1)
}

func TestGetNumberFromAnyString(t *testing.T) {
	assert.Equal(t, float64(10), GetNumberFromAnyString("10"))
	assert.Equal(t, 10.25, GetNumberFromAnyString("10.25"))
	assert.Equal(t, 12.34, GetNumberFromAnyString("12.34%"))
	assert.Equal(t, -2.5, GetNumberFromAnyString("-2.5"))
	assert.Equal(t, float64(0), GetNumberFromAnyString("no number here"))
	assert.Equal(t, float64(0), GetNumberFromAnyString(""))
}

func TestSafeConvertToFloat64(t *testing.T) {
	assert.Equal(t, 1.5, SafeConvertToFloat64(1.5))
	assert.Equal(t, float64(3), SafeConvertToFloat64(3))
	assert.Equal(t, float64(4), SafeConvertToFloat64(int64(4)))
	assert.Equal(t, 12.34, SafeConvertToFloat64("12.34%"))
	assert.Equal(t, float64(0), SafeConvertToFloat64(nil))
	assert.Equal(t, float64(0), SafeConvertToFloat64([]string{"1"}))
}

func TestStringSliceDiff(t *testing.T) {
	diff := StringSliceDiff([]string{"a", "b", "c"}, []string{"b"})
	assert.Equal(t, []string{"a", "c"}, diff)

	assert.Empty(t, StringSliceDiff([]string{"a"}, []string{"a"}))
	assert.Equal(t, []string{"a"}, StringSliceDiff([]string{"a"}, []string{}))
}

func TestDedupStrings(t *testing.T) {
	deduped := DedupStrings([]string{"a", "b", "a", "c", "b"})
	assert.Equal(t, []string{"a", "b", "c"}, deduped)

	assert.Empty(t, DedupStrings([]string{}))
}
