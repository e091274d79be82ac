package util

import (
	"regexp"
	"strconv"

	"github.com/google/uuid"
)

var numberRegexp = regexp.MustCompile(`[+-]?([0-9]*[.])?[0-9]+`)

// GetNumberFromAnyString - Extracts the first numeric value from the given string.
// Returns 0 when the string has no parseable number.
func GetNumberFromAnyString(str string) float64 {
	numStr := string(numberRegexp.Find([]byte(str)))

	num, err := strconv.ParseFloat(numStr, 64)
	if err != nil {
		return 0
	}

	return num
}

// SafeConvertToFloat64 Converts an interface to float64 value.
func SafeConvertToFloat64(value interface{}) float64 {
	if value == nil {
		return 0
	}

	switch v := value.(type) {
	case float64:
		return v
	case float32:
		return float64(v)
	case int:
		return float64(v)
	case int64:
		return float64(v)
	case uint64:
		return float64(v)
	case string:
		return GetNumberFromAnyString(v)
	default:
		return 0
	}
}

func GetUUID() string {
	return uuid.New().String()
}

func MinInt(a int, b int) int {
	if a < b {
		return a
	}
	return b
}

// GetStringListAsBatch - Returns list of string as batches of string list.
func GetStringListAsBatch(list []string, batchSize int) [][]string {
	batchList := make([][]string, 0, 0)
	listLen := len(list)
	for i := 0; i < listLen; {
		next := i + batchSize
		if next > listLen {
			next = listLen
		}

		batchList = append(batchList, list[i:next])
		i = next
	}

	return batchList
}
