package util

func ContainsStringInArray(s []string, e string) bool {
	for _, a := range s {
		if a == e {
			return true
		}
	}
	return false
}

// StringSliceDiff returns the elements of sliceA that are not present in sliceB,
// preserving sliceA's order.
func StringSliceDiff(sliceA, sliceB []string) []string {
	if len(sliceA) == 0 || len(sliceB) == 0 {
		return sliceA
	}

	sliceBMap := make(map[string]int)
	for index, value := range sliceB {
		sliceBMap[value] = index
	}

	var diffSlice []string
	for _, value := range sliceA {
		_, found := sliceBMap[value]
		if !found {
			diffSlice = append(diffSlice, value)
		}
	}
	return diffSlice
}

// DedupStrings returns the list with duplicates removed, first occurrence wins.
func DedupStrings(list []string) []string {
	seen := make(map[string]bool, len(list))
	deduped := make([]string, 0, len(list))
	for _, value := range list {
		if seen[value] {
			continue
		}
		seen[value] = true
		deduped = append(deduped, value)
	}
	return deduped
}
