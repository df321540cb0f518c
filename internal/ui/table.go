package ui

// ColumnWidth returns the nominal width of column i in layout units. It
// depends on the index only, never on content or row count.
func ColumnWidth(i int) int {
	switch i {
	case 0:
		return 140
	case 1:
		return 80
	case 2:
		return 120
	case 3:
		return 100
	}
	return 100
}

// Band returns the banding of body row i.
func Band(i int) string {
	if i%2 == 0 {
		return BandEven
	}
	return BandOdd
}
