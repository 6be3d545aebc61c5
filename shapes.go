package anyenn

import "fmt"

// assertColumn panics unless a tensor contains exactly one
// value per batch row.
func assertColumn(name string, length, rows int) {
	if length != rows {
		panic(fmt.Sprintf("%s length should be %d (one per row), but got %d",
			name, rows, length))
	}
}

// assertEqualLen panics unless two tensors have the same
// length.
func assertEqualLen(name1 string, len1 int, name2 string, len2 int) {
	if len1 != len2 {
		panic(fmt.Sprintf("%s length (%d) should match %s length (%d)",
			name1, len1, name2, len2))
	}
}
