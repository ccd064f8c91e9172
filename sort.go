package rezip

import (
	"fmt"
	"slices"
	"strings"

	"golang.org/x/text/cases"
)

// Sort controls the order in which entries are written to the new archive.
type Sort int

const (
	// SortNone keeps the source order.
	SortNone Sort = iota
	// SortNormal orders entries by the bytes of their names.
	SortNormal
	// SortIgnoreCase orders entries by the Unicode case-folded form of their names.
	SortIgnoreCase
)

// ParseSort parses the command-line value of a Sort.
func ParseSort(s string) (Sort, error) {
	switch strings.ToLower(s) {
	case "", "none":
		return SortNone, nil
	case "normal":
		return SortNormal, nil
	case "ignore-case":
		return SortIgnoreCase, nil
	default:
		return SortNone, fmt.Errorf("unknown sort: %s", s)
	}
}

func (s Sort) String() string {
	switch s {
	case SortNormal:
		return "normal"
	case SortIgnoreCase:
		return "ignore-case"
	default:
		return "none"
	}
}

// SortDescriptors reorders ds in place.
//
// Descriptors without a name sort before all named descriptors. The sort is stable so descriptors whose keys compare
// equal (such as names differing only by case with SortIgnoreCase) keep their relative source order.
func SortDescriptors(ds []Descriptor, s Sort) {
	switch s {
	case SortNormal:
		slices.SortStableFunc(ds, func(a, b Descriptor) int {
			return compareNames(a.Name, a.Named, b.Name, b.Named)
		})

	case SortIgnoreCase:
		// fold once per descriptor instead of once per comparison.
		fold := cases.Fold()
		keys := make(map[int]string, len(ds))
		for _, d := range ds {
			if d.Named {
				keys[d.Index] = fold.String(d.Name)
			}
		}

		slices.SortStableFunc(ds, func(a, b Descriptor) int {
			return compareNames(keys[a.Index], a.Named, keys[b.Index], b.Named)
		})
	}
}

func compareNames(a string, aOk bool, b string, bOk bool) int {
	switch {
	case !aOk && !bOk:
		return 0
	case !aOk:
		return -1
	case !bOk:
		return 1
	default:
		return strings.Compare(a, b)
	}
}
