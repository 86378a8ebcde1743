package utils

import "fmt"

// FormatOrderReference renders a sequence number as the business
// reference printed on face-to-face orders, e.g. FP00000042.
func FormatOrderReference(n int64) string {
	return fmt.Sprintf("FP%08d", n)
}
