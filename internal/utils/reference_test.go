package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatOrderReference(t *testing.T) {
	assert.Equal(t, "FP00000001", FormatOrderReference(1))
	assert.Equal(t, "FP00000042", FormatOrderReference(42))
	assert.Equal(t, "FP99999999", FormatOrderReference(99999999))
	// Wider than the pad still renders in full.
	assert.Equal(t, "FP100000000", FormatOrderReference(100000000))
}
