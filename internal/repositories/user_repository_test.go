package repositories

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateCompanyCodeFormat(t *testing.T) {
	pattern := regexp.MustCompile(`^CMP-[0-9A-F]{6}$`)
	seen := make(map[string]bool)

	for i := 0; i < 100; i++ {
		code := GenerateCompanyCode()
		assert.Regexp(t, pattern, code)
		seen[code] = true
	}

	// 100 draws from a 16^6 space should essentially never collide.
	assert.Greater(t, len(seen), 95)
}
