package slug_test

import (
	"regexp"
	"testing"

	"storefront/pkg/slug"

	"github.com/stretchr/testify/assert"
)

func TestNewOrderSlug_Format(t *testing.T) {
	s := slug.NewOrderSlug()
	assert.Regexp(t, regexp.MustCompile(`^order-\d{8}-[0-9a-f]{8}$`), s)
}

func TestNewOrderSlug_Unique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		s := slug.NewOrderSlug()
		assert.False(t, seen[s], "duplicate slug %s", s)
		seen[s] = true
	}
}
