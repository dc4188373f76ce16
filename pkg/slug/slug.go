// Package slug generates the human-readable, URL-safe identifiers used
// for orders. Slugs are generated on the client side of the backend call
// so they exist before the row does.
package slug

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// NewOrderSlug returns a slug of the form "order-20060102-xxxxxxxx".
// The date keeps it human-readable, the uuid-derived suffix keeps it
// unique without a server round-trip.
func NewOrderSlug() string {
	suffix := strings.SplitN(uuid.New().String(), "-", 2)[0]
	return fmt.Sprintf("order-%s-%s", time.Now().Format("20060102"), suffix)
}
