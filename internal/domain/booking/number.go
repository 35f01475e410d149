package booking

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// NewNumber produces the human-readable booking number customers quote
// on the phone: date of creation plus a short random suffix.
func NewNumber(now time.Time) string {
	suffix := strings.ToUpper(uuid.NewString()[:6])
	return fmt.Sprintf("CR-%s-%s", now.UTC().Format("20060102"), suffix)
}
