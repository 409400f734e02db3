// internal/application/usecase/common_usecase.go
package usecase

import (
	"errors"
	"strings"
	"time"
)

var ErrForbidden = errors.New("usecase: forbidden")

// nowFunc is swapped in tests.
type nowFunc func() time.Time

func utcNow() time.Time { return time.Now().UTC() }

func trimPtr(p *string) *string {
	if p == nil {
		return nil
	}
	v := strings.TrimSpace(*p)
	return &v
}
