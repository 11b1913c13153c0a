//go:build !linux && !darwin

package browser

import (
	"os"
	"time"
)

// birthTime has no portable source on this platform; epoch marks the
// creation time as unknown and CreatedValid rejects it.
func birthTime(_ string, _ os.FileInfo) time.Time {
	return time.Unix(0, 0)
}
