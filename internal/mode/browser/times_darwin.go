//go:build darwin

package browser

import (
	"os"
	"syscall"
	"time"
)

// birthTime returns the true file birth time, which APFS/HFS+ expose.
func birthTime(_ string, info os.FileInfo) time.Time {
	st, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return time.Unix(0, 0)
	}
	return time.Unix(st.Birthtimespec.Sec, st.Birthtimespec.Nsec)
}
