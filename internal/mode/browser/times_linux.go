//go:build linux

package browser

import (
	"os"
	"syscall"
	"time"
)

// birthTime approximates the creation time from the inode change time.
// Linux does not expose a portable birth time; Ctim is the closest stat
// field and is validated by Entry.CreatedValid before display.
func birthTime(_ string, info os.FileInfo) time.Time {
	st, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return time.Unix(0, 0)
	}
	return time.Unix(st.Ctim.Sec, st.Ctim.Nsec)
}
