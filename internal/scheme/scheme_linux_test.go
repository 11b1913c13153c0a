//go:build linux

package scheme

import (
	"fmt"
	"os"
	"syscall"
	"testing"
	"time"
	"unsafe"

	"github.com/stretchr/testify/require"
)

// openPTY allocates a pseudo-terminal pair. The slave is opened through
// syscall.Open so it lacks read-deadline support, the same shape os.Stdin
// has when the process is attached to a real terminal.
func openPTY(t *testing.T) (master, slave *os.File) {
	t.Helper()

	master, err := os.OpenFile("/dev/ptmx", os.O_RDWR, 0)
	if err != nil {
		t.Skipf("no ptmx available: %v", err)
	}
	t.Cleanup(func() { master.Close() })

	var ptn uint32
	if _, _, errno := syscall.Syscall(syscall.SYS_IOCTL, master.Fd(), syscall.TIOCGPTN, uintptr(unsafe.Pointer(&ptn))); errno != 0 {
		t.Skipf("TIOCGPTN failed: %v", errno)
	}
	var unlock int32
	if _, _, errno := syscall.Syscall(syscall.SYS_IOCTL, master.Fd(), syscall.TIOCSPTLCK, uintptr(unsafe.Pointer(&unlock))); errno != 0 {
		t.Skipf("TIOCSPTLCK failed: %v", errno)
	}

	fd, err := syscall.Open(fmt.Sprintf("/dev/pts/%d", ptn), syscall.O_RDWR|syscall.O_NOCTTY, 0)
	if err != nil {
		t.Skipf("opening pty slave failed: %v", err)
	}
	slave = os.NewFile(uintptr(fd), fmt.Sprintf("/dev/pts/%d", ptn))
	t.Cleanup(func() { slave.Close() })

	return master, slave
}

func TestDetect_SilentTerminalHonorsTimeout(t *testing.T) {
	clearDetectionEnv(t)
	t.Setenv("GLIMPSE_BACKGROUND", "light")

	_, slave := openPTY(t)

	// The master side never answers the query, so Detect must give up on
	// its own rather than sit in a blocked read.
	start := time.Now()
	got := Detect(slave, slave, 100*time.Millisecond)
	elapsed := time.Since(start)

	require.Equal(t, Light, got)
	require.Less(t, elapsed, 600*time.Millisecond)
}

func TestDetect_ReadsPTYReply(t *testing.T) {
	clearDetectionEnv(t)

	master, slave := openPTY(t)

	go func() {
		buf := make([]byte, 64)
		_, _ = master.Read(buf)
		_, _ = master.WriteString("\x1b]11;rgb:ffff/ffff/ffff\x1b\\")
	}()

	// A white reply classifies light; the cleared-env fallback is dark, so
	// a pass here proves the reply path ran.
	require.Equal(t, Light, Detect(slave, slave, time.Second))
}
