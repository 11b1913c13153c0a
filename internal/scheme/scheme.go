// Package scheme determines whether the terminal background is light or dark.
//
// Detection is a two-step protocol: an active OSC 11 background-color query
// with a bounded timeout, falling back to environment heuristics when the
// terminal never answers or stdin is not a TTY. Detection never fails; the
// worst case is the dark default.
package scheme

import (
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"golang.org/x/term"

	"github.com/zjrosen/glimpse/internal/log"
)

// Scheme is the light/dark classification of the terminal background,
// independent of which palette is in use.
type Scheme int

const (
	Dark Scheme = iota
	Light
)

func (s Scheme) String() string {
	if s == Light {
		return "light"
	}
	return "dark"
}

// DefaultTimeout bounds the wait for the terminal's OSC 11 reply.
const DefaultTimeout = 200 * time.Millisecond

// queryBackground asks the terminal for its background color (OSC 11).
const queryBackground = "\x1b]11;?\x1b\\"

// Detect classifies the terminal background, preferring an active OSC 11
// round trip over environment heuristics.
//
// The input is put into raw mode for the duration of the query so the reply
// does not echo; prior state is always restored, whether the reply arrives
// or the timeout fires. Detect never returns an error: any failure path
// resolves to DetectFromEnv.
func Detect(in, out *os.File, timeout time.Duration) Scheme {
	if in == nil || out == nil || !term.IsTerminal(int(in.Fd())) {
		return DetectFromEnv()
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	oldState, err := term.MakeRaw(int(in.Fd()))
	if err != nil {
		log.Warn(log.CatScheme, "Raw mode unavailable, using env fallback", "error", err)
		return DetectFromEnv()
	}
	defer func() { _ = term.Restore(int(in.Fd()), oldState) }()

	if _, err := out.WriteString(queryBackground); err != nil {
		return DetectFromEnv()
	}

	deadline := time.Now().Add(timeout)
	if err := in.SetReadDeadline(deadline); err == nil {
		defer func() { _ = in.SetReadDeadline(time.Time{}) }()
		if s, ok := readReply(in, deadline); ok {
			return s
		}
		log.Debug(log.CatScheme, "No OSC 11 reply within timeout, using env fallback")
		return DetectFromEnv()
	}

	// Blocking tty fds, os.Stdin among them, reject read deadlines, so the
	// read itself cannot be interrupted. Race it against the clock instead;
	// when the terminal never answers, the reader stays parked on the fd.
	return detectBlocking(in, timeout)
}

// readReply accumulates terminal input until the OSC 11 reply parses, a
// read fails, or the deadline passes.
func readReply(in *os.File, deadline time.Time) (Scheme, bool) {
	var reply []byte
	chunk := make([]byte, 64)
	for time.Now().Before(deadline) {
		n, err := in.Read(chunk)
		if n > 0 {
			reply = append(reply, chunk[:n]...)
			if r, g, b, ok := ParseOSC11(string(reply)); ok {
				s := Classify(r, g, b)
				log.Debug(log.CatScheme, "Terminal replied to OSC 11",
					"r", r, "g", g, "b", b, "scheme", s)
				return s, true
			}
		}
		if err != nil {
			break
		}
	}
	return Dark, false
}

// detectBlocking runs the reply read on its own goroutine and abandons it
// when the timeout fires, keeping startup latency bounded even on fds
// whose reads cannot be unblocked.
func detectBlocking(in io.Reader, timeout time.Duration) Scheme {
	replies := make(chan Scheme, 1)
	go func() {
		var reply []byte
		chunk := make([]byte, 64)
		for {
			n, err := in.Read(chunk)
			if n > 0 {
				reply = append(reply, chunk[:n]...)
				if r, g, b, ok := ParseOSC11(string(reply)); ok {
					s := Classify(r, g, b)
					log.Debug(log.CatScheme, "Terminal replied to OSC 11",
						"r", r, "g", g, "b", b, "scheme", s)
					replies <- s
					return
				}
			}
			if err != nil {
				return
			}
		}
	}()

	select {
	case s := <-replies:
		return s
	case <-time.After(timeout):
		log.Debug(log.CatScheme, "No OSC 11 reply within timeout, using env fallback")
		return DetectFromEnv()
	}
}

// DetectFromEnv classifies the background from environment variables only.
// Used directly when an asynchronous terminal round trip is not possible.
//
// Heuristics, in order: explicit GLIMPSE_BACKGROUND override, COLORFGBG
// (last numeric field, values above 7 are light), profile-name substring
// matches, known terminal-program defaults. Defaults to dark.
func DetectFromEnv() Scheme {
	switch strings.ToLower(os.Getenv("GLIMPSE_BACKGROUND")) {
	case "light":
		return Light
	case "dark":
		return Dark
	}

	if s, ok := fromColorFgBg(os.Getenv("COLORFGBG")); ok {
		return s
	}

	for _, v := range []string{os.Getenv("ITERM_PROFILE"), os.Getenv("TERM_PROFILE")} {
		lower := strings.ToLower(v)
		if strings.Contains(lower, "light") {
			return Light
		}
		if strings.Contains(lower, "dark") {
			return Dark
		}
	}

	// Apple's Terminal.app ships with a white default profile.
	if os.Getenv("TERM_PROGRAM") == "Apple_Terminal" {
		return Light
	}

	return Dark
}

// fromColorFgBg parses the COLORFGBG convention ("foreground;background",
// e.g. "15;0"). Background colors 0-7 are dark, 8-15 light.
func fromColorFgBg(value string) (Scheme, bool) {
	if value == "" {
		return Dark, false
	}
	parts := strings.Split(value, ";")
	bg, err := strconv.Atoi(strings.TrimSpace(parts[len(parts)-1]))
	if err != nil {
		return Dark, false
	}
	if bg > 7 {
		return Light, true
	}
	return Dark, true
}

// Luminance returns perceived luminance in [0,1] for 8-bit channels.
func Luminance(r, g, b uint8) float64 {
	return (0.299*float64(r) + 0.587*float64(g) + 0.114*float64(b)) / 255
}

// Classify maps a background color to a scheme. The boundary is exclusive:
// a luminance of exactly 0.5 is dark.
func Classify(r, g, b uint8) Scheme {
	if Luminance(r, g, b) > 0.5 {
		return Light
	}
	return Dark
}
