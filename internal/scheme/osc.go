package scheme

import (
	"regexp"
	"strconv"
	"strings"
)

// Terminals supporting mode 2031 report system theme flips while the
// program runs. The report (CSI ? 997 ; Pn n) and any unsolicited OSC 11
// reply arrive on the same channel as keystrokes, so the UI must recognize
// them before ordinary key dispatch.
const (
	EnableReports  = "\x1b[?2031h"
	DisableReports = "\x1b[?2031l"
)

// osc11Pattern matches an OSC 11 color reply with 1-4 hex digits per
// channel. Terminals conventionally answer with 16 bits per channel.
var osc11Pattern = regexp.MustCompile(`\]11;rgb:([0-9a-fA-F]{1,4})/([0-9a-fA-F]{1,4})/([0-9a-fA-F]{1,4})`)

// themeReportPattern matches a DSR theme report: 1 is dark, 2 is light.
var themeReportPattern = regexp.MustCompile(`\[\?997;([12])n`)

// ParseOSC11 extracts 8-bit RGB channels from an OSC 11 reply anywhere in s.
func ParseOSC11(s string) (r, g, b uint8, ok bool) {
	m := osc11Pattern.FindStringSubmatch(s)
	if m == nil {
		return 0, 0, 0, false
	}
	return scaleChannel(m[1]), scaleChannel(m[2]), scaleChannel(m[3]), true
}

// scaleChannel converts a 1-4 hex digit channel to 8 bits.
func scaleChannel(hex string) uint8 {
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return 0
	}
	maxVal := uint64(1)<<(4*len(hex)) - 1
	return uint8(v * 0xFF / maxVal)
}

// ParseNotification decodes a terminal theme notification that leaked into
// the input stream as ordinary runes. Bubble Tea delivers unsolicited
// escape replies as rune sequences, so both sessions check every key event
// against this before mode-specific handling.
func ParseNotification(runes []rune) (Scheme, bool) {
	if len(runes) < 4 {
		return Dark, false
	}
	s := string(runes)

	if m := themeReportPattern.FindStringSubmatch(s); m != nil {
		if m[1] == "2" {
			return Light, true
		}
		return Dark, true
	}

	if strings.Contains(s, "]11;") {
		if r, g, b, ok := ParseOSC11(s); ok {
			return Classify(r, g, b), true
		}
	}

	return Dark, false
}
