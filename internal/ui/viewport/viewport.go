// Package viewport provides the scrolling arithmetic shared by the pager
// and the browser. All functions are pure: callers pass the current totals
// on every render and navigation key, so resizes and content reloads need
// no invalidation protocol here.
package viewport

// MaxOffset returns the largest valid scroll offset, never negative.
func MaxOffset(total, height int) int {
	if total <= height {
		return 0
	}
	return total - height
}

// ClampOffset constrains offset to [0, MaxOffset].
func ClampOffset(offset, total, height int) int {
	if offset < 0 {
		return 0
	}
	if maxOff := MaxOffset(total, height); offset > maxOff {
		return maxOff
	}
	return offset
}

// VisibleRange returns the half-open line range [start, end) visible at the
// given offset. The offset is clamped first.
func VisibleRange(offset, total, height int) (start, end int) {
	start = ClampOffset(offset, total, height)
	end = start + height
	if end > total {
		end = total
	}
	return start, end
}

// ScrollPercent reports how far through the content the viewport is, as an
// integer 0-100. Content that fits entirely is always 100.
func ScrollPercent(offset, total, height int) int {
	maxOff := MaxOffset(total, height)
	if maxOff == 0 {
		return 100
	}
	offset = ClampOffset(offset, total, height)
	return int(float64(offset)/float64(maxOff)*100 + 0.5)
}

// PageSize is the distance of a page-up/down jump: the viewport height
// minus a two-line overlap, but at least one.
func PageSize(height int) int {
	if height <= 3 {
		return 1
	}
	return height - 2
}

// HalfPage is the distance of a half-page jump.
func HalfPage(height int) int {
	half := PageSize(height) / 2
	if half < 1 {
		return 1
	}
	return half
}

// CenteredOffset returns the offset that puts line in the middle of the
// viewport, clamped to the valid range. Used when jumping to a search match.
func CenteredOffset(line, total, height int) int {
	return ClampOffset(line-height/2, total, height)
}
