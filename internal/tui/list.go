package tui

// Pure list helpers shared by the scrolling screens.

// LoadMoreThreshold is the fraction of the list left below the cursor at
// which the next page is requested.
const LoadMoreThreshold = 0.2

// MoveCursor computes new cursor position within bounds.
func MoveCursor(cursor, delta, itemCount int) int {
	if itemCount == 0 {
		return 0
	}
	newCursor := cursor + delta
	if newCursor < 0 {
		return 0
	}
	if newCursor >= itemCount {
		return itemCount - 1
	}
	return newCursor
}

// AdjustOffset ensures cursor is visible within viewport.
func AdjustOffset(cursor, offset, visibleHeight int) int {
	if visibleHeight < 1 {
		visibleHeight = 1
	}
	if cursor < offset {
		return cursor
	}
	if cursor >= offset+visibleHeight {
		return cursor - visibleHeight + 1
	}
	return offset
}

// NearEnd reports whether cursor sits within the last threshold fraction
// of itemCount items. The last item always counts.
func NearEnd(cursor, itemCount int, threshold float64) bool {
	if itemCount == 0 {
		return false
	}
	tail := int(float64(itemCount) * threshold)
	if tail < 1 {
		tail = 1
	}
	return cursor >= itemCount-tail
}
