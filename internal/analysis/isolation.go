package analysis

// Isolated reports whether the touch at position i has no other touch within
// nPre candles before it or nPost candles after it. Windows shrink naturally
// at the series boundaries.
func Isolated(touches []Side, i, nPre, nPost int) bool {
	start := i - nPre
	if start < 0 {
		start = 0
	}
	for j := start; j < i; j++ {
		if touches[j] != SideNone {
			return false
		}
	}

	end := i + nPost
	if end > len(touches)-1 {
		end = len(touches) - 1
	}
	for j := i + 1; j <= end; j++ {
		if touches[j] != SideNone {
			return false
		}
	}

	return true
}
