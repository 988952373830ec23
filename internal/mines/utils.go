package mines

func clamp(v, lo, hi int) int {
	return max(lo, min(v, hi))
}
