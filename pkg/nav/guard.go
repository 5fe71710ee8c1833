package nav

// ObstacleGuard is the independent forward-distance safety check. It can
// interrupt any driving state except the terminal ones.
type ObstacleGuard struct {
	StopDistanceMM int
}

// Unsafe reports whether a present distance reading is at or inside the
// stop threshold. A missing reading is never unsafe.
func (g ObstacleGuard) Unsafe(distanceMM int, ok bool) bool {
	return ok && distanceMM <= g.StopDistanceMM
}
