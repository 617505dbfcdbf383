package sde

// NeighborOffset returns the index k sites away from i on a ring of n
// sites, always in [0, n).
func NeighborOffset(i, k, n int) int {
	return ((i+k)%n + n) % n
}
