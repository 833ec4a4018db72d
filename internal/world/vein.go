package world

// #region block-lookup

// BlockLookup resolves the block name at a position, or "" when the position
// is air, unloaded, or out of sensing range.
type BlockLookup func(BlockPos) string

// #endregion

// #region vein

var veinNeighbors = [6][3]int{
	{1, 0, 0}, {-1, 0, 0},
	{0, 1, 0}, {0, -1, 0},
	{0, 0, 1}, {0, 0, -1},
}

// Vein discovers the connected cluster of same-named blocks containing origin.
// Traversal is an iterative breadth-first walk over 6-adjacency with an
// explicit frontier and visited set, bounded by maxNodes so a large contiguous
// structure can never run away. Returns blocks in discovery order, origin first.
func Vein(origin BlockPos, lookup BlockLookup, maxNodes int) []BlockPos {
	if maxNodes < 1 {
		return nil
	}
	name := lookup(origin)
	if name == "" {
		return nil
	}

	visited := map[BlockPos]bool{origin: true}
	frontier := []BlockPos{origin}
	out := make([]BlockPos, 0, 8)

	for len(frontier) > 0 && len(out) < maxNodes {
		cur := frontier[0]
		frontier = frontier[1:]
		out = append(out, cur)

		for _, d := range veinNeighbors {
			next := cur.Offset(d[0], d[1], d[2])
			if visited[next] {
				continue
			}
			visited[next] = true
			if lookup(next) == name {
				frontier = append(frontier, next)
			}
		}
	}
	return out
}

// #endregion
