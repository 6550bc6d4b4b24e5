package worldgen

// mixSeedBlock derives a deterministic draw in [0, 2^64) for one block
// position, used to choose between a cell's primary and secondary biome.
// Pure function of (chunk_pos, local_pos); independent of dimension seed
// since the biome draw only needs to be stable within a single chunk.
func mixSeedBlock(cx, cy int32, localX, localY int) uint64 {
	h := uint64(0xcbf29ce484222325) // FNV-1a offset basis
	mix := func(v uint64) {
		h ^= v
		h *= 0x100000001b3
	}
	mix(uint64(uint32(cx)))
	mix(uint64(uint32(cy)))
	mix(uint64(uint32(localX)))
	mix(uint64(uint32(localY)))
	return h
}
