package chip8

// xoroshiro128+ (https://prng.di.unimi.it/). Kept local so a given seed yields
// the same RND sequence on every platform and Go release.
type xoroshiro struct {
	lo, hi uint64
}

// DefaultSeed is the initial xoroshiro128+ state.
var DefaultSeed = [2]uint64{0x357638792F423F45, 0x635266556A586E32}

func rotl(v uint64, n uint) uint64 { return v<<n | v>>(64-n) }

func (r *xoroshiro) next() uint64 {
	lo, hi := r.lo, r.hi
	out := lo + hi
	hi ^= lo
	r.lo = rotl(lo, 24) ^ hi ^ (hi << 16)
	r.hi = rotl(hi, 37)
	return out
}

// nextByte returns the top 8 bits, the best mixed ones of xoroshiro128+.
func (r *xoroshiro) nextByte() byte { return byte(r.next() >> 56) }
