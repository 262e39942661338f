package brackets

import "math"

const (
	lcgMultiplier = 1103515245
	lcgIncrement  = 12345
	lcgMask       = 0x7fffffff
)

// LCG is the seeded linear congruential generator behind schedule draws.
//
// The recurrence is s = (s*1103515245 + 12345) & 0x7fffffff with the product
// evaluated in float64 and wrapped to int32, and each draw is s/0x7fffffff.
// Every persisted seed was drawn with exactly this arithmetic, so any change
// here reshuffles historical schedules.
type LCG struct {
	state int32
}

func NewLCG(seed int) *LCG {
	// Keep the low 32 bits of the admin seed.
	return &LCG{state: int32(seed)}
}

// Next advances the generator and returns a draw in [0, 1].
func (g *LCG) Next() float64 {
	// The explicit conversion stops the compiler from fusing the multiply
	// and the add into one FMA, which would round differently.
	product := float64(float64(g.state) * lcgMultiplier)
	g.state = wrapInt32(product+lcgIncrement) & lcgMask
	return float64(g.state) / lcgMask
}

// Intn returns floor(Next()*n).
func (g *LCG) Intn(n int) int {
	return int(math.Floor(g.Next() * float64(n)))
}

// wrapInt32 truncates f toward zero and reduces it modulo 2^32 into int32.
func wrapInt32(f float64) int32 {
	const two32 = 4294967296.0
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	m := math.Mod(math.Trunc(f), two32)
	if m < 0 {
		m += two32
	}
	return int32(uint32(m))
}
