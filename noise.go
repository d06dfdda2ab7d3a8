package lowpoly

import "math"

// prng is a Park-Miller minimal standard generator. It keeps the grain
// pattern identical between runs.
type prng struct {
	a         int
	m         int
	randomNum int
	div       float64
}

func newPrng() *prng {
	return &prng{
		a:         16807,
		m:         0x7fffffff,
		randomNum: 1,
		div:       1.0 / 0x7fffffff,
	}
}

// Noise applies a grain filter to the canvas, like adobe's grain filter.
func Noise(amount int, c *Canvas) {
	if amount <= 0 {
		return
	}
	prng := newPrng()
	w, h := c.Width(), c.Height()

	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			noise := (prng.randomSeed() - 0.1) * float64(amount)
			col := c.Get(x, y)
			rf, gf, bf := float64(col.R), float64(col.G), float64(col.B)
			// Check if color do not overflow the maximum limit after noise has been applied
			if math.Abs(rf+noise) < 255 && math.Abs(gf+noise) < 255 && math.Abs(bf+noise) < 255 {
				rf += noise
				gf += noise
				bf += noise
			}
			c.Put(x, y, Color{
				R: uint8(Clamp(rf, 0, 255)),
				G: uint8(Clamp(gf, 0, 255)),
				B: uint8(Clamp(bf, 0, 255)),
			})
		}
	}
}

func (prng *prng) nextLongRand(seed int) int {
	lo := prng.a * (seed & 0xffff)
	hi := prng.a * (seed >> 16)
	lo += (hi & 0x7fff) << 16

	if lo > prng.m {
		lo &= prng.m
		lo++
	}
	lo += hi >> 15
	if lo > prng.m {
		lo &= prng.m
		lo++
	}
	return lo
}

func (prng *prng) randomSeed() float64 {
	prng.randomNum = prng.nextLongRand(prng.randomNum)
	return float64(prng.randomNum) * prng.div
}
