package universe

import "math/rand/v2"

//RandThreshold is the probability threshold used by RandGen, a cell is alive when the sample exceeds it
const RandThreshold = 0.4995

//RandSource returns uniformly distributed numbers in [0, 1)
type RandSource func() float64

//NewRandSource creates a deterministic source for the given seed
func NewRandSource(seed int64) RandSource {
	r := rand.New(rand.NewPCG(uint64(seed), 0))
	return r.Float64
}

//RandGen regenerates every cell from the source r
func (u *Universe) RandGen(r RandSource) {
	for i := 0; i < u.size(); i++ {
		u.cells.Set(i, r() > RandThreshold)
	}
	u.ticked = false
}
