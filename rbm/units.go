package rbm

// Units is a vector of binary unit states. The last element is the bias unit,
// which is always 1 and is never sampled.
//
// Two machines may hold the same Units: the hidden units of one layer are the
// visible units of the next.
type Units []byte

// NewUnits creates n units plus the bias unit.
func NewUnits(n int) Units {
	retVal := make(Units, n+1)
	retVal[n] = 1
	return retVal
}

// Len is the number of non-bias units.
func (u Units) Len() int { return len(u) - 1 }

// Bias is the index of the bias unit.
func (u Units) Bias() int { return len(u) - 1 }

// Values returns the non-bias units. The returned slice shares memory with u.
func (u Units) Values() []byte { return u[:len(u)-1] }

// Clone copies the non-bias values into a fresh slice.
func (u Units) Clone() []byte {
	retVal := make([]byte, u.Len())
	copy(retVal, u)
	return retVal
}

// Load copies in into the non-bias units, up to the shorter of the two lengths.
func (u Units) Load(in []byte) { copy(u.Values(), in) }

// Float32s returns the states as floats, bias included.
func (u Units) Float32s(prealloc []float32) []float32 {
	if len(prealloc) != len(u) {
		prealloc = make([]float32, len(u))
	}
	for i, v := range u {
		prealloc[i] = float32(v)
	}
	return prealloc
}
