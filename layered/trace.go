package layered

import (
	"fmt"

	"github.com/gorgonia/improv/rbm"
)

// cycleTrace is the input state after one generation pass.
type cycleTrace struct {
	cycle  int
	final  bool
	policy rbm.Activation
	units  []byte
}

func (c cycleTrace) String() string {
	if c.final {
		return fmt.Sprintf("final (%v): %v", c.policy, c.units)
	}
	return fmt.Sprintf("cycle %d: %v", c.cycle, c.units)
}
