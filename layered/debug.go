//go:build debug
// +build debug

package layered

import (
	"strings"
	"sync"

	"github.com/gorgonia/improv/rbm"
)

// lumberjack keeps the per-pass trace of the last generation run.
type lumberjack struct {
	sync.Mutex
	records []cycleTrace
}

func makeLumberJack() *lumberjack { return new(lumberjack) }

// record stores c. The units are copied before record returns.
func (l *lumberjack) record(c cycleTrace, units rbm.Units) {
	c.units = units.Clone()
	l.Lock()
	l.records = append(l.records, c)
	l.Unlock()
}

func (l *lumberjack) reset() {
	l.Lock()
	l.records = l.records[:0]
	l.Unlock()
}

func (l *lumberjack) trace() []cycleTrace {
	l.Lock()
	defer l.Unlock()
	retVal := make([]cycleTrace, len(l.records))
	copy(retVal, l.records)
	return retVal
}

func (l *lumberjack) Log() string {
	var buf strings.Builder
	for _, c := range l.trace() {
		buf.WriteString(c.String())
		buf.WriteByte('\n')
	}
	return buf.String()
}
