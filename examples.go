package improv

import (
	"bytes"
	"fmt"

	"github.com/gorgonia/improv/melody"
	"github.com/pkg/errors"
)

type manyErr []error

func (err manyErr) Error() string {
	var buf bytes.Buffer
	for _, e := range err {
		fmt.Fprintln(&buf, e.Error())
	}
	return buf.String()
}

// Errors returns every problem found in err, or err itself.
func Errors(err error) []error {
	if me, ok := errors.Cause(err).(manyErr); ok {
		return []error(me)
	}
	if err == nil {
		return nil
	}
	return []error{err}
}

// examples checks every vessel against the brain's shape and flattens them into
// training examples. Every bad vessel is reported.
func (conf Config) examples(vessels []*melody.Vessel) ([][]byte, error) {
	if len(vessels) == 0 {
		return nil, errors.New("no vessels to learn from")
	}
	cols := conf.Encoding.Columns()
	var errs manyErr
	retVal := make([][]byte, 0, len(vessels))
	for i, v := range vessels {
		switch {
		case v == nil:
			errs = append(errs, errors.Errorf("vessel %d is nil", i))
			continue
		case v.Rows != conf.Rows || v.Cols != cols:
			errs = append(errs, errors.Errorf("vessel %d is %dx%d, expected %dx%d", i, v.Rows, v.Cols, conf.Rows, cols))
			continue
		case len(v.Melody) != conf.MelodyLength():
			errs = append(errs, errors.Errorf("vessel %d has %d melody bits, expected %d", i, len(v.Melody), conf.MelodyLength()))
			continue
		case v.ChordRows() != conf.Rows || len(v.Chords)%melody.NumChordColumns != 0:
			errs = append(errs, errors.Errorf("vessel %d has %d chord bits, expected %d", i, len(v.Chords), conf.Rows*melody.NumChordColumns))
			continue
		}
		data := v.Data()
		if j := nonBinary(data); j >= 0 {
			errs = append(errs, errors.Errorf("vessel %d has a non binary value at %d", i, j))
			continue
		}
		retVal = append(retVal, data)
	}
	if len(errs) > 0 {
		return nil, errs
	}
	return retVal, nil
}

func nonBinary(a []byte) int {
	for i, v := range a {
		if v > 1 {
			return i
		}
	}
	return -1
}
