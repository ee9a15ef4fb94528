package rbm

import "fmt"

// ConfigurationError is returned when sizes or shapes disagree.
type ConfigurationError struct {
	What             string
	Expected, Actual interface{}
}

func (err ConfigurationError) Error() string {
	return fmt.Sprintf("%s: expected %v, got %v", err.What, err.Expected, err.Actual)
}
