package cluster

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	ErrNoPoints          = errors.New("no points to cluster")
	ErrTooManyClusters   = errors.New("more clusters than points")
	ErrDimensionMismatch = errors.New("points have different dimensions")
)

// DegenerateClusterError is returned when a centroid has no members to average.
type DegenerateClusterError struct {
	Cluster int
}

func (err DegenerateClusterError) Error() string {
	return fmt.Sprintf("cluster %d has no points", err.Cluster)
}
