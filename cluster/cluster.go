package cluster

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
	"gorgonia.org/vecf32"
)

// Centroid is the mean of a cluster's members.
type Centroid struct {
	Vector  []float32
	cluster *Cluster
}

// Recompute sets the centroid to the mean of its cluster's members, then
// refreshes every member's cached distance and the cluster's sum of squares.
func (c *Centroid) Recompute() error {
	members := c.cluster.Points
	if len(members) == 0 {
		return errors.WithStack(DegenerateClusterError{Cluster: c.cluster.ID})
	}
	mean := make([]float32, len(c.Vector))
	for _, p := range members {
		vecf32.Add(mean, p.Vector)
	}
	vecf32.ScaleInv(mean, float32(len(members)))
	copy(c.Vector, mean)

	for _, p := range members {
		p.refresh()
	}
	c.cluster.calcSumSquares()
	return nil
}

// Cluster is a set of points around a centroid. Points are kept in the order
// they joined.
type Cluster struct {
	ID       int
	Centroid *Centroid
	Points   []*DataPoint

	sumSq float64
}

func newCluster(id int, centroid []float32) *Cluster {
	c := &Cluster{ID: id}
	c.Centroid = &Centroid{Vector: centroid, cluster: c}
	return c
}

func (c *Cluster) add(p *DataPoint) {
	p.setCluster(c)
	c.Points = append(c.Points, p)
	c.calcSumSquares()
}

func (c *Cluster) removeAt(i int) {
	copy(c.Points[i:], c.Points[i+1:])
	c.Points[len(c.Points)-1] = nil
	c.Points = c.Points[:len(c.Points)-1]
	c.calcSumSquares()
}

func (c *Cluster) calcSumSquares() {
	var sum float64
	for _, p := range c.Points {
		sum += p.dist * p.dist
	}
	c.sumSq = sum
}

// SumSquares is the sum of squared distances of the members to the centroid.
func (c *Cluster) SumSquares() float64 { return c.sumSq }

// IDs lists the member IDs in order.
func (c *Cluster) IDs() []int {
	retVal := make([]int, len(c.Points))
	for i, p := range c.Points {
		retVal[i] = p.ID
	}
	return retVal
}

// Equal reports whether both clusters hold the same IDs in the same order.
func (c *Cluster) Equal(other *Cluster) bool {
	return sameIDs(c.IDs(), other.IDs())
}

func sameIDs(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func (c *Cluster) String() string {
	var buf strings.Builder
	fmt.Fprintf(&buf, "Cluster %d:", c.ID)
	for _, id := range c.IDs() {
		fmt.Fprintf(&buf, " %d", id)
	}
	return buf.String()
}
