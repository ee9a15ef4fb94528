package cluster

import (
	"fmt"
	"math"
)

// DataPoint is a vector tagged with an ID. It remembers the cluster it belongs
// to and its distance to that cluster's centroid.
type DataPoint struct {
	ID     int
	Vector []float32

	cluster *Cluster
	dist    float64
}

func NewDataPoint(vec []float32, id int) *DataPoint {
	return &DataPoint{ID: id, Vector: vec}
}

// Cluster returns the cluster p belongs to, or nil before clustering.
func (p *DataPoint) Cluster() *Cluster { return p.cluster }

// Distance is the cached Euclidean distance to the centroid of p's cluster.
func (p *DataPoint) Distance() float64 { return p.dist }

func (p *DataPoint) String() string { return fmt.Sprintf("%d%v", p.ID, p.Vector) }

// DistanceTo computes the Euclidean distance from p to c.
func (p *DataPoint) DistanceTo(c *Centroid) float64 { return euclidean(p.Vector, c.Vector) }

func (p *DataPoint) setCluster(c *Cluster) {
	p.cluster = c
	p.refresh()
}

func (p *DataPoint) refresh() { p.dist = p.DistanceTo(p.cluster.Centroid) }

func euclidean(a, b []float32) float64 {
	var sum float64
	for i := range a {
		d := float64(a[i]) - float64(b[i])
		sum += d * d
	}
	return math.Sqrt(sum)
}
