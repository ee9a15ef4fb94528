package cluster

import (
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"gorgonia.org/vecf32"
)

// KMeans partitions points into k clusters.
//
// Centroids start evenly spaced on the diagonal of the points' bounding box and
// points are dealt to clusters round robin. Refinement then visits the clusters
// in order, and the points of each cluster in order. A point moves to the first
// cluster whose centroid is strictly closer than its own; every move recomputes
// all centroids. A point moved into a later cluster is visited again when
// that cluster's turn comes. Refinement stops when a full pass leaves every
// cluster's ordered membership unchanged, or after maxIterations passes.
type KMeans struct {
	k, maxIterations int
	points           []*DataPoint
	clusters         []*Cluster

	swcss      float64
	history    []float64
	iterations int
}

// New checks the points and creates a clusterer. Points must be non-empty,
// of one dimension, and at least k in number.
func New(k, maxIterations int, points []*DataPoint) (*KMeans, error) {
	if k < 1 {
		return nil, errors.Errorf("k must be at least 1, got %d", k)
	}
	if len(points) == 0 {
		return nil, errors.WithStack(ErrNoPoints)
	}
	if k > len(points) {
		return nil, errors.Wrapf(ErrTooManyClusters, "k %d, %d points", k, len(points))
	}
	dim := len(points[0].Vector)
	for _, p := range points {
		if len(p.Vector) != dim {
			return nil, errors.Wrapf(ErrDimensionMismatch, "point %d has %d dimensions, expected %d", p.ID, len(p.Vector), dim)
		}
	}
	return &KMeans{
		k:             k,
		maxIterations: maxIterations,
		points:        points,
	}, nil
}

// Run clusters the points. It may be called again; every run starts over.
func (km *KMeans) Run() error {
	km.seed()
	for i, p := range km.points {
		km.clusters[i%km.k].add(p)
	}
	km.calcSWCSS()
	if err := km.recompute(); err != nil {
		return err
	}

	for km.iterations = 0; km.iterations < km.maxIterations; {
		prev := km.snapshot()
		if err := km.refine(); err != nil {
			return err
		}
		km.iterations++
		if km.unchanged(prev) {
			break
		}
	}
	log.WithFields(log.Fields{
		"k":          km.k,
		"points":     len(km.points),
		"iterations": km.iterations,
		"swcss":      km.swcss,
	}).Debug("clustering done")
	return nil
}

func (km *KMeans) seed() {
	first := km.points[0].Vector
	lo := make([]float32, len(first))
	hi := make([]float32, len(first))
	copy(lo, first)
	copy(hi, first)
	for _, p := range km.points[1:] {
		vecf32.Min(lo, p.Vector)
		vecf32.Max(hi, p.Vector)
	}

	km.clusters = make([]*Cluster, km.k)
	km.history = nil
	km.swcss = 0
	for n := 1; n <= km.k; n++ {
		centroid := make([]float32, len(hi))
		copy(centroid, hi)
		vecf32.Sub(centroid, lo)
		vecf32.ScaleInv(centroid, float32(km.k+1))
		vecf32.Scale(centroid, float32(n))
		vecf32.Add(centroid, lo)
		km.clusters[n-1] = newCluster(n-1, centroid)
	}
}

func (km *KMeans) refine() error {
	for _, c := range km.clusters {
		for i := 0; i < len(c.Points); {
			p := c.Points[i]
			best := p.dist
			var target *Cluster
			for _, d := range km.clusters {
				if dist := p.DistanceTo(d.Centroid); dist < best {
					best = dist
					target = d
				}
			}
			if target == nil {
				i++
				continue
			}

			target.add(p)
			c.removeAt(i)
			if err := km.recompute(); err != nil {
				return err
			}
		}
	}
	return nil
}

func (km *KMeans) recompute() error {
	for _, c := range km.clusters {
		if err := c.Centroid.Recompute(); err != nil {
			return err
		}
	}
	km.calcSWCSS()
	return nil
}

func (km *KMeans) calcSWCSS() {
	var sum float64
	for _, c := range km.clusters {
		sum += c.sumSq
	}
	km.swcss = sum
	km.history = append(km.history, sum)
}

func (km *KMeans) snapshot() [][]int {
	retVal := make([][]int, len(km.clusters))
	for i, c := range km.clusters {
		retVal[i] = c.IDs()
	}
	return retVal
}

func (km *KMeans) unchanged(prev [][]int) bool {
	for i, c := range km.clusters {
		if !sameIDs(prev[i], c.IDs()) {
			return false
		}
	}
	return true
}

// K is the number of clusters.
func (km *KMeans) K() int { return km.k }

// Clusters returns the clusters of the last run.
func (km *KMeans) Clusters() []*Cluster { return km.clusters }

// Output returns the members of every cluster, in cluster order.
func (km *KMeans) Output() [][]*DataPoint {
	retVal := make([][]*DataPoint, len(km.clusters))
	for i, c := range km.clusters {
		retVal[i] = append([]*DataPoint(nil), c.Points...)
	}
	return retVal
}

// SWCSS is the sum of squared distances of every point to its centroid.
func (km *KMeans) SWCSS() float64 { return km.swcss }

// History is the SWCSS after the initial assignment, after the first centroid
// update and after every move. The returned slice is a copy.
func (km *KMeans) History() []float64 {
	retVal := make([]float64, len(km.history))
	copy(retVal, km.history)
	return retVal
}

// Iterations is the number of refinement passes of the last run.
func (km *KMeans) Iterations() int { return km.iterations }
