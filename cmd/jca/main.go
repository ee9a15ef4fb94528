// Command jca clusters a handful of 2D points with k-means and prints the
// clusters.
package main

import (
	"flag"
	"fmt"

	"github.com/gorgonia/improv/cluster"
	log "github.com/sirupsen/logrus"
)

var (
	k       = flag.Int("k", 2, "number of clusters")
	maxIter = flag.Int("iter", cluster.DefaultMaxIterations, "maximum refinement iterations")
)

func main() {
	flag.Parse()
	points := []*cluster.DataPoint{
		cluster.NewDataPoint([]float32{22, 21}, 1),
		cluster.NewDataPoint([]float32{2, 70}, 2),
		cluster.NewDataPoint([]float32{23, 71}, 3),
		cluster.NewDataPoint([]float32{4, 21}, 4),
		cluster.NewDataPoint([]float32{22, 21}, 5),
	}

	km, err := cluster.New(*k, *maxIter, points)
	if err != nil {
		log.Fatal(err)
	}
	if err = km.Run(); err != nil {
		log.Fatal(err)
	}

	for _, c := range km.Clusters() {
		fmt.Println(c)
	}
	for i, out := range km.Output() {
		fmt.Printf("%d: %v\n", i, out)
	}
	fmt.Printf("SWCSS %.3f after %d iterations\n", km.SWCSS(), km.Iterations())
}
