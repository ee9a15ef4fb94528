package layered

import (
	"fmt"

	"github.com/awalterschulze/gographviz"
)

// ToDot renders the layer topology as a graphviz digraph. Untrained layers are
// dashed.
func (n *Network) ToDot() string {
	g := gographviz.NewGraph()
	if err := g.SetName("G"); err != nil {
		panic(err)
	}
	g.SetDir(true)
	g.AddAttr("G", "rankdir", "BT")

	label := fmt.Sprintf(`"input\n%d units, %d groups"`, n.InputLength, len(n.input.Groups()))
	g.AddNode("G", "input", map[string]string{
		"shape": "box",
		"label": label,
	})

	prev := "input"
	for i, l := range n.layers {
		name := fmt.Sprintf("h%d", i)
		attrs := map[string]string{
			"shape": "box",
			"label": fmt.Sprintf(`"layer %d\n%d units"`, i, l.NumHidden()),
		}
		if !n.trained[i] {
			attrs["style"] = "dashed"
		}
		g.AddNode("G", name, attrs)
		g.AddEdge(prev, name, true, map[string]string{
			"label": fmt.Sprintf(`"%dx%d"`, l.NumVisible()+1, l.NumHidden()+1),
		})
		prev = name
	}
	return g.String()
}
