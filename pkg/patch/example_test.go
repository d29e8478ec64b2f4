package patch_test

import (
	"fmt"

	"github.com/matzehuels/patchbay/pkg/patch"
	"github.com/matzehuels/patchbay/pkg/porttype"
	"github.com/matzehuels/patchbay/pkg/registry"
)

func Example() {
	// Block definitions normally arrive from a discovery feed; register two
	// by hand here.
	reg := registry.New()
	_ = reg.Register("Const", registry.Template{
		Category: "Sources",
		Outputs:  []porttype.Type{porttype.Float()},
		Params: []registry.ParamDef{
			{Name: "value", Kind: registry.ParamFloat, Default: 0.0},
		},
	})
	_ = reg.Register("Sink", registry.Template{
		Category: "Sinks",
		Inputs:   []porttype.Type{porttype.Float()},
	})

	p := patch.New(reg, porttype.DefaultRules())

	src, _ := p.AddNode("Const", patch.Point{X: 0, Y: 0})
	dst, _ := p.AddNode("Sink", patch.Point{X: 200, Y: 0})

	res, err := p.Connect(patch.Output(src, 0), patch.Input(dst, 0))
	fmt.Println("connected:", err == nil)

	_ = p.SetParameter(src, "value", 1.5)

	removed, _ := p.RemoveNode(src)
	fmt.Println("links removed with source:", len(removed) == 1 && removed[0] == res.Link)
	fmt.Println("sink input free:", p.InDegree(patch.Input(dst, 0)) == 0)
	// Output:
	// connected: true
	// links removed with source: true
	// sink input free: true
}
