package registry

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/matzehuels/patchbay/pkg/porttype"
)

// Library descriptor schema. Block-discovery tooling emits files like:
//
//	blocks:
//	  - id: Const
//	    category: Sources
//	    outputs: [float]
//	    params:
//	      - name: value
//	        type: float
//	        default: 0.0
//	  - id: Sink
//	    category: Sinks
//	    inputs: [float]
type libraryFile struct {
	Blocks []blockDescriptor `yaml:"blocks"`
}

type blockDescriptor struct {
	ID       string            `yaml:"id"`
	Category string            `yaml:"category"`
	Inputs   []string          `yaml:"inputs"`
	Outputs  []string          `yaml:"outputs"`
	Params   []paramDescriptor `yaml:"params"`
}

type paramDescriptor struct {
	Name    string   `yaml:"name"`
	Type    string   `yaml:"type"`
	Default any      `yaml:"default"`
	Min     *float64 `yaml:"min"`
	Max     *float64 `yaml:"max"`
	Choices []string `yaml:"choices"`
}

var paramKindByName = map[string]ParamKind{
	"int":    ParamInt,
	"float":  ParamFloat,
	"bool":   ParamBool,
	"string": ParamString,
	"enum":   ParamEnum,
}

// LoadLibrary reads a YAML block-library descriptor and registers every block
// it declares, in file order. Registration stops at the first error so a
// malformed library never half-populates a fresh registry silently.
func LoadLibrary(r *Registry, reader io.Reader) (int, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return 0, fmt.Errorf("read library: %w", err)
	}

	var lib libraryFile
	if err := yaml.Unmarshal(data, &lib); err != nil {
		return 0, fmt.Errorf("parse library: %w", err)
	}

	for i, b := range lib.Blocks {
		tmpl, err := templateFromDescriptor(b)
		if err != nil {
			return i, fmt.Errorf("block %d (%s): %w", i, b.ID, err)
		}
		if err := r.Register(b.ID, tmpl); err != nil {
			return i, err
		}
	}
	return len(lib.Blocks), nil
}

// LoadLibraryFile reads a block-library descriptor from a file path.
func LoadLibraryFile(r *Registry, path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return LoadLibrary(r, f)
}

func templateFromDescriptor(b blockDescriptor) (Template, error) {
	tmpl := Template{Category: b.Category}

	for _, s := range b.Inputs {
		typ := porttype.Parse(s)
		if !typ.IsValid() {
			return Template{}, fmt.Errorf("invalid input type %q", s)
		}
		tmpl.Inputs = append(tmpl.Inputs, typ)
	}
	for _, s := range b.Outputs {
		typ := porttype.Parse(s)
		if !typ.IsValid() {
			return Template{}, fmt.Errorf("invalid output type %q", s)
		}
		tmpl.Outputs = append(tmpl.Outputs, typ)
	}

	for _, p := range b.Params {
		kind, ok := paramKindByName[p.Type]
		if !ok {
			return Template{}, fmt.Errorf("parameter %q: unknown type %q", p.Name, p.Type)
		}
		tmpl.Params = append(tmpl.Params, ParamDef{
			Name:    p.Name,
			Kind:    kind,
			Default: p.Default,
			Min:     p.Min,
			Max:     p.Max,
			Choices: p.Choices,
		})
	}
	return tmpl, nil
}
