package registry

import (
	"fmt"
	"slices"

	"github.com/matzehuels/patchbay/pkg/porttype"
)

// ParamKind enumerates the value types a node parameter can hold.
type ParamKind int

const (
	// ParamInt holds an int64 value.
	ParamInt ParamKind = iota + 1
	// ParamFloat holds a float64 value.
	ParamFloat
	// ParamBool holds a bool value.
	ParamBool
	// ParamString holds a string value.
	ParamString
	// ParamEnum holds one string out of a fixed choice list.
	ParamEnum
)

var paramKindNames = map[ParamKind]string{
	ParamInt:    "int",
	ParamFloat:  "float",
	ParamBool:   "bool",
	ParamString: "string",
	ParamEnum:   "enum",
}

// String returns the lowercase name of the parameter kind.
func (k ParamKind) String() string {
	if s, ok := paramKindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("paramkind(%d)", int(k))
}

// ParamDef declares a single node parameter: its name, value kind, default,
// and optional numeric or enum constraints. Min/Max apply to int and float
// parameters only; Choices applies to enum parameters only.
type ParamDef struct {
	Name    string
	Kind    ParamKind
	Default any
	Min     *float64
	Max     *float64
	Choices []string
}

// Normalize validates a candidate value against the definition and returns it
// in canonical form (int64, float64, bool, or string). Numeric inputs accept
// the loose types produced by JSON and YAML decoding (int, float64 with an
// integral value, etc.). Returns an error describing the first violation.
func (p ParamDef) Normalize(v any) (any, error) {
	switch p.Kind {
	case ParamInt:
		n, ok := toInt64(v)
		if !ok {
			return nil, fmt.Errorf("parameter %q: expected int, got %T", p.Name, v)
		}
		if err := p.checkRange(float64(n)); err != nil {
			return nil, err
		}
		return n, nil
	case ParamFloat:
		f, ok := toFloat64(v)
		if !ok {
			return nil, fmt.Errorf("parameter %q: expected float, got %T", p.Name, v)
		}
		if err := p.checkRange(f); err != nil {
			return nil, err
		}
		return f, nil
	case ParamBool:
		b, ok := v.(bool)
		if !ok {
			return nil, fmt.Errorf("parameter %q: expected bool, got %T", p.Name, v)
		}
		return b, nil
	case ParamString:
		s, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("parameter %q: expected string, got %T", p.Name, v)
		}
		return s, nil
	case ParamEnum:
		s, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("parameter %q: expected enum string, got %T", p.Name, v)
		}
		if !slices.Contains(p.Choices, s) {
			return nil, fmt.Errorf("parameter %q: %q is not one of %v", p.Name, s, p.Choices)
		}
		return s, nil
	default:
		return nil, fmt.Errorf("parameter %q: unknown kind %v", p.Name, p.Kind)
	}
}

func (p ParamDef) checkRange(f float64) error {
	if p.Min != nil && f < *p.Min {
		return fmt.Errorf("parameter %q: %v below minimum %v", p.Name, f, *p.Min)
	}
	if p.Max != nil && f > *p.Max {
		return fmt.Errorf("parameter %q: %v above maximum %v", p.Name, f, *p.Max)
	}
	return nil
}

func toInt64(v any) (int64, bool) {
	switch n := v.(type) {
	case int:
		return int64(n), true
	case int32:
		return int64(n), true
	case int64:
		return n, true
	case uint64:
		return int64(n), true
	case float64:
		if n == float64(int64(n)) {
			return int64(n), true
		}
	case float32:
		if float64(n) == float64(int64(n)) {
			return int64(n), true
		}
	}
	return 0, false
}

func toFloat64(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	}
	return 0, false
}

// Template is an immutable description of a block type: the ports and
// parameters every instantiated node starts with. Registered templates are
// never handed out directly; [Registry.Instantiate] returns deep copies.
type Template struct {
	Category string
	Inputs   []porttype.Type
	Outputs  []porttype.Type
	Params   []ParamDef
}

// Clone returns a deep copy of the template. Port type slices and parameter
// definitions are copied so the caller can mutate the result freely.
func (t Template) Clone() Template {
	out := Template{
		Category: t.Category,
		Inputs:   slices.Clone(t.Inputs),
		Outputs:  slices.Clone(t.Outputs),
		Params:   make([]ParamDef, len(t.Params)),
	}
	for i, p := range t.Params {
		cp := p
		if p.Min != nil {
			m := *p.Min
			cp.Min = &m
		}
		if p.Max != nil {
			m := *p.Max
			cp.Max = &m
		}
		cp.Choices = slices.Clone(p.Choices)
		out.Params[i] = cp
	}
	return out
}

// Param returns the definition with the given name and true, or a zero
// definition and false if no parameter has that name.
func (t Template) Param(name string) (ParamDef, bool) {
	for _, p := range t.Params {
		if p.Name == name {
			return p, true
		}
	}
	return ParamDef{}, false
}

// DefaultParams builds the initial parameter map for a fresh node, running
// every declared default through Normalize so templates with malformed
// defaults are caught at instantiation time.
func (t Template) DefaultParams() (map[string]any, error) {
	params := make(map[string]any, len(t.Params))
	for _, p := range t.Params {
		if p.Default == nil {
			continue
		}
		v, err := p.Normalize(p.Default)
		if err != nil {
			return nil, fmt.Errorf("default value: %w", err)
		}
		params[p.Name] = v
	}
	return params, nil
}

// Validate checks that the template is internally consistent: all port types
// valid, parameter names unique and non-empty, enum parameters with choices.
func (t Template) Validate() error {
	for i, typ := range t.Inputs {
		if !typ.IsValid() {
			return fmt.Errorf("input %d: invalid port type", i)
		}
	}
	for i, typ := range t.Outputs {
		if !typ.IsValid() {
			return fmt.Errorf("output %d: invalid port type", i)
		}
	}
	seen := make(map[string]bool, len(t.Params))
	for _, p := range t.Params {
		if p.Name == "" {
			return fmt.Errorf("parameter with empty name")
		}
		if seen[p.Name] {
			return fmt.Errorf("duplicate parameter %q", p.Name)
		}
		seen[p.Name] = true
		if p.Kind == ParamEnum && len(p.Choices) == 0 {
			return fmt.Errorf("parameter %q: enum without choices", p.Name)
		}
		if p.Default != nil {
			if _, err := p.Normalize(p.Default); err != nil {
				return fmt.Errorf("default value: %w", err)
			}
		}
	}
	return nil
}
