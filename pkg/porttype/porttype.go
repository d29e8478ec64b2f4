package porttype

import "fmt"

// Kind enumerates the built-in port data kinds.
type Kind int

const (
	// KindInvalid is the zero value and never compatible with anything.
	KindInvalid Kind = iota
	// KindBit is a single-bit stream.
	KindBit
	// KindByte is an 8-bit unsigned stream.
	KindByte
	// KindInt is a signed integer stream.
	KindInt
	// KindFloat is a real-valued floating point stream.
	KindFloat
	// KindComplex is a complex-valued floating point stream.
	KindComplex
	// KindMessage is an asynchronous message port.
	KindMessage
	// KindCustom is an opaque type identified by name only.
	KindCustom
)

var kindNames = map[Kind]string{
	KindInvalid: "invalid",
	KindBit:     "bit",
	KindByte:    "byte",
	KindInt:     "int",
	KindFloat:   "float",
	KindComplex: "complex",
	KindMessage: "message",
	KindCustom:  "custom",
}

// String returns the lowercase name of the kind.
func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Type identifies the data type of a port. The zero value is invalid.
// Types are comparable values: two types are identical when their Kind
// matches and, for custom types, their Name matches.
type Type struct {
	Kind Kind
	Name string // set only for KindCustom
}

// Bit returns the bit stream type.
func Bit() Type { return Type{Kind: KindBit} }

// Byte returns the byte stream type.
func Byte() Type { return Type{Kind: KindByte} }

// Int returns the integer stream type.
func Int() Type { return Type{Kind: KindInt} }

// Float returns the real-valued stream type.
func Float() Type { return Type{Kind: KindFloat} }

// Complex returns the complex-valued stream type.
func Complex() Type { return Type{Kind: KindComplex} }

// Message returns the asynchronous message type.
func Message() Type { return Type{Kind: KindMessage} }

// Custom returns an opaque type identified by name.
// Custom types are compatible only with an identically named custom type
// unless a rule is registered with [Rules.Allow].
func Custom(name string) Type { return Type{Kind: KindCustom, Name: name} }

// IsValid reports whether the type is usable on a port.
func (t Type) IsValid() bool {
	if t.Kind == KindCustom {
		return t.Name != ""
	}
	return t.Kind > KindInvalid && t.Kind < KindCustom
}

// String returns "custom:<name>" for custom types and the kind name otherwise.
func (t Type) String() string {
	if t.Kind == KindCustom {
		return "custom:" + t.Name
	}
	return t.Kind.String()
}

// Parse converts a textual type name (as used in block-library descriptors)
// into a Type. Unknown names become custom types, so external descriptors can
// introduce opaque types without a registration step.
func Parse(s string) Type {
	switch s {
	case "bit":
		return Bit()
	case "byte":
		return Byte()
	case "int":
		return Int()
	case "float":
		return Float()
	case "complex":
		return Complex()
	case "message":
		return Message()
	case "", "invalid":
		return Type{}
	default:
		return Custom(s)
	}
}

// Rules is a compatibility table mapping output types to the input types they
// may legally feed. Exact matches are always compatible; everything else must
// be declared explicitly as a one-directional widening.
//
// The zero value permits exact matches only. Rules is not safe for concurrent
// mutation; build the table up front and treat it as read-only afterwards.
type Rules struct {
	widen map[Type]map[Type]bool
}

// NewRules returns an empty table (exact-match only).
func NewRules() *Rules {
	return &Rules{widen: make(map[Type]map[Type]bool)}
}

// DefaultRules returns the baseline widening table:
//
//	bit → byte, byte → int, int → float, int → complex, float → complex
func DefaultRules() *Rules {
	r := NewRules()
	r.Allow(Bit(), Byte())
	r.Allow(Byte(), Int())
	r.Allow(Int(), Float())
	r.Allow(Int(), Complex())
	r.Allow(Float(), Complex())
	return r
}

// Allow declares that an output of type from may feed an input of type to.
// The rule is one-directional; declare the reverse separately if wanted.
func (r *Rules) Allow(from, to Type) {
	if r.widen == nil {
		r.widen = make(map[Type]map[Type]bool)
	}
	m, ok := r.widen[from]
	if !ok {
		m = make(map[Type]bool)
		r.widen[from] = m
	}
	m[to] = true
}

// CanConnect reports whether an output of type out may feed an input of type
// in. The predicate is pure: it reads the table and mutates nothing.
func (r *Rules) CanConnect(out, in Type) bool {
	if !out.IsValid() || !in.IsValid() {
		return false
	}
	if out == in {
		return true
	}
	if r == nil || r.widen == nil {
		return false
	}
	return r.widen[out][in]
}
