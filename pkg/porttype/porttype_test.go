package porttype

import "testing"

func TestCanConnect_ExactMatch(t *testing.T) {
	r := NewRules()

	for _, typ := range []Type{Bit(), Byte(), Int(), Float(), Complex(), Message(), Custom("pdu")} {
		if !r.CanConnect(typ, typ) {
			t.Errorf("CanConnect(%v, %v) = false, want true", typ, typ)
		}
	}
}

func TestCanConnect_DefaultWidenings(t *testing.T) {
	r := DefaultRules()

	tests := []struct {
		name string
		out  Type
		in   Type
		want bool
	}{
		{"int to float widens", Int(), Float(), true},
		{"float to complex widens", Float(), Complex(), true},
		{"int to complex widens", Int(), Complex(), true},
		{"bit to byte widens", Bit(), Byte(), true},
		{"float to int narrows", Float(), Int(), false},
		{"complex to float narrows", Complex(), Float(), false},
		{"byte to float not declared", Byte(), Float(), false},
		{"message to float incompatible", Message(), Float(), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := r.CanConnect(tt.out, tt.in); got != tt.want {
				t.Errorf("CanConnect(%v, %v) = %v, want %v", tt.out, tt.in, got, tt.want)
			}
		})
	}
}

func TestCanConnect_CustomTypes(t *testing.T) {
	r := DefaultRules()

	if !r.CanConnect(Custom("pdu"), Custom("pdu")) {
		t.Error("identical custom types should be compatible")
	}
	if r.CanConnect(Custom("pdu"), Custom("frame")) {
		t.Error("differently named custom types should be incompatible")
	}
	if r.CanConnect(Custom("pdu"), Float()) {
		t.Error("custom to builtin should be incompatible without a rule")
	}

	r.Allow(Custom("pdu"), Custom("frame"))
	if !r.CanConnect(Custom("pdu"), Custom("frame")) {
		t.Error("explicit rule should make custom pair compatible")
	}
	if r.CanConnect(Custom("frame"), Custom("pdu")) {
		t.Error("rules are one-directional")
	}
}

func TestCanConnect_InvalidTypes(t *testing.T) {
	r := DefaultRules()

	if r.CanConnect(Type{}, Float()) {
		t.Error("invalid output type should never connect")
	}
	if r.CanConnect(Float(), Type{}) {
		t.Error("invalid input type should never connect")
	}
	if r.CanConnect(Custom(""), Custom("")) {
		t.Error("unnamed custom type is invalid")
	}
}

func TestCanConnect_NilRules(t *testing.T) {
	var r *Rules
	if !r.CanConnect(Float(), Float()) {
		t.Error("nil rules should still allow exact matches")
	}
	if r.CanConnect(Int(), Float()) {
		t.Error("nil rules should reject widenings")
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		in   string
		want Type
	}{
		{"float", Float()},
		{"complex", Complex()},
		{"int", Int()},
		{"byte", Byte()},
		{"bit", Bit()},
		{"message", Message()},
		{"pdu", Custom("pdu")},
		{"", Type{}},
	}

	for _, tt := range tests {
		if got := Parse(tt.in); got != tt.want {
			t.Errorf("Parse(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestTypeString(t *testing.T) {
	if got := Float().String(); got != "float" {
		t.Errorf("Float().String() = %q, want %q", got, "float")
	}
	if got := Custom("pdu").String(); got != "custom:pdu" {
		t.Errorf("Custom(pdu).String() = %q, want %q", got, "custom:pdu")
	}
}
