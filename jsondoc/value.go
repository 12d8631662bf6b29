package jsondoc

import (
	"strconv"
	"strings"
)

// Kind records which JSON kind a scalar Value currently holds.
type Kind int

const (
	KindNull Kind = iota
	KindFalse
	KindTrue
	KindNumber
	KindString
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindFalse:
		return "false"
	case KindTrue:
		return "true"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	}
	return "Kind(" + strconv.Itoa(int(k)) + ")"
}

// Value is a named scalar property. The payload and the kind are only ever
// changed together through the Set* methods.
type Value struct {
	name   string
	kind   Kind
	num    float64
	str    string
	parent *Object
}

func NewString(name, s string) *Value {
	return &Value{name: name, kind: KindString, str: s}
}

func NewNumber(name string, n float64) *Value {
	return &Value{name: name, kind: KindNumber, num: n}
}

func NewBool(name string, b bool) *Value {
	v := &Value{name: name}
	v.SetBool(b)
	return v
}

func NewNull(name string) *Value {
	return &Value{name: name, kind: KindNull}
}

func (v *Value) Name() string    { return v.name }
func (v *Value) Kind() Kind      { return v.kind }
func (v *Value) Parent() *Object { return v.parent }

func (v *Value) AsString() (string, bool) {
	if v.kind != KindString {
		return "", false
	}
	return v.str, true
}

func (v *Value) AsNumber() (float64, bool) {
	if v.kind != KindNumber {
		return 0, false
	}
	return v.num, true
}

func (v *Value) AsBool() (bool, bool) {
	switch v.kind {
	case KindTrue:
		return true, true
	case KindFalse:
		return false, true
	}
	return false, false
}

func (v *Value) IsNull() bool { return v.kind == KindNull }

func (v *Value) SetString(s string) {
	v.kind = KindString
	v.str = s
	v.num = 0
}

func (v *Value) SetNumber(n float64) {
	v.kind = KindNumber
	v.num = n
	v.str = ""
}

func (v *Value) SetBool(b bool) {
	if b {
		v.kind = KindTrue
	} else {
		v.kind = KindFalse
	}
	v.num = 0
	v.str = ""
}

func (v *Value) SetNull() {
	v.kind = KindNull
	v.num = 0
	v.str = ""
}

// Assign copies kind and payload from other, keeping this value's name.
func (v *Value) Assign(other *Value) {
	v.kind = other.kind
	v.num = other.num
	v.str = other.str
}

// Interface returns the payload as a plain Go value (nil, bool, float64 or string).
func (v *Value) Interface() any {
	switch v.kind {
	case KindTrue:
		return true
	case KindFalse:
		return false
	case KindNumber:
		return v.num
	case KindString:
		return v.str
	}
	return nil
}

// Text renders the payload the way a property grid shows it.
func (v *Value) Text() string {
	switch v.kind {
	case KindString:
		return v.str
	case KindNumber:
		return strconv.FormatFloat(v.num, 'g', -1, 64)
	}
	return v.kind.String()
}

func (v *Value) Clone() *Value {
	return &Value{name: v.name, kind: v.kind, num: v.num, str: v.str}
}

func (v *Value) equal(other *Value) bool {
	return v.name == other.name && v.kind == other.kind && v.num == other.num && v.str == other.str
}

// Comparison selects how names are matched by the Find* lookups.
type Comparison int

const (
	Ordinal Comparison = iota
	IgnoreCase
)

func (c Comparison) match(a, b string) bool {
	if c == IgnoreCase {
		return strings.EqualFold(a, b)
	}
	return a == b
}
