package jsondoc

import (
	jsoniter "github.com/json-iterator/go"
)

var (
	compactAPI = jsoniter.ConfigDefault
	indentAPI  = jsoniter.Config{IndentionStep: 2}.Froze()
)

// Members are written properties first, then nested objects, then arrays,
// each group in its stored order.
func (o *Object) Marshal() ([]byte, error) {
	return marshal(compactAPI, o)
}

func (o *Object) MarshalIndent() ([]byte, error) {
	return marshal(indentAPI, o)
}

func (o *Object) MarshalJSON() ([]byte, error) {
	return o.Marshal()
}

// String returns the compact encoding, or an empty string if it fails.
func (o *Object) String() string {
	b, err := o.Marshal()
	if err != nil {
		return ""
	}
	return string(b)
}

func marshal(api jsoniter.API, o *Object) ([]byte, error) {
	stream := api.BorrowStream(nil)
	defer api.ReturnStream(stream)

	writeObject(stream, o)
	if stream.Error != nil {
		return nil, stream.Error
	}
	return append([]byte(nil), stream.Buffer()...), nil
}

func writeObject(stream *jsoniter.Stream, o *Object) {
	if len(o.props)+len(o.children)+len(o.arrays) == 0 {
		stream.WriteEmptyObject()
		return
	}

	stream.WriteObjectStart()
	first := true
	field := func(name string) {
		if !first {
			stream.WriteMore()
		}
		first = false
		stream.WriteObjectField(name)
	}

	for _, p := range o.props {
		field(p.name)
		writeValue(stream, p)
	}
	for _, c := range o.children {
		field(c.Name)
		writeObject(stream, c)
	}
	for _, a := range o.arrays {
		field(a.Name)
		writeArray(stream, a)
	}
	stream.WriteObjectEnd()
}

func writeArray(stream *jsoniter.Stream, a *Array) {
	if len(a.elems) == 0 {
		stream.WriteEmptyArray()
		return
	}
	stream.WriteArrayStart()
	for i, e := range a.elems {
		if i > 0 {
			stream.WriteMore()
		}
		writeObject(stream, e)
	}
	stream.WriteArrayEnd()
}

func writeValue(stream *jsoniter.Stream, v *Value) {
	switch v.kind {
	case KindTrue:
		stream.WriteTrue()
	case KindFalse:
		stream.WriteFalse()
	case KindNumber:
		stream.WriteFloat64(v.num)
	case KindString:
		stream.WriteString(v.str)
	default:
		stream.WriteNil()
	}
}
