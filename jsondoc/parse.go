package jsondoc

import (
	"bytes"
	"fmt"

	"github.com/buger/jsonparser"
	jsoniter "github.com/json-iterator/go"
)

// ParseError reports malformed input. Offset is -1 when unknown.
type ParseError struct {
	Offset int
	Msg    string
}

func (e *ParseError) Error() string {
	if e.Offset >= 0 {
		return fmt.Sprintf("jsondoc: %s at offset %d", e.Msg, e.Offset)
	}
	return "jsondoc: " + e.Msg
}

// Parse builds a tree from a JSON document whose root is an object. Array
// elements must themselves be objects. On error no tree is returned.
func Parse(data []byte) (*Object, error) {
	value, dataType, end, err := jsonparser.Get(data)
	if err != nil {
		return nil, &ParseError{Offset: -1, Msg: err.Error()}
	}
	if dataType != jsonparser.Object {
		return nil, &ParseError{Offset: 0, Msg: "root must be an object, got " + dataType.String()}
	}
	if len(bytes.TrimSpace(data[end:])) != 0 {
		return nil, &ParseError{Offset: end, Msg: "trailing data after root object"}
	}
	if !jsoniter.Valid(value) {
		return nil, &ParseError{Offset: -1, Msg: "invalid JSON"}
	}

	root := NewObject("")
	if err := parseObject(root, value); err != nil {
		return nil, err
	}
	return root, nil
}

func ParseString(s string) (*Object, error) {
	return Parse([]byte(s))
}

// MustParse is Parse for literals known to be valid. It panics on error.
func MustParse(s string) *Object {
	o, err := ParseString(s)
	if err != nil {
		panic(err)
	}
	return o
}

func parseObject(o *Object, data []byte) error {
	err := jsonparser.ObjectEach(data, func(key []byte, value []byte, dataType jsonparser.ValueType, offset int) error {
		name, err := jsonparser.ParseString(key)
		if err != nil {
			return &ParseError{Offset: offset, Msg: "bad key: " + err.Error()}
		}

		switch dataType {
		case jsonparser.Object:
			child := NewObject(name)
			if err := parseObject(child, value); err != nil {
				return err
			}
			o.AddChild(child)
		case jsonparser.Array:
			arr, err := parseArray(name, value)
			if err != nil {
				return err
			}
			o.AddArray(arr)
		case jsonparser.String:
			s, err := jsonparser.ParseString(value)
			if err != nil {
				return &ParseError{Offset: offset, Msg: fmt.Sprintf("bad string %q: %v", name, err)}
			}
			o.AddProperty(NewString(name, s))
		case jsonparser.Number:
			n, err := jsonparser.ParseFloat(value)
			if err != nil {
				return &ParseError{Offset: offset, Msg: fmt.Sprintf("bad number %q: %v", name, err)}
			}
			o.AddProperty(NewNumber(name, n))
		case jsonparser.Boolean:
			b, err := jsonparser.ParseBoolean(value)
			if err != nil {
				return &ParseError{Offset: offset, Msg: fmt.Sprintf("bad boolean %q: %v", name, err)}
			}
			o.AddProperty(NewBool(name, b))
		case jsonparser.Null:
			o.AddProperty(NewNull(name))
		default:
			return &ParseError{Offset: offset, Msg: fmt.Sprintf("unexpected %s for %q", dataType, name)}
		}
		return nil
	})
	if err == nil {
		return nil
	}
	if _, ok := err.(*ParseError); ok {
		return err
	}
	return &ParseError{Offset: -1, Msg: err.Error()}
}

func parseArray(name string, data []byte) (*Array, error) {
	arr := NewArray(name)
	var perr error
	_, err := jsonparser.ArrayEach(data, func(value []byte, dataType jsonparser.ValueType, offset int, inerr error) {
		if perr != nil {
			return
		}
		if inerr != nil {
			perr = &ParseError{Offset: offset, Msg: inerr.Error()}
			return
		}
		if dataType != jsonparser.Object {
			perr = &ParseError{Offset: offset, Msg: fmt.Sprintf("elements of %q must be objects, got %s", name, dataType)}
			return
		}
		elem := NewObject("")
		if err := parseObject(elem, value); err != nil {
			perr = err
			return
		}
		arr.Append(elem)
	})
	if perr != nil {
		return nil, perr
	}
	if err != nil {
		return nil, &ParseError{Offset: -1, Msg: err.Error()}
	}
	return arr, nil
}
