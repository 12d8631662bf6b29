package jsondoc

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_RoundTrip(t *testing.T) {
	orig := MustParse(`{
		"id": "Base",
		"visible": true,
		"hidden": false,
		"weight": 12.75,
		"count": 3,
		"note": null,
		"quote": "say \"hi\"\n",
		"meta": {"author": "me", "tags": [{"k": "a"}]},
		"components": [
			{"$type": "TransformInfo", "position": "0 0 0"},
			{"$type": "CollisionBoxInfo", "halfExtent": "1 2 3"}
		],
		"empty": [],
		"blank": {}
	}`)

	for _, marshal := range []func() ([]byte, error){orig.Marshal, orig.MarshalIndent} {
		data, err := marshal()
		require.NoError(t, err)

		back, err := Parse(data)
		require.NoError(t, err, string(data))
		assert.True(t, orig.Equal(back), cmp.Diff(orig.String(), back.String()))
	}
}

func TestParse_KeepsKinds(t *testing.T) {
	o := MustParse(`{"a": true, "b": false, "c": 1, "d": "1", "e": null}`)

	kinds := map[string]Kind{}
	for _, p := range o.Properties() {
		kinds[p.Name()] = p.Kind()
	}
	assert.Equal(t, map[string]Kind{
		"a": KindTrue,
		"b": KindFalse,
		"c": KindNumber,
		"d": KindString,
		"e": KindNull,
	}, kinds)
}

func TestParse_PreservesOrder(t *testing.T) {
	o := MustParse(`{"z": "1", "a": "2", "m": "3"}`)

	var got []string
	for _, p := range o.Properties() {
		got = append(got, p.Name())
	}
	assert.Equal(t, []string{"z", "a", "m"}, got)
}

func TestParse_Errors(t *testing.T) {
	cases := map[string]string{
		"empty":           ``,
		"not an object":   `[1, 2]`,
		"scalar root":     `"text"`,
		"unterminated":    `{"id": "Base"`,
		"trailing":        `{"id": "Base"} {"id": "Other"}`,
		"bad value":       `{"id": nope}`,
		"scalar elements": `{"values": [1, 2, 3]}`,
		"nested arrays":   `{"values": [[{"a": "b"}]]}`,
	}

	for name, input := range cases {
		t.Run(name, func(t *testing.T) {
			o, err := ParseString(input)
			assert.Nil(t, o)
			require.Error(t, err)

			var perr *ParseError
			assert.True(t, errors.As(err, &perr), "expected *ParseError, got %T", err)
		})
	}
}

func TestMarshal_MemberOrder(t *testing.T) {
	o := NewObject("")
	o.AddArray(NewArray("components"))
	o.AddChild(NewObject("meta"))
	o.AddProperty(NewString("id", "Base"))

	data, err := o.Marshal()
	require.NoError(t, err)
	assert.Equal(t, `{"id":"Base","meta":{},"components":[]}`, string(data))
}
