package decode

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCoerce(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want Primitive
		ok   bool
	}{
		{name: "string", in: "HEA300", want: String("HEA300"), ok: true},
		{name: "numeric string kept numeric", in: "120.5", want: Number(120.5), ok: true},
		{name: "float", in: 42.0, want: Number(42), ok: true},
		{name: "int", in: 7, want: Number(7), ok: true},
		{name: "bool", in: true, want: Boolean(true), ok: true},
		{name: "nil dropped", in: nil, ok: false},
		{name: "nested map dropped", in: map[string]any{"x": 1}, ok: false},
		{name: "list dropped", in: []any{1, 2}, ok: false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := Coerce(tc.in)
			assert.Equal(t, tc.ok, ok)
			if tc.ok {
				assert.Equal(t, tc.want, got)
			}
		})
	}
}

func TestPrimitive_JSONRoundTrip(t *testing.T) {
	attrs := map[string]Primitive{
		"name":   String("Beam"),
		"weight": Number(120.5),
		"fire":   Boolean(false),
		"note":   Null(),
	}

	data, err := json.Marshal(attrs)
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"Beam","weight":120.5,"fire":false,"note":null}`, string(data))

	var back map[string]Primitive
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, String("Beam"), back["name"])
	assert.Equal(t, Number(120.5), back["weight"])
	assert.Equal(t, Boolean(false), back["fire"])
	assert.True(t, back["note"].IsNull())
}

func TestDecode_FlattensWithPrecedence(t *testing.T) {
	profile := TeklaProfile()
	node := RawNode{
		SourceObjectID: "obj-1",
		Attributes: map[string]any{
			"ASSEMBLY_GUID": "guid-1",
			"ASSEMBLY_NAME": "A-100",
			"WEIGHT":        100.0,
			"GRADE":         "S355",
			"report": map[string]any{
				"WEIGHT": 120.0,
				"AREA":   "14.5",
			},
			"userDefined": map[string]any{
				"WEIGHT": 130.0,
				"OWNER":  "site",
			},
		},
	}

	decoded, ok := Decode(node, profile)
	require.True(t, ok)

	assert.Equal(t, "guid-1", decoded.IdentityKey)
	assert.Equal(t, "obj-1", decoded.SourceObjectID)
	// User-defined beats report beats top-level.
	assert.Equal(t, Number(130), decoded.Attrs["WEIGHT"])
	// Numeric strings inside groups are coerced too.
	assert.Equal(t, Number(14.5), decoded.Attrs["AREA"])
	assert.Equal(t, String("S355"), decoded.Attrs["GRADE"])
	assert.Equal(t, String("site"), decoded.Attrs["OWNER"])
}

func TestDecode_SkipsNodeWithoutIdentity(t *testing.T) {
	profile := TeklaProfile()
	tests := []struct {
		name string
		bag  map[string]any
	}{
		{name: "missing", bag: map[string]any{"ASSEMBLY_NAME": "A-100"}},
		{name: "empty", bag: map[string]any{"ASSEMBLY_GUID": ""}},
		{name: "nil", bag: map[string]any{"ASSEMBLY_GUID": nil}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, ok := Decode(RawNode{SourceObjectID: "obj-1", Attributes: tc.bag}, profile)
			assert.False(t, ok)
		})
	}
}

func TestDecode_DropsNilAndNestedValues(t *testing.T) {
	profile := TeklaProfile()
	node := RawNode{
		SourceObjectID: "obj-1",
		Attributes: map[string]any{
			"ASSEMBLY_GUID": "guid-1",
			"PHASE":         nil,
			"geometry":      map[string]any{"x": 1.0},
		},
	}

	decoded, ok := Decode(node, profile)
	require.True(t, ok)
	assert.NotContains(t, decoded.Attrs, "PHASE")
	assert.NotContains(t, decoded.Attrs, "geometry")
}

func TestDecodeAll_SkipsBadNodesOnly(t *testing.T) {
	profile := TeklaProfile()
	nodes := []RawNode{
		{SourceObjectID: "obj-1", Attributes: map[string]any{"ASSEMBLY_GUID": "g1"}},
		{SourceObjectID: "obj-2", Attributes: map[string]any{"ASSEMBLY_NAME": "no id"}},
		{SourceObjectID: "obj-3", Attributes: map[string]any{"ASSEMBLY_GUID": "g3"}},
	}

	decoded := DecodeAll(nodes, profile)
	require.Len(t, decoded, 2)
	assert.Equal(t, "g1", decoded[0].IdentityKey)
	assert.Equal(t, "g3", decoded[1].IdentityKey)
}

func TestGetProfileByName(t *testing.T) {
	assert.Equal(t, "ifc", GetProfileByName("ifc").Name)
	assert.Equal(t, "tekla", GetProfileByName("tekla").Name)
	assert.Equal(t, "tekla", GetProfileByName("unknown").Name)
}
