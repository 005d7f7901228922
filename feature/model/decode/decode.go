package decode

// RawNode is one node of the source model graph as returned by the source
// API: an opaque source object id plus a loosely-typed attribute bag that may
// contain one level of nested attribute groups.
type RawNode struct {
	SourceObjectID string         `json:"sourceObjectId"`
	Attributes     map[string]any `json:"attributes"`
}

// Decoded is a raw node after flattening and coercion: every attribute value
// is a typed primitive and the identity key has been extracted.
type Decoded struct {
	SourceObjectID string
	IdentityKey    string
	Attrs          map[string]Primitive
}

// Decode flattens and coerces one raw node.
//
// Nested attribute groups are flattened exactly one level deep with a fixed
// precedence: user-defined attributes win over report attributes, which win
// over top-level attributes. Nil values and non-scalar values are dropped.
// Nodes whose identity attribute is missing or empty report ok=false and are
// skipped by the caller.
func Decode(node RawNode, profile Profile) (Decoded, bool) {
	attrs := make(map[string]Primitive, len(node.Attributes))

	flattenInto(attrs, topLevel(node.Attributes, profile))
	flattenInto(attrs, group(node.Attributes, profile.ReportGroup))
	flattenInto(attrs, group(node.Attributes, profile.UserGroup))

	identity, ok := attrs[profile.IdentityAttr]
	if !ok || identity.IsNull() || identity.Text() == "" {
		return Decoded{}, false
	}

	return Decoded{
		SourceObjectID: node.SourceObjectID,
		IdentityKey:    identity.Text(),
		Attrs:          attrs,
	}, true
}

// DecodeAll decodes a page of raw nodes, silently skipping nodes without an
// identity key.
func DecodeAll(nodes []RawNode, profile Profile) []Decoded {
	decoded := make([]Decoded, 0, len(nodes))
	for _, node := range nodes {
		d, ok := Decode(node, profile)
		if !ok {
			continue
		}
		decoded = append(decoded, d)
	}
	return decoded
}

// topLevel returns the scalar attributes of the bag, excluding the nested
// group entries handled separately.
func topLevel(bag map[string]any, profile Profile) map[string]any {
	out := make(map[string]any, len(bag))
	for key, val := range bag {
		if key == profile.ReportGroup || key == profile.UserGroup {
			continue
		}
		out[key] = val
	}
	return out
}

// group returns the named nested attribute group, or nil when absent or not
// an object.
func group(bag map[string]any, name string) map[string]any {
	if name == "" {
		return nil
	}
	nested, ok := bag[name].(map[string]any)
	if !ok {
		return nil
	}
	return nested
}

// flattenInto coerces src's values and writes them over dst.
func flattenInto(dst map[string]Primitive, src map[string]any) {
	for key, val := range src {
		p, ok := Coerce(val)
		if !ok {
			continue
		}
		dst[key] = p
	}
}
