package canonical

import "model-sync/feature/model/decode"

// Kind selects how decoded nodes map onto entities.
type Kind string

const (
	// KindElement maps every decoded node to its own entity.
	KindElement Kind = "element"
	// KindAssembly groups decoded nodes by identity key and sums their
	// measures.
	KindAssembly Kind = "assembly"
)

// IsValidKind reports whether kind is a known entity kind.
func IsValidKind(kind string) bool {
	return kind == string(KindElement) || kind == string(KindAssembly)
}

// Entity is the canonical form persisted and diffed by the sync pipeline.
// Exactly one entity exists per identity key within a run.
type Entity struct {
	IdentityKey    string
	Kind           Kind
	DisplayName    string
	SourceObjectID string
	Measures       map[string]float64
	Attributes     map[string]decode.Primitive
}

// Canonicalize groups decoded nodes into canonical entities.
//
// Grouping preserves first-seen order of identity keys, so output order is a
// deterministic function of input order. For scalar attributes, the display
// name and the source object linkage, the first contributing node wins. For
// assemblies the profile's measure attributes are summed across the group; a
// node missing a measure contributes zero to that sum. For elements measures
// are taken from the single node as-is.
func Canonicalize(decoded []decode.Decoded, profile decode.Profile, kind Kind) []Entity {
	order := make([]string, 0, len(decoded))
	byKey := make(map[string]*Entity, len(decoded))

	for _, d := range decoded {
		entity, seen := byKey[d.IdentityKey]
		if !seen {
			entity = newEntity(d, profile, kind)
			byKey[d.IdentityKey] = entity
			order = append(order, d.IdentityKey)
			if kind == KindElement {
				continue
			}
		}
		if kind == KindAssembly {
			for _, attr := range profile.MeasureAttrs {
				entity.Measures[attr] += measureOf(d, attr)
			}
		}
	}

	entities := make([]Entity, 0, len(order))
	for _, key := range order {
		entities = append(entities, *byKey[key])
	}
	return entities
}

// newEntity builds the entity skeleton from the group's first node.
func newEntity(d decode.Decoded, profile decode.Profile, kind Kind) *Entity {
	entity := &Entity{
		IdentityKey:    d.IdentityKey,
		Kind:           kind,
		SourceObjectID: d.SourceObjectID,
		Measures:       make(map[string]float64, len(profile.MeasureAttrs)),
		Attributes:     make(map[string]decode.Primitive, len(d.Attrs)),
	}

	if name, ok := d.Attrs[profile.NameAttr]; ok {
		entity.DisplayName = name.Text()
	}
	for key, val := range d.Attrs {
		if key == profile.IdentityAttr || key == profile.NameAttr || profile.IsMeasure(key) {
			continue
		}
		entity.Attributes[key] = val
	}
	if kind == KindElement {
		for _, attr := range profile.MeasureAttrs {
			entity.Measures[attr] = measureOf(d, attr)
		}
	}
	return entity
}

// measureOf reads one numeric measure off a decoded node, zero when missing
// or non-numeric.
func measureOf(d decode.Decoded, attr string) float64 {
	p, ok := d.Attrs[attr]
	if !ok || p.Type != decode.TypeNumber {
		return 0
	}
	return p.Num
}
