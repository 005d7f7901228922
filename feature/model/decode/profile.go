package decode

// Profile names the source-specific attributes and groups the decoder and
// canonicalizer need. Everything else about the pipeline is profile-agnostic.
type Profile struct {
	// Name identifies the profile ("tekla", "ifc").
	Name string
	// IdentityAttr is the attribute holding the stable identity key. Nodes
	// without it are skipped.
	IdentityAttr string
	// NameAttr is the attribute holding the human-readable display name.
	NameAttr string
	// MeasureAttrs are the numeric attributes aggregated per entity.
	MeasureAttrs []string
	// ReportGroup is the nested attribute group produced by source-side
	// reports. Its values override top-level attributes.
	ReportGroup string
	// UserGroup is the nested group of user-defined attributes. Its values
	// override both the report group and top-level attributes.
	UserGroup string
}

// TeklaProfile returns the attribute mapping for Tekla Structures exports.
func TeklaProfile() Profile {
	return Profile{
		Name:         "tekla",
		IdentityAttr: "ASSEMBLY_GUID",
		NameAttr:     "ASSEMBLY_NAME",
		MeasureAttrs: []string{"WEIGHT", "AREA", "LENGTH"},
		ReportGroup:  "report",
		UserGroup:    "userDefined",
	}
}

// IfcProfile returns the attribute mapping for IFC model exports.
func IfcProfile() Profile {
	return Profile{
		Name:         "ifc",
		IdentityAttr: "GlobalId",
		NameAttr:     "Name",
		MeasureAttrs: []string{"NetWeight", "GrossArea", "Length"},
		ReportGroup:  "Pset_Common",
		UserGroup:    "UserDefined",
	}
}

// GetProfileByName resolves a profile by its configured name, falling back to
// the Tekla profile for unknown names.
func GetProfileByName(name string) Profile {
	switch name {
	case "ifc":
		return IfcProfile()
	default:
		return TeklaProfile()
	}
}

// IsMeasure reports whether attr is one of the profile's measure attributes.
func (p Profile) IsMeasure(attr string) bool {
	for _, m := range p.MeasureAttrs {
		if m == attr {
			return true
		}
	}
	return false
}
