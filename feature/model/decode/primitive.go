package decode

import (
	"encoding/json"
	"strconv"
)

// PrimitiveType discriminates the primitive union.
type PrimitiveType string

const (
	// TypeString is a textual attribute value.
	TypeString PrimitiveType = "string"
	// TypeNumber is a numeric attribute value.
	TypeNumber PrimitiveType = "number"
	// TypeBool is a boolean attribute value.
	TypeBool PrimitiveType = "bool"
	// TypeNull is an explicit null.
	TypeNull PrimitiveType = "null"
)

// Primitive is a tagged union over the scalar attribute values the source can
// carry. Using an explicit tag instead of duck-typed property access keeps
// coercion rules in one place.
type Primitive struct {
	Type PrimitiveType
	Str  string
	Num  float64
	Bool bool
}

// String creates a string primitive.
func String(s string) Primitive {
	return Primitive{Type: TypeString, Str: s}
}

// Number creates a numeric primitive.
func Number(f float64) Primitive {
	return Primitive{Type: TypeNumber, Num: f}
}

// Boolean creates a boolean primitive.
func Boolean(b bool) Primitive {
	return Primitive{Type: TypeBool, Bool: b}
}

// Null creates an explicit null primitive.
func Null() Primitive {
	return Primitive{Type: TypeNull}
}

// IsNull reports whether the primitive is the explicit null.
func (p Primitive) IsNull() bool {
	return p.Type == TypeNull
}

// Text returns the canonical textual form of the primitive.
func (p Primitive) Text() string {
	switch p.Type {
	case TypeString:
		return p.Str
	case TypeNumber:
		return strconv.FormatFloat(p.Num, 'f', -1, 64)
	case TypeBool:
		return strconv.FormatBool(p.Bool)
	default:
		return ""
	}
}

// MarshalJSON emits the bare scalar value, so persisted attribute columns stay
// plain JSON objects.
func (p Primitive) MarshalJSON() ([]byte, error) {
	switch p.Type {
	case TypeString:
		return json.Marshal(p.Str)
	case TypeNumber:
		return json.Marshal(p.Num)
	case TypeBool:
		return json.Marshal(p.Bool)
	default:
		return []byte("null"), nil
	}
}

// UnmarshalJSON re-coerces a bare scalar into the tagged union.
func (p *Primitive) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	coerced, ok := Coerce(raw)
	if !ok {
		coerced = Null()
	}
	*p = coerced
	return nil
}

// Coerce converts a raw attribute value into a primitive. Numeric strings are
// kept numeric; nil values report ok=false and are dropped by the decoder,
// never defaulted to zero. Non-scalar values (nested maps, lists) also report
// ok=false.
func Coerce(val any) (Primitive, bool) {
	switch v := val.(type) {
	case nil:
		return Primitive{}, false
	case bool:
		return Boolean(v), true
	case float64:
		return Number(v), true
	case float32:
		return Number(float64(v)), true
	case int:
		return Number(float64(v)), true
	case int64:
		return Number(float64(v)), true
	case json.Number:
		f, err := v.Float64()
		if err != nil {
			return String(v.String()), true
		}
		return Number(f), true
	case string:
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return Number(f), true
		}
		return String(v), true
	default:
		return Primitive{}, false
	}
}
