package synergy

import "encoding/json"

// NullString is a string that may be absent after a left join.
type NullString struct {
	String string
	Valid  bool
}

func SomeString(s string) NullString { return NullString{String: s, Valid: true} }

func (n NullString) MarshalJSON() ([]byte, error) {
	if !n.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(n.String)
}

// NullFloat is a float that may be absent after a left join.
type NullFloat struct {
	Float64 float64
	Valid   bool
}

func SomeFloat(f float64) NullFloat { return NullFloat{Float64: f, Valid: true} }

func (n NullFloat) MarshalJSON() ([]byte, error) {
	if !n.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(n.Float64)
}
