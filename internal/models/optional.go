package models

import "encoding/json"

// Optional is a patch field that distinguishes three states a plain pointer
// cannot: absent from the payload (Set=false), explicit null (Set=true,
// Value=nil), and a concrete value. Stores use it to tell "leave this column
// alone" apart from "clear this column".
type Optional[T any] struct {
	Set   bool
	Value *T
}

// Some returns an Optional carrying a value.
func Some[T any](v T) Optional[T] {
	return Optional[T]{Set: true, Value: &v}
}

// Null returns an Optional carrying an explicit null.
func Null[T any]() Optional[T] {
	return Optional[T]{Set: true}
}

// UnmarshalJSON is only invoked for fields present in the payload, so Set is
// always true here; absent fields keep the zero Optional.
func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	o.Set = true
	if string(data) == "null" {
		o.Value = nil
		return nil
	}
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	o.Value = &v
	return nil
}

func (o Optional[T]) MarshalJSON() ([]byte, error) {
	if !o.Set || o.Value == nil {
		return []byte("null"), nil
	}
	return json.Marshal(o.Value)
}
