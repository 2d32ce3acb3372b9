package types

import (
	"encoding/json"

	"github.com/google/uuid"
)

// NullableUUID distinguishes an absent JSON field from an explicit null in
// PATCH-style bodies. Valid is true when the key was present; Value is nil
// for null.
type NullableUUID struct {
	Valid bool
	Value *uuid.UUID
}

func (n *NullableUUID) UnmarshalJSON(data []byte) error {
	var id *uuid.UUID
	if err := json.Unmarshal(data, &id); err != nil {
		return err
	}
	n.Valid, n.Value = true, id
	return nil
}

// Ptr returns a fresh pointer to the value, or nil for null.
func (n NullableUUID) Ptr() *uuid.UUID {
	if n.Value == nil {
		return nil
	}
	id := *n.Value
	return &id
}
