package models

// Clone returns a deep copy of the entity, including its child slots and its
// opaque payload. Mutating the copy never affects the original, which is the
// discipline the vault's copy-on-write state relies on.
func (e *Entity) Clone() *Entity {
	if e == nil {
		return nil
	}
	out := &Entity{
		ID:          e.ID,
		Type:        e.Type,
		Items:       CloneEntities(e.Items),
		Structures:  CloneEntities(e.Structures),
		Annotations: CloneEntities(e.Annotations),
		Fields:      CloneFields(e.Fields),
	}
	return out
}

// CloneShallow returns a copy of the entity with the child slots zeroed out
// and the payload deep-copied. This is the form stored in the normalized
// state: children are reconstructed from the reference index, never stored
// redundantly.
func (e *Entity) CloneShallow() *Entity {
	if e == nil {
		return nil
	}
	return &Entity{
		ID:     e.ID,
		Type:   e.Type,
		Fields: CloneFields(e.Fields),
	}
}

// CloneEntities deep-copies a slice of entities.
func CloneEntities(entities []*Entity) []*Entity {
	if entities == nil {
		return nil
	}
	out := make([]*Entity, len(entities))
	for i, e := range entities {
		out[i] = e.Clone()
	}
	return out
}

// CloneFields deep-copies an opaque payload map.
func CloneFields(fields map[string]interface{}) map[string]interface{} {
	if fields == nil {
		return nil
	}
	out := make(map[string]interface{}, len(fields))
	for k, v := range fields {
		out[k] = CloneValue(v)
	}
	return out
}

// CloneValue deep-copies an arbitrary JSON value. Scalars are returned as-is;
// maps and slices are copied recursively.
func CloneValue(v interface{}) interface{} {
	switch val := v.(type) {
	case map[string]interface{}:
		out := make(map[string]interface{}, len(val))
		for k, item := range val {
			out[k] = CloneValue(item)
		}
		return out
	case []interface{}:
		out := make([]interface{}, len(val))
		for i, item := range val {
			out[i] = CloneValue(item)
		}
		return out
	default:
		return v
	}
}
