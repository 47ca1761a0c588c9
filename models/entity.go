// Package models defines the IIIF Presentation API 3.0 resource model used
// by Tessella.
//
// Resources are kept deliberately opaque: apart from the identifier, the type
// tag and the structural child fields (items, structures, annotations), every
// property of a resource (label, metadata, rights, custom JSON-LD keys) is
// carried verbatim in an untyped field map so that re-serialization never
// silently drops data the schema does not know about.
package models

import (
	"encoding/json"
	"fmt"
)

// EntityType identifies one of the six IIIF Presentation resource types
// managed by the vault.
type EntityType string

const (
	// TypeCollection is an aggregation that references (does not own)
	// Manifests and other Collections.
	TypeCollection EntityType = "Collection"

	// TypeManifest describes one logical object, owning an ordered
	// sequence of Canvases and optionally a Range structure tree.
	TypeManifest EntityType = "Manifest"

	// TypeCanvas is a single view within a Manifest with attached
	// annotation content.
	TypeCanvas EntityType = "Canvas"

	// TypeRange is a structural grouping over Canvases, possibly nested.
	TypeRange EntityType = "Range"

	// TypeAnnotationPage is a page of Annotations attached to a Canvas.
	TypeAnnotationPage EntityType = "AnnotationPage"

	// TypeAnnotation is a single piece of annotation content.
	TypeAnnotation EntityType = "Annotation"
)

// EntityTypes lists all resource types known to the vault, in the order used
// for stable iteration over per-type buckets.
var EntityTypes = []EntityType{
	TypeCollection,
	TypeManifest,
	TypeCanvas,
	TypeRange,
	TypeAnnotationPage,
	TypeAnnotation,
}

// Valid reports whether t is one of the six known resource types.
func (t EntityType) Valid() bool {
	switch t {
	case TypeCollection, TypeManifest, TypeCanvas, TypeRange,
		TypeAnnotationPage, TypeAnnotation:
		return true
	}
	return false
}

// ParseEntityType converts a IIIF type string into an EntityType.
// The second return value is false for unrecognized types.
func ParseEntityType(s string) (EntityType, bool) {
	t := EntityType(s)
	return t, t.Valid()
}

// Entity is a single IIIF Presentation resource.
//
// ID and Type are the only two properties the vault interprets. The three
// child slots hold nested resources exactly as they appear in the source
// tree; the Fields map holds every other property untouched. Motivation of
// the "painting" value on an Annotation marks primary visual content and
// drives the items/annotations split on Canvases.
type Entity struct {
	// ID is the globally unique identifier, conventionally an HTTP(S) URI.
	ID string `json:"id"`

	// Type is the resource type tag.
	Type EntityType `json:"type"`

	// Items holds the primary child resources: Manifests/Collections for a
	// Collection, Canvases for a Manifest, painting AnnotationPages for a
	// Canvas, Annotations for an AnnotationPage, nested items for a Range.
	Items []*Entity `json:"items,omitempty"`

	// Structures holds the Range tree of a Manifest.
	Structures []*Entity `json:"structures,omitempty"`

	// Annotations holds the non-painting AnnotationPages of a Canvas.
	Annotations []*Entity `json:"annotations,omitempty"`

	// Fields carries every other property verbatim.
	Fields map[string]interface{} `json:"-"`
}

// structural keys are lifted out of Fields at decode time and re-emitted at
// encode time.
const (
	keyID          = "id"
	keyType        = "type"
	keyItems       = "items"
	keyStructures  = "structures"
	keyAnnotations = "annotations"
)

// MotivationPainting is the motivation value that marks primary visual
// content on an Annotation.
const MotivationPainting = "painting"

// UnmarshalJSON decodes a IIIF resource, splitting the identifier, type tag
// and child slots from the opaque payload.
func (e *Entity) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("entity: invalid JSON object: %w", err)
	}

	if v, ok := raw[keyID]; ok {
		if err := json.Unmarshal(v, &e.ID); err != nil {
			return fmt.Errorf("entity: invalid id: %w", err)
		}
	}
	if v, ok := raw[keyType]; ok {
		var s string
		if err := json.Unmarshal(v, &s); err != nil {
			return fmt.Errorf("entity: invalid type: %w", err)
		}
		e.Type = EntityType(s)
	}

	children := map[string]*[]*Entity{
		keyItems:       &e.Items,
		keyStructures:  &e.Structures,
		keyAnnotations: &e.Annotations,
	}
	for key, slot := range children {
		v, ok := raw[key]
		if !ok {
			continue
		}
		if err := json.Unmarshal(v, slot); err != nil {
			return fmt.Errorf("entity %s: invalid %s: %w", e.ID, key, err)
		}
	}

	for key, v := range raw {
		switch key {
		case keyID, keyType, keyItems, keyStructures, keyAnnotations:
			continue
		}
		var value interface{}
		if err := json.Unmarshal(v, &value); err != nil {
			return fmt.Errorf("entity %s: invalid value for %q: %w", e.ID, key, err)
		}
		if e.Fields == nil {
			e.Fields = make(map[string]interface{})
		}
		e.Fields[key] = value
	}

	return nil
}

// MarshalJSON re-serializes the resource, merging the opaque payload back
// with the interpreted properties. Empty child slots are omitted.
func (e *Entity) MarshalJSON() ([]byte, error) {
	out := make(map[string]interface{}, len(e.Fields)+5)
	for k, v := range e.Fields {
		out[k] = v
	}
	out[keyID] = e.ID
	out[keyType] = string(e.Type)
	if len(e.Items) > 0 {
		out[keyItems] = e.Items
	}
	if len(e.Structures) > 0 {
		out[keyStructures] = e.Structures
	}
	if len(e.Annotations) > 0 {
		out[keyAnnotations] = e.Annotations
	}
	return json.Marshal(out)
}

// Field returns the named payload property, or nil if absent.
func (e *Entity) Field(key string) interface{} {
	if e.Fields == nil {
		return nil
	}
	return e.Fields[key]
}

// SetField sets a payload property, allocating the field map on first use.
func (e *Entity) SetField(key string, value interface{}) {
	if e.Fields == nil {
		e.Fields = make(map[string]interface{})
	}
	e.Fields[key] = value
}

// Motivation returns the motivation of an Annotation, or "" when unset.
// Multi-valued motivations return the first value.
func (e *Entity) Motivation() string {
	switch v := e.Field("motivation").(type) {
	case string:
		return v
	case []interface{}:
		if len(v) > 0 {
			if s, ok := v[0].(string); ok {
				return s
			}
		}
	}
	return ""
}
