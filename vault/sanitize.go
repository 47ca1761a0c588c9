package vault

import (
	"github.com/microcosm-cc/bluemonday"
)

// htmlPolicy is the sanitization policy applied to Annotation bodies during
// normalization. UGC strikes the balance IIIF viewers expect: formatting
// markup survives, scripts and event handlers do not.
var htmlPolicy = bluemonday.UGCPolicy()

// sanitizeAnnotationBody neutralizes injected markup in an Annotation's body
// before the entity is stored. This is a mandatory side effect of
// normalization, not an option: trees loaded from the wild routinely embed
// HTML in TextualBody values.
//
// The body property may be a single body object, a list of bodies, or a bare
// string. Only string "value" properties (and bare string bodies) are
// rewritten; everything else passes through untouched.
func sanitizeAnnotationBody(fields map[string]interface{}) {
	body, ok := fields["body"]
	if !ok {
		return
	}
	fields["body"] = sanitizeBodyValue(body)
}

func sanitizeBodyValue(body interface{}) interface{} {
	switch v := body.(type) {
	case string:
		return htmlPolicy.Sanitize(v)
	case map[string]interface{}:
		if value, ok := v["value"].(string); ok {
			v["value"] = htmlPolicy.Sanitize(value)
		}
		return v
	case []interface{}:
		for i, item := range v {
			v[i] = sanitizeBodyValue(item)
		}
		return v
	default:
		return body
	}
}
