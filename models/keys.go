package models

// presentationKeys enumerates the IIIF Presentation API 3.0 properties the
// vault recognizes as schema payload. Properties outside this set are
// treated as custom extensions: the normalizer lifts them into the state's
// extension index and the denormalizer merges them back, so proprietary
// fields survive a round trip without the core ever interpreting them.
var presentationKeys = map[string]struct{}{
	"@context":           {},
	"id":                 {},
	"type":               {},
	"label":              {},
	"summary":            {},
	"metadata":           {},
	"requiredStatement":  {},
	"rights":             {},
	"provider":           {},
	"thumbnail":          {},
	"navDate":            {},
	"navPlace":           {},
	"placeholderCanvas":  {},
	"accompanyingCanvas": {},
	"viewingDirection":   {},
	"behavior":           {},
	"language":           {},
	"homepage":           {},
	"seeAlso":            {},
	"rendering":          {},
	"partOf":             {},
	"start":              {},
	"supplementary":      {},
	"service":            {},
	"services":           {},
	"height":             {},
	"width":              {},
	"duration":           {},
	"items":              {},
	"structures":         {},
	"annotations":        {},
	"motivation":         {},
	"body":               {},
	"target":             {},
	"format":             {},
	"profile":            {},
	"timeMode":           {},
}

// IsPresentationKey reports whether key is part of the IIIF Presentation 3.0
// vocabulary known to the vault.
func IsPresentationKey(key string) bool {
	_, ok := presentationKeys[key]
	return ok
}
