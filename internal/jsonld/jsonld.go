// Package jsonld provides JSON-LD processing for IIIF Presentation
// documents at the import boundary.
//
// The vault core treats resource payloads as opaque and never interprets
// JSON-LD semantics; this package exists so the CLI and the API server can
// check that a document is structurally sound JSON-LD before it is
// normalized. It uses json-gold's expansion algorithm: a document that
// cannot be expanded is not valid JSON-LD.
package jsonld

import (
	"encoding/json"
	"fmt"

	"github.com/piprate/json-gold/ld"
)

// PresentationContext is the IIIF Presentation API 3.0 context URI.
const PresentationContext = "http://iiif.io/api/presentation/3/context.json"

// Processor wraps a json-gold processor with the options Tessella uses.
type Processor struct {
	proc    *ld.JsonLdProcessor
	options *ld.JsonLdOptions
}

// New creates a Processor with a caching document loader, so repeated
// validation of documents sharing a context only fetches it once.
func New() *Processor {
	options := ld.NewJsonLdOptions("")
	options.DocumentLoader = ld.NewCachingDocumentLoader(ld.NewDefaultDocumentLoader(nil))
	return &Processor{
		proc:    ld.NewJsonLdProcessor(),
		options: options,
	}
}

// Validate checks that raw is a structurally valid JSON-LD document by
// running it through expansion. Documents without an @context are accepted
// unexpanded: plenty of real-world IIIF fragments travel without one.
func (p *Processor) Validate(raw []byte) error {
	var doc map[string]interface{}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return fmt.Errorf("jsonld: invalid JSON: %w", err)
	}
	if _, ok := doc["@context"]; !ok {
		return nil
	}
	if _, err := p.proc.Expand(doc, p.options); err != nil {
		return fmt.Errorf("jsonld: expansion failed: %w", err)
	}
	return nil
}

// Expand returns the expanded form of a document.
func (p *Processor) Expand(doc map[string]interface{}) ([]interface{}, error) {
	expanded, err := p.proc.Expand(doc, p.options)
	if err != nil {
		return nil, fmt.Errorf("jsonld: expansion failed: %w", err)
	}
	return expanded, nil
}

// Compact compacts a document against the IIIF Presentation 3.0 context.
func (p *Processor) Compact(doc map[string]interface{}) (map[string]interface{}, error) {
	context := map[string]interface{}{"@context": PresentationContext}
	compacted, err := p.proc.Compact(doc, context, p.options)
	if err != nil {
		return nil, fmt.Errorf("jsonld: compaction failed: %w", err)
	}
	return compacted, nil
}
