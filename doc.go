// Package tessella is a normalized store for IIIF Presentation trees.
//
// # Overview
//
// Tessella flattens nested IIIF Presentation API 3.0 documents into a
// normalized entity store: every Collection, Manifest, Canvas, Range,
// AnnotationPage and Annotation becomes an individually addressable record,
// with the tree structure kept in ordered reference indexes instead of
// nesting. The original document can be reassembled from the store at any
// point.
//
// The module consists of three main layers:
//   - Vault: normalization, queries, mutations, trash and undo-redo
//   - API Server: REST surface and WebSocket change feed over one vault
//   - CLI: serve, inspect and roundtrip commands
//
// # Architecture
//
//	┌─────────────────┐
//	│  CLI            │
//	│  (Cobra)        │
//	└────────┬────────┘
//	         │
//	┌────────▼────────┐       ┌─────────────────┐
//	│  API Server     │◄──────┤  Change Feed    │
//	│  (Echo REST)    │       │  (WebSocket)    │
//	└────────┬────────┘       └─────────────────┘
//	         │
//	┌────────▼────────┐
//	│  Vault          │
//	│  (normalized    │
//	│   state)        │
//	└─────────────────┘
//
// # Core Features
//
// Normalized state:
//   - Per-type entity buckets with O(1) lookup by id
//   - Ordered parent/child reference indexes in both directions
//   - Many-to-many collection membership, symmetric by construction
//   - Non-IIIF extension properties preserved through round trips
//
// Mutations:
//   - Copy-on-write: every operation returns a new state, snapshots are
//     reference captures
//   - Partial payload updates, single-entity insert, subtree removal
//   - Move and reorder with ordered sibling positions
//   - Trash with full-subtree preservation, restore and empty
//
// REST API:
//   - Document load/export, entity CRUD, move/reorder
//   - Collection membership and orphan-manifest queries
//   - Trash management, undo/redo, index consistency audit
//   - WebSocket change feed for external collaborators
//
// # Usage
//
// Start the API server:
//
//	tessella serve --config configs/config.yaml
//
// Inspect a document without serving:
//
//	tessella inspect manifest.json --validate
//
// Check that a document survives a normalize/denormalize round trip:
//
//	tessella roundtrip manifest.json
//
// # Configuration
//
// Configuration can be provided via:
//   - YAML file (configs/config.yaml)
//   - Environment variables (TS_ prefix)
//   - .env file
//
// Example configuration:
//
//	server:
//	  host: localhost
//	  port: 8201
//	vault:
//	  history_limit: 100
//	  validate_on_load: false
//	logging:
//	  level: info
//	  format: console
//
// # API Endpoints
//
// Document:
//   - POST   /api/v1/tree                  - Load a nested IIIF document
//   - GET    /api/v1/tree                  - Export the reassembled document
//
// Entities:
//   - GET    /api/v1/entities              - List entities (filter by type)
//   - POST   /api/v1/entities              - Create entity under a parent
//   - GET    /api/v1/entities/:id          - Get normalized entity
//   - PATCH  /api/v1/entities/:id          - Partial payload update
//   - DELETE /api/v1/entities/:id          - Trash (or ?permanent=true)
//   - GET    /api/v1/entities/:id/tree     - Denormalized subtree
//   - GET    /api/v1/entities/:id/ancestors    - Ancestor chain
//   - GET    /api/v1/entities/:id/descendants  - Subtree ids
//   - POST   /api/v1/entities/:id/move     - Re-parent at an index
//   - PUT    /api/v1/entities/:id/children - Replace child order
//
// Collections:
//   - GET    /api/v1/collections/:id/members            - List members
//   - POST   /api/v1/collections/:id/members            - Add member
//   - DELETE /api/v1/collections/:id/members/:memberId  - Remove member
//   - GET    /api/v1/manifests/orphans                  - Unreferenced manifests
//
// Trash and history:
//   - GET    /api/v1/trash                 - List trash records
//   - POST   /api/v1/trash/:id/restore     - Restore a trashed subtree
//   - DELETE /api/v1/trash                 - Empty the trash
//   - POST   /api/v1/history/undo          - Undo the last operation
//   - POST   /api/v1/history/redo          - Redo the last undone operation
//
// Diagnostics:
//   - GET /api/v1/stats           - Entity counts and history status
//   - GET /api/v1/consistency     - Index audit report
//   - GET /api/v1/ws/changes      - WebSocket change feed
//   - GET /api/v1/ws/stats        - Connected client count
//
// # Development
//
// Run tests:
//
//	go test ./...
//
// Build the binary:
//
//	go build -o tessella ./cmd/tessella
//
// # Technology Stack
//
//   - Go 1.25+
//   - Echo v4 (Web framework)
//   - json-gold (JSON-LD processing)
//   - bluemonday (HTML sanitization)
//   - Cobra/Viper (CLI and configuration)
//   - zerolog (Structured logging)
//
// # License
//
// Tessella is open source software.
package tessella
