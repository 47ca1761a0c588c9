package models

import (
	"fmt"

	"github.com/google/uuid"
)

// GenerateID mints a URN identifier for a resource submitted without one.
// Example: GenerateID() -> "urn:uuid:9b2c..."
//
// Only the import boundaries (CLI, API) mint identifiers; the vault core
// never invents ids on its own.
func GenerateID() string {
	return fmt.Sprintf("urn:uuid:%s", uuid.New().String())
}
