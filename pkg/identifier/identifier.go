package identifier

import (
	"strings"

	"github.com/samborkent/uuidv7"
)

// New returns a fresh record identifier. Identifiers are uuidv7 strings, so
// they sort by creation time and are never reused.
func New() string {
	return uuidv7.New().String()
}

// Valid reports whether id looks like something New could have produced or a
// caller-supplied identifier we are willing to store.
func Valid(id string) bool {
	return strings.TrimSpace(id) != "" && !strings.ContainsAny(id, "/\\")
}
