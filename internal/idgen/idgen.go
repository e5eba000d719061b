// Package idgen generates short opaque identifiers for pages, batches and
// dialogs. The upstream monorepo's own idgen lives in a private module we
// cannot vendor (github.com/hazyhaar/pkg, local-replace only); this is a
// self-contained reimplementation of the same call shape (idgen.New()).
package idgen

import "github.com/google/uuid"

// New returns a new random identifier string.
func New() string {
	return uuid.NewString()
}
