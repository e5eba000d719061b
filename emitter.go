package flashloop

import "github.com/hazyhaar/flashloop/internal/emitter"

// Re-exported so Loop callers configuring File vs Memory output don't
// need to import internal/emitter directly (same re-export pattern as
// types.go and the teacher's domwatch/config.go).
type Emitter = emitter.Emitter

// NewFileEmitter and NewMemoryEmitter construct the two Script Emitter
// variants (spec §4.9).
func NewFileEmitter(dir string) Emitter { return emitter.NewFile(dir) }
func NewMemoryEmitter() Emitter         { return emitter.NewMemory() }
