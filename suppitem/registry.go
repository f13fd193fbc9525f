package suppitem

import (
	streamerrors "github.com/DrMcCoy/libgamecommon/errors"
	"github.com/DrMcCoy/libgamecommon/streams"
)

// Entry pairs an opened auxiliary stream with the callback that grows its
// backing, the same (stream, truncate_cb) pair every writable adapter in
// this module is built around.
type Entry struct {
	Stream     streams.Stream
	TruncateCB streams.TruncateFunc
}

// Registry tracks which supplemental items a caller has connected so far.
// It holds no opinion on how a stream got opened - that's the consumer's
// job; this just lets later code discover what's already available.
type Registry struct {
	entries map[Kind]Entry
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{entries: make(map[Kind]Entry)}
}

// Register connects kind to an opened stream and its truncate callback.
// Registering a kind a second time replaces the previous entry.
func (r *Registry) Register(kind Kind, stream streams.Stream, truncateCB streams.TruncateFunc) {
	r.entries[kind] = Entry{Stream: stream, TruncateCB: truncateCB}
}

// Lookup returns the entry registered for kind, if any.
func (r *Registry) Lookup(kind Kind) (Entry, bool) {
	entry, ok := r.entries[kind]
	return entry, ok
}

// MustLookup is Lookup but returns an error instead of a boolean, for
// callers that treat a missing supplemental item as fatal.
func (r *Registry) MustLookup(kind Kind) (Entry, error) {
	entry, ok := r.Lookup(kind)
	if !ok {
		return Entry{}, streamerrors.ErrInvalidArgument.WithMessage("no stream registered for " + kind.String())
	}
	return entry, nil
}

// Forget removes kind from the registry without closing its stream -
// callers own the stream's lifetime.
func (r *Registry) Forget(kind Kind) {
	delete(r.entries, kind)
}
