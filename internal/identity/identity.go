// identity derives the stable key under which a document's cursor
// position is stored.
package identity

import (
	"fmt"
	"log"

	"github.com/google/uuid"
)

// Strategy selects how document identifiers are derived.
type Strategy string

const (
	// StrategyGenerated mints a time-ordered token into a named front
	// matter field when one is missing.
	StrategyGenerated Strategy = "generated"
	// StrategyUserField reads an existing, user-named front matter
	// field verbatim and never creates it.
	StrategyUserField Strategy = "user-field"
	// StrategyPath uses the document's vault path directly.
	StrategyPath Strategy = "path"
)

// Valid reports whether s is a known strategy.
func (s Strategy) Valid() bool {
	switch s {
	case StrategyGenerated, StrategyUserField, StrategyPath:
		return true
	}
	return false
}

// Metadata is the host's transactional front matter accessor. Mutations
// performed inside fn are persisted when fn reports a change.
type Metadata interface {
	Transact(path string, fn func(fields map[string]any) bool) error
}

// Resolver resolves document identifiers against front matter metadata.
type Resolver struct {
	meta Metadata
}

func NewResolver(meta Metadata) *Resolver {
	return &Resolver{meta: meta}
}

// Resolve returns the identifier for the document at path, or the empty
// string when no identifier applies. Empty means "do nothing" to every
// caller; metadata failures resolve to empty rather than an error.
// A missing generated token is minted and written only when create is
// true, so documents a user merely views are never mutated.
func (r *Resolver) Resolve(path string, strategy Strategy, field string, create bool) string {
	if strategy == StrategyPath {
		return path
	}
	if field == "" {
		return ""
	}

	var id string
	err := r.meta.Transact(path, func(fields map[string]any) bool {
		if value, ok := fields[field]; ok {
			id = coerce(value)
			return false
		}
		if strategy != StrategyGenerated || !create {
			return false
		}
		token, err := newToken()
		if err != nil {
			log.Printf("identity: failed to mint token for %s: %v", path, err)
			return false
		}
		fields[field] = token
		id = token
		return true
	})
	if err != nil {
		log.Printf("identity: metadata access failed for %s: %v", path, err)
		return ""
	}
	return id
}

// FromFields resolves an identifier from already-known front matter
// fields without touching the document. Used by cleanup against the
// document index.
func FromFields(fields map[string]any, strategy Strategy, field string, path string) string {
	if strategy == StrategyPath {
		return path
	}
	if field == "" {
		return ""
	}
	value, ok := fields[field]
	if !ok {
		return ""
	}
	return coerce(value)
}

// newToken mints a version 1 UUID: timestamp-derived, unique with
// overwhelming probability.
func newToken() (string, error) {
	token, err := uuid.NewUUID()
	if err != nil {
		return "", err
	}
	return token.String(), nil
}

func coerce(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	default:
		return fmt.Sprint(v)
	}
}
