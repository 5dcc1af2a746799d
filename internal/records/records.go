// Package records defines the generic document-store contract the rest of
// the service persists through. Documents are schemaless JSON objects grouped
// into named collections; validation of their shape happens in the school
// package before they reach a Store.
package records

import (
	"context"
	"errors"
)

var (
	ErrNotFound    = errors.New("records: not found")
	ErrUnavailable = errors.New("records: store unavailable")
)

// Document is one stored object. The "id" key is reserved and always present
// on documents returned from a Store.
type Document map[string]any

// ID returns the document identifier, if set.
func (d Document) ID() string {
	v, _ := d["id"].(string)
	return v
}

// Filter restricts List results to documents whose fields equal every entry.
type Filter map[string]any

// Store is the persistence contract for named collections.
type Store interface {
	// Create inserts one document and returns its generated id.
	Create(ctx context.Context, collection string, doc Document) (string, error)
	// List returns all documents in the collection matching the filter, in
	// insertion order. A nil filter matches everything.
	List(ctx context.Context, collection string, filter Filter) ([]Document, error)
	// UpdateOne applies the patch to the document with the given id and
	// returns the number of matched documents (0 or 1).
	UpdateOne(ctx context.Context, collection, id string, patch Document) (int64, error)
}
