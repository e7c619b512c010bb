package store

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/xerrors"

	"github.com/vmnc/esports-api/pkg/identifier"
)

// IDField is the key every record carries its identifier under.
const IDField = "_id"

var (
	// ErrUnavailable means the backing store is not connected.
	ErrUnavailable = errors.New("storage unavailable")
	// ErrStorage wraps any other read or write failure.
	ErrStorage = errors.New("storage error")
	// ErrDuplicate is returned when a unique index rejects a write.
	ErrDuplicate = errors.New("duplicate key")
	// ErrInvalidID is returned when an identifier cannot be used by the backend.
	ErrInvalidID = errors.New("invalid identifier")
)

// Record is a single schemaless document.
type Record map[string]any

// ID returns the record identifier as a string, or "" when it has none.
func (r Record) ID() string {
	switch v := r[IDField].(type) {
	case nil:
		return ""
	case string:
		return v
	case fmt.Stringer:
		return v.String()
	default:
		return fmt.Sprint(v)
	}
}

// Clone returns a shallow copy of r.
func (r Record) Clone() Record {
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// Op is a comparison operator in a Condition.
type Op string

const (
	OpEq  Op = "=="
	OpGte Op = ">="
)

// Condition compares one top level field against a value.
type Condition struct {
	Field string
	Op    Op
	Value any
}

// Filter is a conjunction of conditions. An empty filter matches everything.
type Filter []Condition

// Eq matches records whose field equals value.
func Eq(field string, value any) Condition {
	return Condition{Field: field, Op: OpEq, Value: value}
}

// Gte matches records whose field is greater than or equal to value.
func Gte(field string, value any) Condition {
	return Condition{Field: field, Op: OpGte, Value: value}
}

// Sort orders results by a single field.
type Sort struct {
	Field string
	Desc  bool
}

// Asc sorts ascending by field.
func Asc(field string) *Sort {
	return &Sort{Field: field}
}

// Desc sorts descending by field.
func Desc(field string) *Sort {
	return &Sort{Field: field, Desc: true}
}

// Store is the uniform persistence interface every backend implements.
//
// Operations are individually atomic at best; sequences such as a delete
// followed by an insert are not.
type Store interface {
	// Name identifies the backend in health output.
	Name() string
	FetchAll(ctx context.Context, collection string) ([]Record, error)
	Find(ctx context.Context, collection string, filter Filter, sort *Sort) ([]Record, error)
	Count(ctx context.Context, collection string) (int64, error)
	// InsertOne stores record and returns its identifier, assigning one
	// when the record has none.
	InsertOne(ctx context.Context, collection string, record Record) (string, error)
	InsertMany(ctx context.Context, collection string, records []Record) (int, error)
	DeleteMany(ctx context.Context, collection string, filter Filter) (int64, error)
	// DeleteOne reports whether a record with id existed.
	DeleteOne(ctx context.Context, collection, id string) (bool, error)
	// UpdateOne sets fields on the record with id and reports whether it existed.
	UpdateOne(ctx context.Context, collection, id string, fields Record) (bool, error)
	Close(ctx context.Context) error
}

// Replacer is implemented by backends that can swap a collection's contents
// in a single step.
type Replacer interface {
	ReplaceAll(ctx context.Context, collection string, records []Record) (int, error)
}

// ReplaceAll deletes every record in collection and inserts records in its
// place. Backends that implement Replacer do it atomically; the rest fall
// back to delete-then-insert, during which readers can see an empty
// collection.
func ReplaceAll(ctx context.Context, s Store, collection string, records []Record) (int, error) {
	if r, ok := s.(Replacer); ok {
		return r.ReplaceAll(ctx, collection, records)
	}
	if _, err := s.DeleteMany(ctx, collection, nil); err != nil {
		return 0, err
	}
	if len(records) == 0 {
		return 0, nil
	}
	return s.InsertMany(ctx, collection, records)
}

// withID returns a copy of record that is guaranteed to carry an identifier.
func withID(record Record) Record {
	out := record.Clone()
	if out.ID() == "" {
		out[IDField] = identifier.New()
	}
	return out
}

// withoutID returns fields minus the identifier, which is never updated.
func withoutID(fields Record) Record {
	out := fields.Clone()
	delete(out, IDField)
	return out
}

func wrap(op, collection string, err error) error {
	if errors.Is(err, ErrUnavailable) || errors.Is(err, ErrDuplicate) || errors.Is(err, ErrInvalidID) {
		return xerrors.Errorf("%s %s: %w", op, collection, err)
	}
	return xerrors.Errorf("%s %s: %v: %w", op, collection, err, ErrStorage)
}
