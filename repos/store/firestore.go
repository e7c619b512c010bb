package store

import (
	"context"
	"fmt"
	"sync/atomic"

	"cloud.google.com/go/firestore"
	"cloud.google.com/go/firestore/apiv1/firestorepb"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/vmnc/esports-api/pkg/identifier"
)

// FirestoreStore is the Cloud Firestore backend. The record identifier is the
// document ID and is not stored inside the document.
type FirestoreStore struct {
	client *firestore.Client
	closed atomic.Bool
}

// OpenFirestore creates a client for projectID.
func OpenFirestore(ctx context.Context, projectID string, opts ...option.ClientOption) (*FirestoreStore, error) {
	client, err := firestore.NewClient(ctx, projectID, opts...)
	if err != nil {
		return nil, fmt.Errorf("create firestore client: %w", err)
	}
	return &FirestoreStore{client: client}, nil
}

func (s *FirestoreStore) Name() string { return "firestore" }

func (s *FirestoreStore) FetchAll(ctx context.Context, collection string) ([]Record, error) {
	return s.Find(ctx, collection, nil, nil)
}

// Find pushes conditions down as where clauses and sorts in process, which
// keeps every query servable without composite indexes.
func (s *FirestoreStore) Find(ctx context.Context, collection string, filter Filter, sort *Sort) ([]Record, error) {
	if s.closed.Load() {
		return nil, wrap("find", collection, ErrUnavailable)
	}

	if id, rest, ok := splitIDCondition(filter); ok {
		return s.findByID(ctx, collection, id, rest)
	}

	q := s.client.Collection(collection).Query
	for _, c := range filter {
		q = q.Where(c.Field, string(c.Op), c.Value)
	}

	iter := q.Documents(ctx)
	defer iter.Stop()

	out := []Record{}
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, firestoreErr("find", collection, err)
		}
		out = append(out, docToRecord(doc))
	}
	sortRecords(out, sort)
	return out, nil
}

// findByID serves filters pinned to one document, since the identifier is
// the document ID and cannot be queried as a field.
func (s *FirestoreStore) findByID(ctx context.Context, collection, id string, rest Filter) ([]Record, error) {
	ref, err := s.doc(collection, id)
	if err != nil {
		return []Record{}, nil
	}
	snap, err := ref.Get(ctx)
	if status.Code(err) == codes.NotFound {
		return []Record{}, nil
	}
	if err != nil {
		return nil, firestoreErr("find", collection, err)
	}
	r := docToRecord(snap)
	if !matches(r, rest) {
		return []Record{}, nil
	}
	return []Record{r}, nil
}

func (s *FirestoreStore) Count(ctx context.Context, collection string) (int64, error) {
	if s.closed.Load() {
		return 0, wrap("count", collection, ErrUnavailable)
	}
	res, err := s.client.Collection(collection).NewAggregationQuery().WithCount("all").Get(ctx)
	if err != nil {
		return 0, firestoreErr("count", collection, err)
	}
	v, ok := res["all"].(*firestorepb.Value)
	if !ok {
		return 0, wrap("count", collection, fmt.Errorf("unexpected count result %T", res["all"]))
	}
	return v.GetIntegerValue(), nil
}

func (s *FirestoreStore) InsertOne(ctx context.Context, collection string, record Record) (string, error) {
	if s.closed.Load() {
		return "", wrap("insert", collection, ErrUnavailable)
	}
	r := withID(record)
	ref, err := s.doc(collection, r.ID())
	if err != nil {
		return "", wrap("insert", collection, err)
	}
	if _, err := ref.Create(ctx, map[string]interface{}(withoutID(r))); err != nil {
		return "", firestoreErr("insert", collection, err)
	}
	return r.ID(), nil
}

func (s *FirestoreStore) InsertMany(ctx context.Context, collection string, records []Record) (int, error) {
	if s.closed.Load() {
		return 0, wrap("insert", collection, ErrUnavailable)
	}
	if len(records) == 0 {
		return 0, nil
	}

	bw := s.client.BulkWriter(ctx)
	jobs := make([]*firestore.BulkWriterJob, 0, len(records))
	for _, record := range records {
		r := withID(record)
		ref, err := s.doc(collection, r.ID())
		if err != nil {
			bw.End()
			return 0, wrap("insert", collection, err)
		}
		job, err := bw.Create(ref, map[string]interface{}(withoutID(r)))
		if err != nil {
			bw.End()
			return 0, firestoreErr("insert", collection, err)
		}
		jobs = append(jobs, job)
	}
	bw.End()

	for _, job := range jobs {
		if _, err := job.Results(); err != nil {
			return 0, firestoreErr("insert", collection, err)
		}
	}
	return len(jobs), nil
}

func (s *FirestoreStore) DeleteMany(ctx context.Context, collection string, filter Filter) (int64, error) {
	docs, err := s.Find(ctx, collection, filter, nil)
	if err != nil {
		return 0, err
	}
	if len(docs) == 0 {
		return 0, nil
	}

	bw := s.client.BulkWriter(ctx)
	jobs := make([]*firestore.BulkWriterJob, 0, len(docs))
	for _, d := range docs {
		job, err := bw.Delete(s.client.Collection(collection).Doc(d.ID()))
		if err != nil {
			bw.End()
			return 0, firestoreErr("delete", collection, err)
		}
		jobs = append(jobs, job)
	}
	bw.End()

	var deleted int64
	for _, job := range jobs {
		if _, err := job.Results(); err != nil {
			return deleted, firestoreErr("delete", collection, err)
		}
		deleted++
	}
	return deleted, nil
}

func (s *FirestoreStore) DeleteOne(ctx context.Context, collection, id string) (bool, error) {
	if s.closed.Load() {
		return false, wrap("delete", collection, ErrUnavailable)
	}
	ref, err := s.doc(collection, id)
	if err != nil {
		return false, nil
	}
	if _, err := ref.Delete(ctx, firestore.Exists); err != nil {
		if status.Code(err) == codes.NotFound {
			return false, nil
		}
		return false, firestoreErr("delete", collection, err)
	}
	return true, nil
}

func (s *FirestoreStore) UpdateOne(ctx context.Context, collection, id string, fields Record) (bool, error) {
	if s.closed.Load() {
		return false, wrap("update", collection, ErrUnavailable)
	}
	ref, err := s.doc(collection, id)
	if err != nil {
		return false, nil
	}

	set := withoutID(fields)
	if len(set) == 0 {
		snap, err := ref.Get(ctx)
		if status.Code(err) == codes.NotFound {
			return false, nil
		}
		if err != nil {
			return false, firestoreErr("update", collection, err)
		}
		return snap.Exists(), nil
	}

	updates := make([]firestore.Update, 0, len(set))
	for k, v := range set {
		updates = append(updates, firestore.Update{FieldPath: firestore.FieldPath{k}, Value: v})
	}
	if _, err := ref.Update(ctx, updates); err != nil {
		if status.Code(err) == codes.NotFound {
			return false, nil
		}
		return false, firestoreErr("update", collection, err)
	}
	return true, nil
}

func (s *FirestoreStore) Close(context.Context) error {
	if s.closed.Swap(true) {
		return nil
	}
	return s.client.Close()
}

func (s *FirestoreStore) doc(collection, id string) (*firestore.DocumentRef, error) {
	if !identifier.Valid(id) {
		return nil, fmt.Errorf("document id %q: %w", id, ErrInvalidID)
	}
	return s.client.Collection(collection).Doc(id), nil
}

func docToRecord(doc *firestore.DocumentSnapshot) Record {
	r := Record(doc.Data())
	if r == nil {
		r = Record{}
	}
	r[IDField] = doc.Ref.ID
	return r
}

func firestoreErr(op, collection string, err error) error {
	switch status.Code(err) {
	case codes.Unavailable, codes.DeadlineExceeded:
		return wrap(op, collection, fmt.Errorf("%v: %w", err, ErrUnavailable))
	case codes.AlreadyExists:
		return wrap(op, collection, ErrDuplicate)
	}
	return wrap(op, collection, err)
}
