package store

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoStore is the MongoDB backend.
type MongoStore struct {
	client *mongo.Client
	db     *mongo.Database
	closed atomic.Bool
}

// OpenMongo connects to uri and pings the primary so a bad connection fails
// at startup instead of on the first request.
func OpenMongo(ctx context.Context, uri, database string) (*MongoStore, error) {
	opts := options.Client().
		ApplyURI(uri).
		SetBSONOptions(&options.BSONOptions{DefaultDocumentM: true})

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("connect mongodb: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("ping mongodb: %w", err)
	}
	return &MongoStore{client: client, db: client.Database(database)}, nil
}

func (s *MongoStore) Name() string { return "mongodb" }

// EnsureIndexes creates the unique indexes backing registration and
// verification uniqueness.
func (s *MongoStore) EnsureIndexes(ctx context.Context) error {
	registrations := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "tournamentId", Value: 1}, {Key: "teamName", Value: 1}},
			Options: options.Index().SetName("uniq_tournament_team").SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "tournamentId", Value: 1}, {Key: "userId", Value: 1}},
			Options: options.Index().
				SetName("uniq_tournament_user").
				SetUnique(true).
				SetPartialFilterExpression(bson.M{"userId": bson.M{"$gt": ""}}),
		},
	}
	if _, err := s.db.Collection(TournamentRegistrations).Indexes().CreateMany(ctx, registrations); err != nil {
		return fmt.Errorf("create %s indexes: %w", TournamentRegistrations, err)
	}

	pending := mongo.IndexModel{
		Keys: bson.D{{Key: "discord_id", Value: 1}},
		Options: options.Index().
			SetName("uniq_pending_discord_id").
			SetUnique(true).
			SetPartialFilterExpression(bson.M{"status": "pending"}),
	}
	if _, err := s.db.Collection(VerificationRequests).Indexes().CreateOne(ctx, pending); err != nil {
		return fmt.Errorf("create %s indexes: %w", VerificationRequests, err)
	}
	return nil
}

func (s *MongoStore) FetchAll(ctx context.Context, collection string) ([]Record, error) {
	return s.Find(ctx, collection, nil, nil)
}

func (s *MongoStore) Find(ctx context.Context, collection string, filter Filter, sort *Sort) ([]Record, error) {
	if s.closed.Load() {
		return nil, wrap("find", collection, ErrUnavailable)
	}

	opts := options.Find()
	if sort != nil {
		dir := 1
		if sort.Desc {
			dir = -1
		}
		opts.SetSort(bson.D{{Key: sort.Field, Value: dir}})
	}

	cur, err := s.db.Collection(collection).Find(ctx, mongoFilter(filter), opts)
	if err != nil {
		return nil, mongoErr("find", collection, err)
	}
	var docs []bson.M
	if err := cur.All(ctx, &docs); err != nil {
		return nil, mongoErr("find", collection, err)
	}

	out := make([]Record, 0, len(docs))
	for _, doc := range docs {
		out = append(out, fromBSON(doc))
	}
	return out, nil
}

func (s *MongoStore) Count(ctx context.Context, collection string) (int64, error) {
	if s.closed.Load() {
		return 0, wrap("count", collection, ErrUnavailable)
	}
	n, err := s.db.Collection(collection).CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, mongoErr("count", collection, err)
	}
	return n, nil
}

func (s *MongoStore) InsertOne(ctx context.Context, collection string, record Record) (string, error) {
	if s.closed.Load() {
		return "", wrap("insert", collection, ErrUnavailable)
	}
	r := withID(record)
	if _, err := s.db.Collection(collection).InsertOne(ctx, bson.M(r)); err != nil {
		return "", mongoErr("insert", collection, err)
	}
	return r.ID(), nil
}

func (s *MongoStore) InsertMany(ctx context.Context, collection string, records []Record) (int, error) {
	if s.closed.Load() {
		return 0, wrap("insert", collection, ErrUnavailable)
	}
	if len(records) == 0 {
		return 0, nil
	}
	docs := make([]interface{}, len(records))
	for i, r := range records {
		docs[i] = bson.M(withID(r))
	}
	res, err := s.db.Collection(collection).InsertMany(ctx, docs)
	if err != nil {
		return 0, mongoErr("insert", collection, err)
	}
	return len(res.InsertedIDs), nil
}

func (s *MongoStore) DeleteMany(ctx context.Context, collection string, filter Filter) (int64, error) {
	if s.closed.Load() {
		return 0, wrap("delete", collection, ErrUnavailable)
	}
	res, err := s.db.Collection(collection).DeleteMany(ctx, mongoFilter(filter))
	if err != nil {
		return 0, mongoErr("delete", collection, err)
	}
	return res.DeletedCount, nil
}

func (s *MongoStore) DeleteOne(ctx context.Context, collection, id string) (bool, error) {
	if s.closed.Load() {
		return false, wrap("delete", collection, ErrUnavailable)
	}
	res, err := s.db.Collection(collection).DeleteOne(ctx, idFilter(id))
	if err != nil {
		return false, mongoErr("delete", collection, err)
	}
	return res.DeletedCount > 0, nil
}

func (s *MongoStore) UpdateOne(ctx context.Context, collection, id string, fields Record) (bool, error) {
	if s.closed.Load() {
		return false, wrap("update", collection, ErrUnavailable)
	}
	set := withoutID(fields)
	if len(set) == 0 {
		n, err := s.db.Collection(collection).CountDocuments(ctx, idFilter(id))
		if err != nil {
			return false, mongoErr("update", collection, err)
		}
		return n > 0, nil
	}
	res, err := s.db.Collection(collection).UpdateOne(ctx, idFilter(id), bson.M{"$set": bson.M(set)})
	if err != nil {
		return false, mongoErr("update", collection, err)
	}
	return res.MatchedCount > 0, nil
}

func (s *MongoStore) Close(ctx context.Context) error {
	if s.closed.Swap(true) {
		return nil
	}
	return s.client.Disconnect(ctx)
}

// idFilter matches id as stored, and also as an ObjectID for records created
// before identifiers were strings.
func idFilter(id string) bson.M {
	if oid, err := primitive.ObjectIDFromHex(id); err == nil {
		return bson.M{IDField: bson.M{"$in": bson.A{id, oid}}}
	}
	return bson.M{IDField: id}
}

func mongoFilter(filter Filter) bson.M {
	if len(filter) == 0 {
		return bson.M{}
	}
	clauses := make(bson.A, 0, len(filter))
	for _, c := range filter {
		switch {
		case c.Field == IDField && c.Op == OpEq:
			if id, ok := c.Value.(string); ok {
				clauses = append(clauses, idFilter(id))
				continue
			}
			clauses = append(clauses, bson.M{c.Field: c.Value})
		case c.Op == OpGte:
			clauses = append(clauses, bson.M{c.Field: bson.M{"$gte": c.Value}})
		default:
			clauses = append(clauses, bson.M{c.Field: c.Value})
		}
	}
	if len(clauses) == 1 {
		return clauses[0].(bson.M)
	}
	return bson.M{"$and": clauses}
}

func fromBSON(doc bson.M) Record {
	r := Record(doc)
	if oid, ok := r[IDField].(primitive.ObjectID); ok {
		r[IDField] = oid.Hex()
	}
	return r
}

func mongoErr(op, collection string, err error) error {
	switch {
	case mongo.IsDuplicateKeyError(err):
		return wrap(op, collection, ErrDuplicate)
	case errors.Is(err, mongo.ErrClientDisconnected), mongo.IsNetworkError(err), mongo.IsTimeout(err):
		return wrap(op, collection, fmt.Errorf("%v: %w", err, ErrUnavailable))
	}
	return wrap(op, collection, err)
}
