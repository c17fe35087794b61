package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"epicase/internal/epicase/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoRepository keeps one collection per record kind. A record and its edit log
// live in the same document so every mutation is a single atomic update.
type MongoRepository struct {
	Collections map[string]*mongo.Collection
	now         func() time.Time
}

// NewMongoRepository maps each record kind to the named collection.
func NewMongoRepository(db *mongo.Database, collections map[string]string) *MongoRepository {
	repo := &MongoRepository{
		Collections: make(map[string]*mongo.Collection, len(collections)),
		now:         time.Now,
	}
	for kind, name := range collections {
		repo.Collections[kind] = db.Collection(name)
	}
	return repo
}

func (r *MongoRepository) collection(kind string) (*mongo.Collection, error) {
	coll, ok := r.Collections[kind]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownKind, kind)
	}
	return coll, nil
}

func (r *MongoRepository) EnsureIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		// Listing: active records, newest first
		{
			Keys: bson.D{
				{Key: "isDeleted", Value: 1},
				{Key: "updatedAt", Value: -1},
			},
			Options: options.Index().SetName("idx_active_updated"),
		},
		// Audit lookups by editor
		{
			Keys:    bson.D{{Key: "editHistory.editedBy", Value: 1}},
			Options: options.Index().SetName("idx_history_editor"),
		},
	}

	for kind, coll := range r.Collections {
		if _, err := coll.Indexes().CreateMany(ctx, indexes); err != nil {
			return fmt.Errorf("ensure indexes for %s: %w", kind, err)
		}
	}
	return nil
}

func (r *MongoRepository) Insert(ctx context.Context, rec *model.Record) error {
	coll, err := r.collection(rec.Kind)
	if err != nil {
		return err
	}

	now := r.now().UTC().Truncate(time.Millisecond)
	rec.ID = primitive.NewObjectID()
	rec.CreatedAt = now
	rec.UpdatedAt = now
	rec.Revision = 1

	if _, err := coll.InsertOne(ctx, rec); err != nil {
		return err
	}
	rec.PersistedEntries = len(rec.History)
	return nil
}

func (r *MongoRepository) FindByID(ctx context.Context, kind, id string, includeDeleted bool) (*model.Record, error) {
	coll, err := r.collection(kind)
	if err != nil {
		return nil, err
	}
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}

	filter := bson.M{"_id": oid}
	if !includeDeleted {
		filter["isDeleted"] = bson.M{"$ne": true}
	}

	var rec model.Record
	if err := coll.FindOne(ctx, filter).Decode(&rec); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	rec.PersistedEntries = len(rec.History)
	return &rec, nil
}

func (r *MongoRepository) List(ctx context.Context, kind string, filter model.RecordFilter) ([]*model.Record, int64, error) {
	coll, err := r.collection(kind)
	if err != nil {
		return nil, 0, err
	}

	query := bson.M{}
	if !filter.IncludeDeleted {
		query["isDeleted"] = bson.M{"$ne": true}
	}

	total, err := coll.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, err
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "updatedAt", Value: -1}, {Key: "_id", Value: -1}}).
		SetSkip(int64((filter.Page - 1) * filter.Size)).
		SetLimit(int64(filter.Size)).
		SetProjection(bson.M{"editHistory": 0})

	cursor, err := coll.Find(ctx, query, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	var records []*model.Record
	if err := cursor.All(ctx, &records); err != nil {
		return nil, 0, err
	}
	return records, total, nil
}

// Save is a compare-and-swap on the revision. Entries appended since the record
// was loaded are pushed; stored entries are never rewritten.
func (r *MongoRepository) Save(ctx context.Context, rec *model.Record) error {
	coll, err := r.collection(rec.Kind)
	if err != nil {
		return err
	}
	if rec.PersistedEntries > len(rec.History) {
		return fmt.Errorf("edit log shrank from %d to %d entries", rec.PersistedEntries, len(rec.History))
	}

	now := r.now().UTC().Truncate(time.Millisecond)
	fresh := rec.History[rec.PersistedEntries:]

	update := bson.M{
		"$set": bson.M{
			"fields":    rec.Fields,
			"isDeleted": rec.IsDeleted,
			"deletedAt": rec.DeletedAt,
			"deletedBy": rec.DeletedBy,
			"updatedBy": rec.UpdatedBy,
			"updatedAt": now,
		},
		"$inc": bson.M{"revision": 1},
	}
	if len(fresh) > 0 {
		update["$push"] = bson.M{"editHistory": bson.M{"$each": fresh}}
	}

	res, err := coll.UpdateOne(ctx, bson.M{"_id": rec.ID, "revision": rec.Revision}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrRevisionConflict
	}

	rec.Revision++
	rec.UpdatedAt = now
	rec.PersistedEntries = len(rec.History)
	return nil
}
