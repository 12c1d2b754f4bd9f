// Package mongo stores weather records in a single MongoDB collection, the
// document layout used by the original deployments.
package mongo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/i474232898/weather-tagger/internal/weather"
)

const collectionName = "weatherdatas"

type document struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	City        string             `bson:"city"`
	Temperature float64            `bson:"temperature"`
	Description string             `bson:"description"`
	Date        string             `bson:"date"`
	Tags        []string           `bson:"tags"`
	Timezone    int                `bson:"timezone"`
}

func (d document) record() weather.Record {
	tags := d.Tags
	if tags == nil {
		tags = []string{}
	}
	return weather.Record{
		ID:          d.ID.Hex(),
		City:        d.City,
		Temperature: d.Temperature,
		Description: d.Description,
		Date:        d.Date,
		Tags:        tags,
		Timezone:    d.Timezone,
	}
}

// Store is a weather.Store backed by MongoDB.
type Store struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// New connects to uri and uses the named database.
func New(ctx context.Context, uri, database string) (*Store, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, err
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, err
	}

	coll := client.Database(database).Collection(collectionName)
	_, err = coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "date", Value: -1}}},
		{Keys: bson.D{{Key: "city", Value: 1}}},
		{Keys: bson.D{{Key: "tags", Value: 1}}},
	})
	if err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("create indexes: %w", err)
	}
	return &Store{client: client, coll: coll}, nil
}

func (s *Store) Close() error {
	return s.client.Disconnect(context.Background())
}

func (s *Store) Create(ctx context.Context, rec weather.Record) (weather.Record, error) {
	doc := document{
		ID:          primitive.NewObjectID(),
		City:        rec.City,
		Temperature: rec.Temperature,
		Description: rec.Description,
		Date:        rec.Date,
		Tags:        rec.Tags,
		Timezone:    rec.Timezone,
	}
	if doc.Tags == nil {
		doc.Tags = []string{}
	}
	if _, err := s.coll.InsertOne(ctx, doc); err != nil {
		return weather.Record{}, fmt.Errorf("insert weather record: %w", err)
	}
	return doc.record(), nil
}

// filterDoc translates a weather.Filter into a bson query: a scalar match on
// the tags array and $in on city.
func filterDoc(f weather.Filter) bson.M {
	query := bson.M{}
	if f.Tag != "" {
		query["tags"] = f.Tag
	}
	if len(f.Cities) > 0 {
		query["city"] = bson.M{"$in": f.Cities}
	}
	return query
}

func (s *Store) List(ctx context.Context, q weather.ListQuery) ([]weather.Record, int, error) {
	query := filterDoc(q.Filter)

	total, err := s.coll.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, fmt.Errorf("count weather records: %w", err)
	}

	// ObjectIDs grow with insertion time, which breaks date ties newest first.
	opts := options.Find().
		SetSort(bson.D{{Key: "date", Value: -1}, {Key: "_id", Value: -1}}).
		SetSkip(int64(q.Offset())).
		SetLimit(int64(q.Limit))

	cur, err := s.coll.Find(ctx, query, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("query weather records: %w", err)
	}
	defer cur.Close(ctx)

	records := make([]weather.Record, 0)
	for cur.Next(ctx) {
		var doc document
		if err := cur.Decode(&doc); err != nil {
			return nil, 0, err
		}
		records = append(records, doc.record())
	}
	return records, int(total), cur.Err()
}

func (s *Store) UpdateTags(ctx context.Context, id string, tags []string) (weather.Record, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return weather.Record{}, weather.ErrNotFound
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var doc document
	err = s.coll.FindOneAndUpdate(ctx, bson.M{"_id": oid}, bson.M{"$set": bson.M{"tags": tags}}, opts).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return weather.Record{}, weather.ErrNotFound
	}
	if err != nil {
		return weather.Record{}, fmt.Errorf("update tags: %w", err)
	}
	return doc.record(), nil
}
