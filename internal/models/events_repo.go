package models

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func (mdb *MongodbRepo) GetCollection(ctx context.Context, dbName, colName string) (*mongo.Collection, error) {
	if mdb.mongodbClient == nil {
		return nil, fmt.Errorf("mongodb client is not initialized")
	}
	client := mdb.mongodbClient.Database(dbName).Collection(colName)
	return client, nil
}

// EnsureIndexes creates the secondary indexes used by the organizer and
// timeline listings.
func (mdb *MongodbRepo) EnsureIndexes(ctx context.Context) error {
	col, err := mdb.GetCollection(ctx, mdb.dbName, EventsColName)
	if err != nil {
		return fmt.Errorf("error getting collection: %v", err)
	}

	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "owner", Value: 1}},
			Options: options.Index().SetName("owner_idx"),
		},
		{
			Keys:    bson.D{{Key: "event_date", Value: 1}},
			Options: options.Index().SetName("event_date_idx"),
		},
	}

	if _, err := col.Indexes().CreateMany(ctx, indexes); err != nil {
		return fmt.Errorf("failed to create event indexes: %w", err)
	}
	return nil
}

func (mdb *MongodbRepo) Get(ctx context.Context, id string) (*Event, error) {
	col, err := mdb.GetCollection(ctx, mdb.dbName, EventsColName)
	if err != nil {
		return nil, fmt.Errorf("error getting collection: %w", err)
	}

	var event Event
	err = col.FindOne(ctx, bson.M{"_id": id}).Decode(&event)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("error finding event by ID: %w", err)
	}
	event.normalize()
	return &event, nil
}

func (mdb *MongodbRepo) Insert(ctx context.Context, event *Event) error {
	col, err := mdb.GetCollection(ctx, mdb.dbName, EventsColName)
	if err != nil {
		return fmt.Errorf("error getting collection: %w", err)
	}

	opts := options.Replace().SetUpsert(true)
	if _, err := col.ReplaceOne(ctx, bson.M{"_id": event.ID}, event, opts); err != nil {
		return fmt.Errorf("error upserting event: %w", err)
	}
	return nil
}

func (mdb *MongodbRepo) Remove(ctx context.Context, id string) error {
	col, err := mdb.GetCollection(ctx, mdb.dbName, EventsColName)
	if err != nil {
		return fmt.Errorf("error getting collection: %w", err)
	}

	if _, err := col.DeleteOne(ctx, bson.M{"_id": id}); err != nil {
		return fmt.Errorf("error deleting event: %w", err)
	}
	return nil
}

func (mdb *MongodbRepo) Values(ctx context.Context) ([]*Event, error) {
	col, err := mdb.GetCollection(ctx, mdb.dbName, EventsColName)
	if err != nil {
		return nil, fmt.Errorf("error getting collection: %w", err)
	}

	opts := options.Find().SetSort(bson.D{{Key: "_id", Value: 1}})
	cursor, err := col.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("error finding events: %w", err)
	}
	defer cursor.Close(ctx)

	events := []*Event{}
	for cursor.Next(ctx) {
		var event Event
		if err := cursor.Decode(&event); err != nil {
			return nil, fmt.Errorf("error decoding event: %w", err)
		}
		event.normalize()
		events = append(events, &event)
	}

	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("cursor error: %w", err)
	}

	return events, nil
}
