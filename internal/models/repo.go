package models

import (
	"context"

	"github.com/go-playground/validator/v10"
	"github.com/supabase-community/supabase-go"
	"go.mongodb.org/mongo-driver/mongo"
)

var Validate = validator.New()

// EventStore is a durable id -> Event map with stable ascending key order.
// Get returns ErrNotFound for a missing id. Insert is an upsert of the whole
// record.
type EventStore interface {
	Get(ctx context.Context, id string) (*Event, error)
	Insert(ctx context.Context, event *Event) error
	Remove(ctx context.Context, id string) error
	Values(ctx context.Context) ([]*Event, error)
}

type SupabaseRepo struct {
	supabaseClient *supabase.Client
}

func SupabaseNewRepo(supabaseClient *supabase.Client) *SupabaseRepo {
	return &SupabaseRepo{
		supabaseClient: supabaseClient,
	}
}

type MongodbRepo struct {
	mongodbClient *mongo.Client
	dbName        string
}

func MongodbNewRepo(mongodbClient *mongo.Client, dbName string) *MongodbRepo {
	if dbName == "" {
		dbName = EventsDbName
	}
	return &MongodbRepo{
		mongodbClient: mongodbClient,
		dbName:        dbName,
	}
}
