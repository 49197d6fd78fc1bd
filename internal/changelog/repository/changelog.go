package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"orgboard/pkg/config"
	"orgboard/pkg/model"
)

const CollectionName = "Change_log"

type ChangeLogRepository interface {
	Insert(ctx context.Context, entry *model.ChangeEntry) error
	FindRecent(ctx context.Context, limit int) ([]*model.ChangeEntry, error)
}

type mongoChangeLogRepository struct {
	collection *mongo.Collection
}

func NewMongoChangeLogRepository(cfg *config.Config) ChangeLogRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoChangeLogRepository{
		collection: db.Collection(CollectionName),
	}
}

func (r *mongoChangeLogRepository) Insert(ctx context.Context, entry *model.ChangeEntry) error {
	if entry.ID == "" {
		entry.ID = primitive.NewObjectID().Hex()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}

	_, err := r.collection.InsertOne(ctx, entry)
	return err
}

func (r *mongoChangeLogRepository) FindRecent(ctx context.Context, limit int) ([]*model.ChangeEntry, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(int64(limit))

	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var entries []*model.ChangeEntry
	if err := cursor.All(ctx, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}
