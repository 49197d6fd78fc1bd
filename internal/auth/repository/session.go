package repository

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	autherrors "orgboard/internal/auth/errors"
	"orgboard/pkg/config"
	"orgboard/pkg/model"
)

const SessionsCollection = "Sessions"

// SessionRepository is the durable session store. orgboard owns the
// records' lifecycle through it: created at login, destroyed at logout,
// expiry reap, or forced termination by an administrator.
type SessionRepository interface {
	Create(ctx context.Context, session *model.Session) error
	Get(ctx context.Context, sid string) (*model.Session, error)
	Delete(ctx context.Context, sid string) error
	List(ctx context.Context) ([]*model.Session, error)
}

type mongoSessionRepository struct {
	collection *mongo.Collection
}

func NewMongoSessionRepository(cfg *config.Config) SessionRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoSessionRepository{
		collection: db.Collection(SessionsCollection),
	}
}

func (r *mongoSessionRepository) Create(ctx context.Context, session *model.Session) error {
	_, err := r.collection.InsertOne(ctx, session)
	return err
}

func (r *mongoSessionRepository) Get(ctx context.Context, sid string) (*model.Session, error) {
	var session model.Session
	err := r.collection.FindOne(ctx, bson.M{"_id": sid}).Decode(&session)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, autherrors.ErrSessionNotFound
		}
		return nil, err
	}
	return &session, nil
}

func (r *mongoSessionRepository) Delete(ctx context.Context, sid string) error {
	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": sid})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return autherrors.ErrSessionNotFound
	}
	return nil
}

// List enumerates every stored session, newest expiry first. Expired but
// not yet reaped records are included; the directory decides how to
// present them.
func (r *mongoSessionRepository) List(ctx context.Context) ([]*model.Session, error) {
	opts := options.Find().SetSort(bson.D{{Key: "expires_at", Value: -1}})

	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var sessions []*model.Session
	if err := cursor.All(ctx, &sessions); err != nil {
		return nil, err
	}
	return sessions, nil
}
