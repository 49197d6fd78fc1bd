package repository

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	teamserrors "orgboard/internal/teams/errors"
	"orgboard/pkg/config"
	"orgboard/pkg/model"
)

const CollectionName = "Teams"

type TeamRepository interface {
	Create(ctx context.Context, team *model.Team) error
	FindByID(ctx context.Context, id string) (*model.Team, error)
	FindAll(ctx context.Context) ([]*model.Team, error)
	Update(ctx context.Context, id string, team *model.Team) error
	Delete(ctx context.Context, id string) error
	Exists(ctx context.Context, id string) (bool, error)
}

type mongoTeamRepository struct {
	collection *mongo.Collection
}

func NewMongoTeamRepository(cfg *config.Config) TeamRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoTeamRepository{
		collection: db.Collection(CollectionName),
	}
}

func objectIDFromHex(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, teamserrors.ErrInvalidID
	}
	return oid, nil
}

func (r *mongoTeamRepository) Create(ctx context.Context, team *model.Team) error {
	team.ID = primitive.NewObjectID().Hex()
	team.CreatedAt = time.Now()

	_, err := r.collection.InsertOne(ctx, team)
	return err
}

func (r *mongoTeamRepository) FindByID(ctx context.Context, id string) (*model.Team, error) {
	if _, err := objectIDFromHex(id); err != nil {
		return nil, err
	}

	var team model.Team
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&team)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, teamserrors.ErrNotFound
		}
		return nil, err
	}
	return &team, nil
}

func (r *mongoTeamRepository) FindAll(ctx context.Context) ([]*model.Team, error) {
	opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})

	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var teams []*model.Team
	if err := cursor.All(ctx, &teams); err != nil {
		return nil, err
	}
	return teams, nil
}

func (r *mongoTeamRepository) Update(ctx context.Context, id string, team *model.Team) error {
	if _, err := objectIDFromHex(id); err != nil {
		return err
	}

	res, err := r.collection.ReplaceOne(ctx, bson.M{"_id": id}, team)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return teamserrors.ErrNotFound
	}
	return nil
}

func (r *mongoTeamRepository) Delete(ctx context.Context, id string) error {
	if _, err := objectIDFromHex(id); err != nil {
		return err
	}

	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return teamserrors.ErrNotFound
	}
	return nil
}

func (r *mongoTeamRepository) Exists(ctx context.Context, id string) (bool, error) {
	if _, err := objectIDFromHex(id); err != nil {
		return false, err
	}

	count, err := r.collection.CountDocuments(ctx, bson.M{"_id": id})
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
