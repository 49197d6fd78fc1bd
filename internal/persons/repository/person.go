package repository

import (
	"context"
	"errors"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	personserrors "orgboard/internal/persons/errors"
	"orgboard/pkg/config"
	"orgboard/pkg/model"
)

const CollectionName = "Persons"

type PersonRepository interface {
	Create(ctx context.Context, person *model.Person) error
	FindByID(ctx context.Context, id string) (*model.Person, error)
	Find(ctx context.Context, filter string, limit int, offset int64) ([]*model.Person, error)
	Count(ctx context.Context, filter string) (int64, error)
	Update(ctx context.Context, id string, person *model.Person) error
	Delete(ctx context.Context, id string) error
	CountByTeam(ctx context.Context, teamID string) (int64, error)
}

type mongoPersonRepository struct {
	collection *mongo.Collection
}

func NewMongoPersonRepository(cfg *config.Config) PersonRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoPersonRepository{
		collection: db.Collection(CollectionName),
	}
}

// filterQuery matches the free-text filter against first name, last
// name, and email, case-insensitively.
func filterQuery(filter string) bson.M {
	if filter == "" {
		return bson.M{}
	}
	regex := primitive.Regex{Pattern: regexp.QuoteMeta(filter), Options: "i"}
	return bson.M{"$or": []bson.M{
		{"firstname": regex},
		{"lastname": regex},
		{"email": regex},
	}}
}

func (r *mongoPersonRepository) Create(ctx context.Context, person *model.Person) error {
	person.ID = primitive.NewObjectID().Hex()
	person.CreatedAt = time.Now()

	_, err := r.collection.InsertOne(ctx, person)
	return err
}

func (r *mongoPersonRepository) FindByID(ctx context.Context, id string) (*model.Person, error) {
	if _, err := primitive.ObjectIDFromHex(id); err != nil {
		return nil, personserrors.ErrInvalidID
	}

	var person model.Person
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&person)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, personserrors.ErrNotFound
		}
		return nil, err
	}
	return &person, nil
}

func (r *mongoPersonRepository) Find(ctx context.Context, filter string, limit int, offset int64) ([]*model.Person, error) {
	opts := options.Find().
		SetLimit(int64(limit)).
		SetSkip(offset).
		SetSort(bson.D{{Key: "lastname", Value: 1}, {Key: "firstname", Value: 1}})

	cursor, err := r.collection.Find(ctx, filterQuery(filter), opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var persons []*model.Person
	if err := cursor.All(ctx, &persons); err != nil {
		return nil, err
	}
	return persons, nil
}

func (r *mongoPersonRepository) Count(ctx context.Context, filter string) (int64, error) {
	return r.collection.CountDocuments(ctx, filterQuery(filter))
}

func (r *mongoPersonRepository) Update(ctx context.Context, id string, person *model.Person) error {
	if _, err := primitive.ObjectIDFromHex(id); err != nil {
		return personserrors.ErrInvalidID
	}

	res, err := r.collection.ReplaceOne(ctx, bson.M{"_id": id}, person)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return personserrors.ErrNotFound
	}
	return nil
}

func (r *mongoPersonRepository) Delete(ctx context.Context, id string) error {
	if _, err := primitive.ObjectIDFromHex(id); err != nil {
		return personserrors.ErrInvalidID
	}

	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return personserrors.ErrNotFound
	}
	return nil
}

func (r *mongoPersonRepository) CountByTeam(ctx context.Context, teamID string) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{"team_ids": teamID})
}
