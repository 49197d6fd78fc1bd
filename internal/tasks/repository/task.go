package repository

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	taskserrors "orgboard/internal/tasks/errors"
	"orgboard/pkg/config"
	"orgboard/pkg/model"
)

const CollectionName = "Tasks"

type TaskRepository interface {
	Create(ctx context.Context, task *model.Task) error
	FindByID(ctx context.Context, id string) (*model.Task, error)
	FindByTeams(ctx context.Context, teamIDs []string) ([]*model.Task, error)
	Update(ctx context.Context, id string, task *model.Task) error
	Delete(ctx context.Context, id string) error
	CountByTeam(ctx context.Context, teamID string) (int64, error)
	CountByPerson(ctx context.Context, personID string) (int64, error)
	CountByTeamAndPerson(ctx context.Context, teamID, personID string) (int64, error)
}

type mongoTaskRepository struct {
	collection *mongo.Collection
}

func NewMongoTaskRepository(cfg *config.Config) TaskRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoTaskRepository{
		collection: db.Collection(CollectionName),
	}
}

func (r *mongoTaskRepository) Create(ctx context.Context, task *model.Task) error {
	task.ID = primitive.NewObjectID().Hex()
	task.CreatedAt = time.Now()

	_, err := r.collection.InsertOne(ctx, task)
	return err
}

func (r *mongoTaskRepository) FindByID(ctx context.Context, id string) (*model.Task, error) {
	if _, err := primitive.ObjectIDFromHex(id); err != nil {
		return nil, taskserrors.ErrInvalidID
	}

	var task model.Task
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&task)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, taskserrors.ErrNotFound
		}
		return nil, err
	}
	return &task, nil
}

// FindByTeams returns tasks for the given teams, or all tasks when the
// set is empty, ordered by start date.
func (r *mongoTaskRepository) FindByTeams(ctx context.Context, teamIDs []string) ([]*model.Task, error) {
	filter := bson.M{}
	if len(teamIDs) > 0 {
		filter = bson.M{"team_id": bson.M{"$in": teamIDs}}
	}

	opts := options.Find().SetSort(bson.D{{Key: "start_date", Value: 1}})

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var tasks []*model.Task
	if err := cursor.All(ctx, &tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

func (r *mongoTaskRepository) Update(ctx context.Context, id string, task *model.Task) error {
	if _, err := primitive.ObjectIDFromHex(id); err != nil {
		return taskserrors.ErrInvalidID
	}

	res, err := r.collection.ReplaceOne(ctx, bson.M{"_id": id}, task)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return taskserrors.ErrNotFound
	}
	return nil
}

func (r *mongoTaskRepository) Delete(ctx context.Context, id string) error {
	if _, err := primitive.ObjectIDFromHex(id); err != nil {
		return taskserrors.ErrInvalidID
	}

	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return taskserrors.ErrNotFound
	}
	return nil
}

func (r *mongoTaskRepository) CountByTeam(ctx context.Context, teamID string) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{"team_id": teamID})
}

func (r *mongoTaskRepository) CountByPerson(ctx context.Context, personID string) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{"person_id": personID})
}

func (r *mongoTaskRepository) CountByTeamAndPerson(ctx context.Context, teamID, personID string) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{"team_id": teamID, "person_id": personID})
}
