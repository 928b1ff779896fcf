package repositories

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"taskboard-project/backend/models"
)

// MongoProjectRepository stores projects in the "projects" collection. The
// tasks collection is held as well so project deletion can cascade inside a
// single transaction.
type MongoProjectRepository struct {
	projects *mongo.Collection
	tasks    *mongo.Collection
}

func NewMongoProjectRepository(db *mongo.Database) *MongoProjectRepository {
	return &MongoProjectRepository{
		projects: db.Collection("projects"),
		tasks:    db.Collection("tasks"),
	}
}

func (r *MongoProjectRepository) Insert(ctx context.Context, project *models.Project) (primitive.ObjectID, error) {
	result, err := r.projects.InsertOne(ctx, project)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("failed to insert project: %v", err)
	}
	return result.InsertedID.(primitive.ObjectID), nil
}

func (r *MongoProjectRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Project, error) {
	var project models.Project
	err := r.projects.FindOne(ctx, bson.M{"_id": id}).Decode(&project)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, models.ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to fetch project: %v", err)
	}
	return &project, nil
}

func (r *MongoProjectRepository) FindByMember(ctx context.Context, userID primitive.ObjectID) ([]models.Project, error) {
	filter := bson.M{
		"$or": []bson.M{
			{"ownerId": userID},
			{"memberIds": userID},
		},
	}
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})

	cursor, err := r.projects.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve projects: %v", err)
	}
	defer cursor.Close(ctx)

	var projects []models.Project
	if err := cursor.All(ctx, &projects); err != nil {
		return nil, fmt.Errorf("failed to decode projects: %v", err)
	}
	return projects, nil
}

func (r *MongoProjectRepository) Update(ctx context.Context, project *models.Project) error {
	update := bson.M{"$set": bson.M{
		"title":       project.Title,
		"description": project.Description,
		"memberIds":   project.MemberIDs,
		"updatedAt":   project.UpdatedAt,
	}}
	result, err := r.projects.UpdateOne(ctx, bson.M{"_id": project.ID}, update)
	if err != nil {
		return fmt.Errorf("failed to update project: %v", err)
	}
	if result.MatchedCount == 0 {
		return models.ErrProjectNotFound
	}
	return nil
}

// DeleteWithTasks purges the project's tasks and the project record in one
// transaction, so the cascade is all-or-nothing.
func (r *MongoProjectRepository) DeleteWithTasks(ctx context.Context, id primitive.ObjectID) error {
	session, err := r.projects.Database().Client().StartSession()
	if err != nil {
		return fmt.Errorf("failed to start session: %v", err)
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		if _, err := r.tasks.DeleteMany(sc, bson.M{"projectId": id}); err != nil {
			return nil, fmt.Errorf("failed to delete project tasks: %v", err)
		}
		result, err := r.projects.DeleteOne(sc, bson.M{"_id": id})
		if err != nil {
			return nil, fmt.Errorf("failed to delete project: %v", err)
		}
		if result.DeletedCount == 0 {
			return nil, models.ErrProjectNotFound
		}
		return nil, nil
	})
	return err
}
