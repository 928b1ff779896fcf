package repositories

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"taskboard-project/backend/models"
)

// ProjectRepository is the persistence contract for projects. Implementations
// translate driver-level absence into models.ErrProjectNotFound.
type ProjectRepository interface {
	Insert(ctx context.Context, project *models.Project) (primitive.ObjectID, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Project, error)
	// FindByMember returns projects where the user is owner or member,
	// most recently created first.
	FindByMember(ctx context.Context, userID primitive.ObjectID) ([]models.Project, error)
	Update(ctx context.Context, project *models.Project) error
	// DeleteWithTasks removes the project and every task that references it.
	// Observers never see a state where only one of the two is gone.
	DeleteWithTasks(ctx context.Context, id primitive.ObjectID) error
}

// TaskRepository is the persistence contract for tasks.
type TaskRepository interface {
	Insert(ctx context.Context, task *models.Task) (primitive.ObjectID, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Task, error)
	// FindByProject returns the project's tasks, most recently created first.
	FindByProject(ctx context.Context, projectID primitive.ObjectID) ([]models.Task, error)
	Update(ctx context.Context, task *models.Task) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// UserRepository is the persistence contract for accounts plus the
// populate-style display lookups.
type UserRepository interface {
	Insert(ctx context.Context, user *models.User) (primitive.ObjectID, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	// FindByEmail matches the stored lowercase email exactly.
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	// FindRefs resolves ids to display references; unknown ids are simply
	// absent from the result.
	FindRefs(ctx context.Context, ids []primitive.ObjectID) ([]models.UserRef, error)
	// Search matches name or email case-insensitively, excluding selfID.
	Search(ctx context.Context, selfID primitive.ObjectID, query string, limit int64) ([]models.UserRef, error)
}
