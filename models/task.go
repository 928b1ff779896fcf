package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type TaskStatus string

const (
	StatusTodo  TaskStatus = "todo"
	StatusDoing TaskStatus = "doing"
	StatusDone  TaskStatus = "done"
)

// Valid reports whether s is one of the three board lanes. The status set is
// a flat enum: any status may move to any other in a single transition.
func (s TaskStatus) Valid() bool {
	switch s {
	case StatusTodo, StatusDoing, StatusDone:
		return true
	}
	return false
}

// Task is the stored task record. ResponsibleIDs is constrained to project
// members at write time.
type Task struct {
	ID             primitive.ObjectID   `json:"id" bson:"_id,omitempty"`
	ProjectID      primitive.ObjectID   `json:"projectId" bson:"projectId"`
	Title          string               `json:"title" bson:"title"`
	Description    string               `json:"description" bson:"description"`
	Status         TaskStatus           `json:"status" bson:"status"`
	ResponsibleIDs []primitive.ObjectID `json:"responsibleIds" bson:"responsibleIds"`
	CreatedAt      time.Time            `json:"createdAt" bson:"createdAt"`
	UpdatedAt      time.Time            `json:"updatedAt" bson:"updatedAt"`
}

// TaskView is the response shape for tasks, with responsible users and the
// owning project expanded to display data.
type TaskView struct {
	ID          primitive.ObjectID `json:"id"`
	Title       string             `json:"title"`
	Description string             `json:"description"`
	Status      TaskStatus         `json:"status"`
	Responsible []UserRef          `json:"responsible"`
	Project     ProjectRef         `json:"project"`
	CreatedAt   time.Time          `json:"createdAt"`
	UpdatedAt   time.Time          `json:"updatedAt"`
}

// TaskUpdate carries a partial task edit. Nil pointer fields were not
// supplied. A nil Responsible slice means "leave unchanged"; a non-nil empty
// slice clears the set.
type TaskUpdate struct {
	Title       *string              `json:"title"`
	Description *string              `json:"description"`
	Status      *TaskStatus          `json:"status"`
	Responsible []primitive.ObjectID `json:"responsibleIds"`
}
