package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Project is the stored project record. MemberIDs is a set that always
// contains OwnerID; the owner is fixed at creation.
type Project struct {
	ID          primitive.ObjectID   `json:"id" bson:"_id,omitempty"`
	Title       string               `json:"title" bson:"title"`
	Description string               `json:"description" bson:"description"`
	OwnerID     primitive.ObjectID   `json:"ownerId" bson:"ownerId"`
	MemberIDs   []primitive.ObjectID `json:"memberIds" bson:"memberIds"`
	CreatedAt   time.Time            `json:"createdAt" bson:"createdAt"`
	UpdatedAt   time.Time            `json:"updatedAt" bson:"updatedAt"`
}

// HasMember reports whether the given user is in the member set.
func (p *Project) HasMember(userID primitive.ObjectID) bool {
	for _, m := range p.MemberIDs {
		if m == userID {
			return true
		}
	}
	return false
}

// ProjectRef is the shallow project reference embedded in task views.
type ProjectRef struct {
	ID    primitive.ObjectID `json:"id" bson:"_id"`
	Title string             `json:"title" bson:"title"`
}

// ProjectView is the response shape for projects, with owner and members
// expanded to display data.
type ProjectView struct {
	ID          primitive.ObjectID `json:"id"`
	Title       string             `json:"title"`
	Description string             `json:"description"`
	Owner       UserRef            `json:"owner"`
	Members     []UserRef          `json:"members"`
	CreatedAt   time.Time          `json:"createdAt"`
	UpdatedAt   time.Time          `json:"updatedAt"`
}

// ProjectUpdate carries a partial project edit. Nil means the field was not
// supplied. Title is applied only when non-empty; description is applied
// whenever present, so an empty string clears it.
type ProjectUpdate struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
}
