package services

import (
	"go.mongodb.org/mongo-driver/bson/primitive"

	"taskboard-project/backend/models"
)

// Membership checks are pure functions over raw ids. They fail closed: a nil
// project denies everything.

// CanAccessProject reports whether the user may read the project and create,
// update or delete its tasks: true for the owner or any member.
func CanAccessProject(project *models.Project, userID primitive.ObjectID) bool {
	if project == nil {
		return false
	}
	if project.OwnerID == userID {
		return true
	}
	return project.HasMember(userID)
}

// IsProjectOwner gates project title/description edits and project deletion.
func IsProjectOwner(project *models.Project, userID primitive.ObjectID) bool {
	return project != nil && project.OwnerID == userID
}

// FilterMembers returns the ids that are current members of the project,
// preserving request order and dropping duplicates. Ids outside the member
// set are dropped silently.
func FilterMembers(project *models.Project, ids []primitive.ObjectID) []primitive.ObjectID {
	filtered := []primitive.ObjectID{}
	seen := make(map[primitive.ObjectID]bool)
	for _, id := range ids {
		if seen[id] || !project.HasMember(id) {
			continue
		}
		seen[id] = true
		filtered = append(filtered, id)
	}
	return filtered
}
