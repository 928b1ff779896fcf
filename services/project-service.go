package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"taskboard-project/backend/logging"
	"taskboard-project/backend/models"
	"taskboard-project/backend/repositories"
)

// ProjectService owns project records and their membership sets. The owner is
// always a member and never changes after creation.
type ProjectService struct {
	projects repositories.ProjectRepository
	users    repositories.UserRepository
}

func NewProjectService(projects repositories.ProjectRepository, users repositories.UserRepository) *ProjectService {
	return &ProjectService{projects: projects, users: users}
}

// CreateProject creates a project owned by ownerID. The member set starts
// with the owner; requested ids are added deduplicated. Requested ids are not
// checked against the users collection: unresolvable ids are inert and never
// show up with display data.
func (s *ProjectService) CreateProject(ctx context.Context, title, description string, ownerID primitive.ObjectID, requestedMemberIDs []primitive.ObjectID) (*models.ProjectView, error) {
	if strings.TrimSpace(title) == "" {
		return nil, fmt.Errorf("%w: project title is required", models.ErrValidation)
	}

	memberIDs := []primitive.ObjectID{ownerID}
	seen := map[primitive.ObjectID]bool{ownerID: true}
	for _, id := range requestedMemberIDs {
		if seen[id] {
			continue
		}
		seen[id] = true
		memberIDs = append(memberIDs, id)
	}

	now := time.Now()
	project := &models.Project{
		Title:       strings.TrimSpace(title),
		Description: description,
		OwnerID:     ownerID,
		MemberIDs:   memberIDs,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	id, err := s.projects.Insert(ctx, project)
	if err != nil {
		return nil, err
	}
	project.ID = id

	logging.Logger.Infof("Event ID: PROJECT_CREATED, Description: Project %s created by user %s with %d members", project.ID.Hex(), ownerID.Hex(), len(memberIDs))
	return s.buildView(ctx, project)
}

// ListProjects returns every project where the user is owner or member,
// most recently created first.
func (s *ProjectService) ListProjects(ctx context.Context, userID primitive.ObjectID) ([]models.ProjectView, error) {
	projects, err := s.projects.FindByMember(ctx, userID)
	if err != nil {
		return nil, err
	}

	views := []models.ProjectView{}
	for i := range projects {
		view, err := s.buildView(ctx, &projects[i])
		if err != nil {
			return nil, err
		}
		views = append(views, *view)
	}
	return views, nil
}

// GetProject fetches a single project. Existence is checked before
// membership, so absence and denial keep their distinct errors.
func (s *ProjectService) GetProject(ctx context.Context, projectID, userID primitive.ObjectID) (*models.ProjectView, error) {
	project, err := s.projects.FindByID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if !CanAccessProject(project, userID) {
		return nil, models.ErrForbidden
	}
	return s.buildView(ctx, project)
}

// UpdateProject applies a partial title/description edit. Owner only. The
// title changes only when supplied non-empty; the description changes
// whenever the field is present, so an empty string clears it.
func (s *ProjectService) UpdateProject(ctx context.Context, projectID, userID primitive.ObjectID, update models.ProjectUpdate) (*models.ProjectView, error) {
	project, err := s.projects.FindByID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if !IsProjectOwner(project, userID) {
		return nil, models.ErrForbidden
	}

	if update.Title != nil && strings.TrimSpace(*update.Title) != "" {
		project.Title = strings.TrimSpace(*update.Title)
	}
	if update.Description != nil {
		project.Description = *update.Description
	}
	project.UpdatedAt = time.Now()

	if err := s.projects.Update(ctx, project); err != nil {
		return nil, err
	}

	logging.Logger.Infof("Event ID: PROJECT_UPDATED, Description: Project %s updated by owner %s", project.ID.Hex(), userID.Hex())
	return s.buildView(ctx, project)
}

// DeleteProject removes the project and cascades to all of its tasks. Owner
// only. The cascade is atomic from the caller's point of view.
func (s *ProjectService) DeleteProject(ctx context.Context, projectID, userID primitive.ObjectID) error {
	project, err := s.projects.FindByID(ctx, projectID)
	if err != nil {
		return err
	}
	if !IsProjectOwner(project, userID) {
		return models.ErrForbidden
	}

	if err := s.projects.DeleteWithTasks(ctx, projectID); err != nil {
		return err
	}

	logging.Logger.Infof("Event ID: PROJECT_DELETED, Description: Project %s and its tasks deleted by owner %s", projectID.Hex(), userID.Hex())
	return nil
}

// buildView expands owner and member ids to display references. Ids with no
// matching user are left out of the members list; authorization never reads
// the view.
func (s *ProjectService) buildView(ctx context.Context, project *models.Project) (*models.ProjectView, error) {
	ids := append([]primitive.ObjectID{project.OwnerID}, project.MemberIDs...)
	refs, err := s.users.FindRefs(ctx, ids)
	if err != nil {
		return nil, err
	}

	byID := make(map[primitive.ObjectID]models.UserRef, len(refs))
	for _, ref := range refs {
		byID[ref.ID] = ref
	}

	owner, ok := byID[project.OwnerID]
	if !ok {
		owner = models.UserRef{ID: project.OwnerID}
	}

	members := []models.UserRef{}
	for _, id := range project.MemberIDs {
		if ref, ok := byID[id]; ok {
			members = append(members, ref)
		}
	}

	return &models.ProjectView{
		ID:          project.ID,
		Title:       project.Title,
		Description: project.Description,
		Owner:       owner,
		Members:     members,
		CreatedAt:   project.CreatedAt,
		UpdatedAt:   project.UpdatedAt,
	}, nil
}
