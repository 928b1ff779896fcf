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

// TaskService owns task records. Every operation resolves the owning project
// first and requires the acting user to be a member; there is no owner-only
// restriction on tasks.
type TaskService struct {
	tasks    repositories.TaskRepository
	projects repositories.ProjectRepository
	users    repositories.UserRepository
}

func NewTaskService(tasks repositories.TaskRepository, projects repositories.ProjectRepository, users repositories.UserRepository) *TaskService {
	return &TaskService{tasks: tasks, projects: projects, users: users}
}

// CreateTask creates a task in the given project. Status defaults to todo; a
// supplied status outside the enum is rejected. Responsible ids are
// intersected with the project's current member set, outsiders dropped
// silently.
func (s *TaskService) CreateTask(ctx context.Context, projectID primitive.ObjectID, title, description string, status models.TaskStatus, responsibleIDs []primitive.ObjectID, actingUserID primitive.ObjectID) (*models.TaskView, error) {
	if strings.TrimSpace(title) == "" {
		return nil, fmt.Errorf("%w: task title is required", models.ErrValidation)
	}
	if projectID.IsZero() {
		return nil, fmt.Errorf("%w: project id is required", models.ErrValidation)
	}
	if status == "" {
		status = models.StatusTodo
	}
	if !status.Valid() {
		return nil, models.ErrInvalidStatus
	}

	project, err := s.projects.FindByID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if !CanAccessProject(project, actingUserID) {
		return nil, models.ErrForbidden
	}

	now := time.Now()
	task := &models.Task{
		ProjectID:      projectID,
		Title:          strings.TrimSpace(title),
		Description:    description,
		Status:         status,
		ResponsibleIDs: FilterMembers(project, responsibleIDs),
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	id, err := s.tasks.Insert(ctx, task)
	if err != nil {
		return nil, err
	}
	task.ID = id

	logging.Logger.Infof("Event ID: TASK_CREATED, Description: Task %s created in project %s by user %s", task.ID.Hex(), projectID.Hex(), actingUserID.Hex())
	return s.buildView(ctx, task, project)
}

// ListTasks returns the project's tasks, most recently created first.
// Membership required.
func (s *TaskService) ListTasks(ctx context.Context, projectID, actingUserID primitive.ObjectID) ([]models.TaskView, error) {
	project, err := s.projects.FindByID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if !CanAccessProject(project, actingUserID) {
		return nil, models.ErrForbidden
	}

	tasks, err := s.tasks.FindByProject(ctx, projectID)
	if err != nil {
		return nil, err
	}

	// One refs lookup for all tasks on the board.
	var ids []primitive.ObjectID
	for i := range tasks {
		ids = append(ids, tasks[i].ResponsibleIDs...)
	}
	byID, err := s.refsByID(ctx, ids)
	if err != nil {
		return nil, err
	}

	views := []models.TaskView{}
	for i := range tasks {
		views = append(views, assembleView(&tasks[i], project, byID))
	}
	return views, nil
}

// UpdateTask applies a partial edit to a task. Any member of the owning
// project may edit. A supplied status outside the enum is rejected; a
// supplied responsible set replaces the stored one but is re-filtered against
// current membership, same as on create.
func (s *TaskService) UpdateTask(ctx context.Context, taskID, actingUserID primitive.ObjectID, update models.TaskUpdate) (*models.TaskView, error) {
	task, err := s.tasks.FindByID(ctx, taskID)
	if err != nil {
		return nil, err
	}
	project, err := s.projects.FindByID(ctx, task.ProjectID)
	if err != nil {
		return nil, err
	}
	if !CanAccessProject(project, actingUserID) {
		return nil, models.ErrForbidden
	}

	if update.Status != nil {
		if !update.Status.Valid() {
			return nil, models.ErrInvalidStatus
		}
		task.Status = *update.Status
	}
	if update.Title != nil && strings.TrimSpace(*update.Title) != "" {
		task.Title = strings.TrimSpace(*update.Title)
	}
	if update.Description != nil {
		task.Description = *update.Description
	}
	if update.Responsible != nil {
		task.ResponsibleIDs = FilterMembers(project, update.Responsible)
	}
	task.UpdatedAt = time.Now()

	if err := s.tasks.Update(ctx, task); err != nil {
		return nil, err
	}

	logging.Logger.Infof("Event ID: TASK_UPDATED, Description: Task %s updated by user %s, status: %s", task.ID.Hex(), actingUserID.Hex(), task.Status)
	return s.buildView(ctx, task, project)
}

// DeleteTask removes a task. Any member of the owning project may delete.
func (s *TaskService) DeleteTask(ctx context.Context, taskID, actingUserID primitive.ObjectID) error {
	task, err := s.tasks.FindByID(ctx, taskID)
	if err != nil {
		return err
	}
	project, err := s.projects.FindByID(ctx, task.ProjectID)
	if err != nil {
		return err
	}
	if !CanAccessProject(project, actingUserID) {
		return models.ErrForbidden
	}

	if err := s.tasks.Delete(ctx, taskID); err != nil {
		return err
	}

	logging.Logger.Infof("Event ID: TASK_DELETED, Description: Task %s deleted by user %s", taskID.Hex(), actingUserID.Hex())
	return nil
}

func (s *TaskService) buildView(ctx context.Context, task *models.Task, project *models.Project) (*models.TaskView, error) {
	byID, err := s.refsByID(ctx, task.ResponsibleIDs)
	if err != nil {
		return nil, err
	}
	view := assembleView(task, project, byID)
	return &view, nil
}

func (s *TaskService) refsByID(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]models.UserRef, error) {
	refs, err := s.users.FindRefs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[primitive.ObjectID]models.UserRef, len(refs))
	for _, ref := range refs {
		byID[ref.ID] = ref
	}
	return byID, nil
}

func assembleView(task *models.Task, project *models.Project, refs map[primitive.ObjectID]models.UserRef) models.TaskView {
	responsible := []models.UserRef{}
	for _, id := range task.ResponsibleIDs {
		if ref, ok := refs[id]; ok {
			responsible = append(responsible, ref)
		}
	}
	return models.TaskView{
		ID:          task.ID,
		Title:       task.Title,
		Description: task.Description,
		Status:      task.Status,
		Responsible: responsible,
		Project:     models.ProjectRef{ID: project.ID, Title: project.Title},
		CreatedAt:   task.CreatedAt,
		UpdatedAt:   task.UpdatedAt,
	}
}
