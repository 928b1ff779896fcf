package services

import (
	"context"
	"sort"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"taskboard-project/backend/models"
)

// In-memory stand-ins for the mongo repositories.

type fakeUserRepo struct {
	users map[primitive.ObjectID]models.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[primitive.ObjectID]models.User)}
}

func (r *fakeUserRepo) Insert(_ context.Context, user *models.User) (primitive.ObjectID, error) {
	id := primitive.NewObjectID()
	stored := *user
	stored.ID = id
	r.users[id] = stored
	return id, nil
}

func (r *fakeUserRepo) FindByID(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	user, ok := r.users[id]
	if !ok {
		return nil, models.ErrUserNotFound
	}
	return &user, nil
}

func (r *fakeUserRepo) FindByEmail(_ context.Context, email string) (*models.User, error) {
	for _, user := range r.users {
		if user.Email == email {
			u := user
			return &u, nil
		}
	}
	return nil, models.ErrUserNotFound
}

func (r *fakeUserRepo) FindRefs(_ context.Context, ids []primitive.ObjectID) ([]models.UserRef, error) {
	var refs []models.UserRef
	seen := make(map[primitive.ObjectID]bool)
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		if user, ok := r.users[id]; ok {
			refs = append(refs, models.UserRef{ID: user.ID, Name: user.Name, Email: user.Email})
		}
	}
	return refs, nil
}

func (r *fakeUserRepo) Search(_ context.Context, selfID primitive.ObjectID, query string, limit int64) ([]models.UserRef, error) {
	q := strings.ToLower(query)
	refs := []models.UserRef{}
	for _, user := range r.users {
		if user.ID == selfID {
			continue
		}
		if strings.Contains(strings.ToLower(user.Name), q) || strings.Contains(strings.ToLower(user.Email), q) {
			refs = append(refs, models.UserRef{ID: user.ID, Name: user.Name, Email: user.Email})
		}
		if int64(len(refs)) == limit {
			break
		}
	}
	return refs, nil
}

type fakeTaskRepo struct {
	tasks map[primitive.ObjectID]models.Task
}

func newFakeTaskRepo() *fakeTaskRepo {
	return &fakeTaskRepo{tasks: make(map[primitive.ObjectID]models.Task)}
}

func (r *fakeTaskRepo) Insert(_ context.Context, task *models.Task) (primitive.ObjectID, error) {
	id := primitive.NewObjectID()
	stored := *task
	stored.ID = id
	r.tasks[id] = stored
	return id, nil
}

func (r *fakeTaskRepo) FindByID(_ context.Context, id primitive.ObjectID) (*models.Task, error) {
	task, ok := r.tasks[id]
	if !ok {
		return nil, models.ErrTaskNotFound
	}
	return &task, nil
}

func (r *fakeTaskRepo) FindByProject(_ context.Context, projectID primitive.ObjectID) ([]models.Task, error) {
	var tasks []models.Task
	for _, task := range r.tasks {
		if task.ProjectID == projectID {
			tasks = append(tasks, task)
		}
	}
	sort.Slice(tasks, func(i, j int) bool { return tasks[i].CreatedAt.After(tasks[j].CreatedAt) })
	return tasks, nil
}

func (r *fakeTaskRepo) Update(_ context.Context, task *models.Task) error {
	if _, ok := r.tasks[task.ID]; !ok {
		return models.ErrTaskNotFound
	}
	r.tasks[task.ID] = *task
	return nil
}

func (r *fakeTaskRepo) Delete(_ context.Context, id primitive.ObjectID) error {
	if _, ok := r.tasks[id]; !ok {
		return models.ErrTaskNotFound
	}
	delete(r.tasks, id)
	return nil
}

type fakeProjectRepo struct {
	projects map[primitive.ObjectID]models.Project
	taskRepo *fakeTaskRepo
}

func newFakeProjectRepo(taskRepo *fakeTaskRepo) *fakeProjectRepo {
	return &fakeProjectRepo{
		projects: make(map[primitive.ObjectID]models.Project),
		taskRepo: taskRepo,
	}
}

func (r *fakeProjectRepo) Insert(_ context.Context, project *models.Project) (primitive.ObjectID, error) {
	id := primitive.NewObjectID()
	stored := *project
	stored.ID = id
	r.projects[id] = stored
	return id, nil
}

func (r *fakeProjectRepo) FindByID(_ context.Context, id primitive.ObjectID) (*models.Project, error) {
	project, ok := r.projects[id]
	if !ok {
		return nil, models.ErrProjectNotFound
	}
	return &project, nil
}

func (r *fakeProjectRepo) FindByMember(_ context.Context, userID primitive.ObjectID) ([]models.Project, error) {
	var projects []models.Project
	for _, project := range r.projects {
		if project.OwnerID == userID || project.HasMember(userID) {
			projects = append(projects, project)
		}
	}
	sort.Slice(projects, func(i, j int) bool { return projects[i].CreatedAt.After(projects[j].CreatedAt) })
	return projects, nil
}

func (r *fakeProjectRepo) Update(_ context.Context, project *models.Project) error {
	if _, ok := r.projects[project.ID]; !ok {
		return models.ErrProjectNotFound
	}
	r.projects[project.ID] = *project
	return nil
}

func (r *fakeProjectRepo) DeleteWithTasks(_ context.Context, id primitive.ObjectID) error {
	if _, ok := r.projects[id]; !ok {
		return models.ErrProjectNotFound
	}
	for taskID, task := range r.taskRepo.tasks {
		if task.ProjectID == id {
			delete(r.taskRepo.tasks, taskID)
		}
	}
	delete(r.projects, id)
	return nil
}

// testEnv wires the services over the fakes with two registered users.
type testEnv struct {
	userRepo    *fakeUserRepo
	taskRepo    *fakeTaskRepo
	projectRepo *fakeProjectRepo
	projects    *ProjectService
	tasks       *TaskService
	users       *UserService
	alice       primitive.ObjectID
	bob         primitive.ObjectID
}

func newTestEnv() *testEnv {
	userRepo := newFakeUserRepo()
	taskRepo := newFakeTaskRepo()
	projectRepo := newFakeProjectRepo(taskRepo)

	env := &testEnv{
		userRepo:    userRepo,
		taskRepo:    taskRepo,
		projectRepo: projectRepo,
		projects:    NewProjectService(projectRepo, userRepo),
		tasks:       NewTaskService(taskRepo, projectRepo, userRepo),
		users:       NewUserService(userRepo),
	}
	env.alice = env.addUser("Alice", "alice@example.com")
	env.bob = env.addUser("Bob", "bob@example.com")
	return env
}

func (e *testEnv) addUser(name, email string) primitive.ObjectID {
	id, _ := e.userRepo.Insert(context.Background(), &models.User{Name: name, Email: email, Password: "x"})
	return id
}
