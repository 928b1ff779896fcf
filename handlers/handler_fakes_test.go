package handlers

import (
	"context"
	"net/http"
	"sort"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"taskboard-project/backend/middleware"
	"taskboard-project/backend/models"
	"taskboard-project/backend/services"
)

// Minimal in-memory repositories for boundary tests.

type memUsers struct{ users map[primitive.ObjectID]models.User }

func (r *memUsers) Insert(_ context.Context, user *models.User) (primitive.ObjectID, error) {
	id := primitive.NewObjectID()
	stored := *user
	stored.ID = id
	r.users[id] = stored
	return id, nil
}

func (r *memUsers) FindByID(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	user, ok := r.users[id]
	if !ok {
		return nil, models.ErrUserNotFound
	}
	return &user, nil
}

func (r *memUsers) FindByEmail(_ context.Context, email string) (*models.User, error) {
	for _, user := range r.users {
		if user.Email == email {
			u := user
			return &u, nil
		}
	}
	return nil, models.ErrUserNotFound
}

func (r *memUsers) FindRefs(_ context.Context, ids []primitive.ObjectID) ([]models.UserRef, error) {
	var refs []models.UserRef
	for _, id := range ids {
		if user, ok := r.users[id]; ok {
			refs = append(refs, models.UserRef{ID: user.ID, Name: user.Name, Email: user.Email})
		}
	}
	return refs, nil
}

func (r *memUsers) Search(_ context.Context, _ primitive.ObjectID, _ string, _ int64) ([]models.UserRef, error) {
	return nil, nil
}

type memTasks struct{ tasks map[primitive.ObjectID]models.Task }

func (r *memTasks) Insert(_ context.Context, task *models.Task) (primitive.ObjectID, error) {
	id := primitive.NewObjectID()
	stored := *task
	stored.ID = id
	r.tasks[id] = stored
	return id, nil
}

func (r *memTasks) FindByID(_ context.Context, id primitive.ObjectID) (*models.Task, error) {
	task, ok := r.tasks[id]
	if !ok {
		return nil, models.ErrTaskNotFound
	}
	return &task, nil
}

func (r *memTasks) FindByProject(_ context.Context, projectID primitive.ObjectID) ([]models.Task, error) {
	var tasks []models.Task
	for _, task := range r.tasks {
		if task.ProjectID == projectID {
			tasks = append(tasks, task)
		}
	}
	sort.Slice(tasks, func(i, j int) bool { return tasks[i].CreatedAt.After(tasks[j].CreatedAt) })
	return tasks, nil
}

func (r *memTasks) Update(_ context.Context, task *models.Task) error {
	if _, ok := r.tasks[task.ID]; !ok {
		return models.ErrTaskNotFound
	}
	r.tasks[task.ID] = *task
	return nil
}

func (r *memTasks) Delete(_ context.Context, id primitive.ObjectID) error {
	if _, ok := r.tasks[id]; !ok {
		return models.ErrTaskNotFound
	}
	delete(r.tasks, id)
	return nil
}

type memProjects struct {
	projects map[primitive.ObjectID]models.Project
	tasks    *memTasks
}

func (r *memProjects) Insert(_ context.Context, project *models.Project) (primitive.ObjectID, error) {
	id := primitive.NewObjectID()
	stored := *project
	stored.ID = id
	r.projects[id] = stored
	return id, nil
}

func (r *memProjects) FindByID(_ context.Context, id primitive.ObjectID) (*models.Project, error) {
	project, ok := r.projects[id]
	if !ok {
		return nil, models.ErrProjectNotFound
	}
	return &project, nil
}

func (r *memProjects) FindByMember(_ context.Context, userID primitive.ObjectID) ([]models.Project, error) {
	var projects []models.Project
	for _, project := range r.projects {
		if project.OwnerID == userID || project.HasMember(userID) {
			projects = append(projects, project)
		}
	}
	sort.Slice(projects, func(i, j int) bool { return projects[i].CreatedAt.After(projects[j].CreatedAt) })
	return projects, nil
}

func (r *memProjects) Update(_ context.Context, project *models.Project) error {
	if _, ok := r.projects[project.ID]; !ok {
		return models.ErrProjectNotFound
	}
	r.projects[project.ID] = *project
	return nil
}

func (r *memProjects) DeleteWithTasks(_ context.Context, id primitive.ObjectID) error {
	if _, ok := r.projects[id]; !ok {
		return models.ErrProjectNotFound
	}
	for taskID, task := range r.tasks.tasks {
		if task.ProjectID == id {
			delete(r.tasks.tasks, taskID)
		}
	}
	delete(r.projects, id)
	return nil
}

// apiEnv is a fully wired router over the in-memory repositories. Requests
// are tagged with an acting user directly in the context, standing in for
// the auth middleware.
type apiEnv struct {
	router   *mux.Router
	users    *memUsers
	projects *memProjects
	tasks    *memTasks
	alice    primitive.ObjectID
	bob      primitive.ObjectID
}

func newAPIEnv() *apiEnv {
	users := &memUsers{users: make(map[primitive.ObjectID]models.User)}
	tasks := &memTasks{tasks: make(map[primitive.ObjectID]models.Task)}
	projects := &memProjects{projects: make(map[primitive.ObjectID]models.Project), tasks: tasks}

	projectHandler := NewProjectHandler(services.NewProjectService(projects, users))
	taskHandler := NewTaskHandler(services.NewTaskService(tasks, projects, users))
	userHandler := NewUserHandler(services.NewUserService(users))

	r := mux.NewRouter()
	r.HandleFunc("/api/auth/register", userHandler.Register).Methods(http.MethodPost)
	r.HandleFunc("/api/auth/login", userHandler.Login).Methods(http.MethodPost)
	r.HandleFunc("/api/projects", projectHandler.CreateProject).Methods(http.MethodPost)
	r.HandleFunc("/api/projects", projectHandler.ListProjects).Methods(http.MethodGet)
	r.HandleFunc("/api/projects/{id}", projectHandler.GetProject).Methods(http.MethodGet)
	r.HandleFunc("/api/projects/{id}", projectHandler.UpdateProject).Methods(http.MethodPut)
	r.HandleFunc("/api/projects/{id}", projectHandler.DeleteProject).Methods(http.MethodDelete)
	r.HandleFunc("/api/tasks", taskHandler.CreateTask).Methods(http.MethodPost)
	r.HandleFunc("/api/tasks/project/{projectId}", taskHandler.GetTasksByProject).Methods(http.MethodGet)
	r.HandleFunc("/api/tasks/{id}", taskHandler.UpdateTask).Methods(http.MethodPut)
	r.HandleFunc("/api/tasks/{id}", taskHandler.DeleteTask).Methods(http.MethodDelete)

	env := &apiEnv{router: r, users: users, projects: projects, tasks: tasks}
	env.alice = env.addUser("Alice", "alice@example.com")
	env.bob = env.addUser("Bob", "bob@example.com")
	return env
}

func (e *apiEnv) addUser(name, email string) primitive.ObjectID {
	id, _ := e.users.Insert(context.Background(), &models.User{Name: name, Email: email, Password: "x"})
	return id
}

func (e *apiEnv) as(req *http.Request, userID primitive.ObjectID) *http.Request {
	return req.WithContext(middleware.WithUserID(req.Context(), userID))
}
