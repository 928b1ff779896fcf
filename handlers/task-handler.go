package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"taskboard-project/backend/models"
	"taskboard-project/backend/services"
)

type TaskHandler struct {
	service *services.TaskService
}

func NewTaskHandler(service *services.TaskService) *TaskHandler {
	return &TaskHandler{service: service}
}

func (h *TaskHandler) CreateTask(w http.ResponseWriter, r *http.Request) {
	userID, ok := actingUser(w, r)
	if !ok {
		return
	}

	var req struct {
		Title       string               `json:"title"`
		Description string               `json:"description"`
		Status      models.TaskStatus    `json:"status"`
		ProjectID   string               `json:"projectId"`
		Responsible []primitive.ObjectID `json:"responsibleIds"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, messageResponse{Message: "invalid request payload"})
		return
	}

	if req.ProjectID == "" {
		writeJSON(w, http.StatusBadRequest, messageResponse{Message: "title and project are required"})
		return
	}
	projectID, err := primitive.ObjectIDFromHex(req.ProjectID)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, messageResponse{Message: "invalid project id format"})
		return
	}

	task, err := h.service.CreateTask(r.Context(), projectID, req.Title, req.Description, req.Status, req.Responsible, userID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, task)
}

// GetTasksByProject feeds the Kanban board with the project's tasks.
func (h *TaskHandler) GetTasksByProject(w http.ResponseWriter, r *http.Request) {
	userID, ok := actingUser(w, r)
	if !ok {
		return
	}

	projectID, err := primitive.ObjectIDFromHex(mux.Vars(r)["projectId"])
	if err != nil {
		writeJSON(w, http.StatusBadRequest, messageResponse{Message: "invalid project id format"})
		return
	}

	tasks, err := h.service.ListTasks(r.Context(), projectID, userID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, tasks)
}

// UpdateTask handles both edits from the task modal and column moves from
// the board.
func (h *TaskHandler) UpdateTask(w http.ResponseWriter, r *http.Request) {
	userID, ok := actingUser(w, r)
	if !ok {
		return
	}

	taskID, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
	if err != nil {
		writeJSON(w, http.StatusBadRequest, messageResponse{Message: "invalid task id format"})
		return
	}

	var update models.TaskUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		writeJSON(w, http.StatusBadRequest, messageResponse{Message: "invalid request payload"})
		return
	}

	task, err := h.service.UpdateTask(r.Context(), taskID, userID, update)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, task)
}

func (h *TaskHandler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	userID, ok := actingUser(w, r)
	if !ok {
		return
	}

	taskID, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
	if err != nil {
		writeJSON(w, http.StatusBadRequest, messageResponse{Message: "invalid task id format"})
		return
	}

	if err := h.service.DeleteTask(r.Context(), taskID, userID); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, messageResponse{Message: "task deleted"})
}
