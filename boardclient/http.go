package boardclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sony/gobreaker"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"taskboard-project/backend/logging"
	"taskboard-project/backend/models"
)

// HTTPTaskAPI talks to the task endpoints of the backend. All calls go
// through a circuit breaker; an open breaker surfaces as a failed call, which
// the board treats like any other remote failure (rollback, no retry).
type HTTPTaskAPI struct {
	baseURL string
	token   string
	client  *http.Client
	breaker *gobreaker.CircuitBreaker
}

func NewHTTPTaskAPI(baseURL, token string) *HTTPTaskAPI {
	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "TasksAPICB",
		MaxRequests: 1,
		Timeout:     2 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures > 3
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.Logger.Infof("Event ID: CIRCUIT_BREAKER_STATE_CHANGE, Description: Circuit Breaker '%s' changed from '%s' to '%s'", name, from.String(), to.String())
		},
	})

	return &HTTPTaskAPI{
		baseURL: baseURL,
		token:   token,
		client:  &http.Client{Timeout: 10 * time.Second},
		breaker: breaker,
	}
}

func (a *HTTPTaskAPI) ListProjectTasks(ctx context.Context, projectID primitive.ObjectID) ([]models.TaskView, error) {
	body, err := a.do(ctx, http.MethodGet, fmt.Sprintf("/api/tasks/project/%s", projectID.Hex()), nil)
	if err != nil {
		return nil, err
	}

	var tasks []models.TaskView
	if err := json.Unmarshal(body, &tasks); err != nil {
		return nil, fmt.Errorf("failed to decode task list: %v", err)
	}
	return tasks, nil
}

func (a *HTTPTaskAPI) UpdateTask(ctx context.Context, taskID primitive.ObjectID, update models.TaskUpdate) (*models.TaskView, error) {
	payload, err := json.Marshal(update)
	if err != nil {
		return nil, fmt.Errorf("failed to encode task update: %v", err)
	}

	body, err := a.do(ctx, http.MethodPut, fmt.Sprintf("/api/tasks/%s", taskID.Hex()), payload)
	if err != nil {
		return nil, err
	}

	var task models.TaskView
	if err := json.Unmarshal(body, &task); err != nil {
		return nil, fmt.Errorf("failed to decode task: %v", err)
	}
	return &task, nil
}

func (a *HTTPTaskAPI) do(ctx context.Context, method, path string, payload []byte) ([]byte, error) {
	result, err := a.breaker.Execute(func() (interface{}, error) {
		var reader io.Reader
		if payload != nil {
			reader = bytes.NewReader(payload)
		}
		req, err := http.NewRequestWithContext(ctx, method, a.baseURL+path, reader)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer "+a.token)

		resp, err := a.client.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, err
		}
		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			return nil, fmt.Errorf("request failed with status %d: %s", resp.StatusCode, bytes.TrimSpace(body))
		}
		return body, nil
	})
	if err != nil {
		return nil, err
	}
	return result.([]byte), nil
}
