package boardclient

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"taskboard-project/backend/logging"
	"taskboard-project/backend/models"
)

// ErrDragPending is returned when a drag is started on a task whose previous
// drag has not been confirmed or rolled back yet.
var ErrDragPending = errors.New("drag already in progress for this task")

// TaskAPI is the remote surface the board talks to.
type TaskAPI interface {
	ListProjectTasks(ctx context.Context, projectID primitive.ObjectID) ([]models.TaskView, error)
	UpdateTask(ctx context.Context, taskID primitive.ObjectID, update models.TaskUpdate) (*models.TaskView, error)
}

// Board keeps the client-side projection of a project's tasks as three
// ordered lanes and runs the optimistic drag protocol against TaskAPI. It is
// cooperative: callers drive one operation at a time.
type Board struct {
	api      TaskAPI
	notify   func(message string)
	lanes    map[models.TaskStatus][]primitive.ObjectID
	tasks    map[primitive.ObjectID]models.TaskView
	inflight map[primitive.ObjectID]bool
}

// NewBoard creates an empty board. notify receives the user-visible failure
// notice on rollback; nil falls back to the log.
func NewBoard(api TaskAPI, notify func(string)) *Board {
	if notify == nil {
		notify = func(message string) {
			logging.Logger.Warnf("Event ID: BOARD_NOTICE, Description: %s", message)
		}
	}
	b := &Board{
		api:      api,
		notify:   notify,
		inflight: make(map[primitive.ObjectID]bool),
	}
	b.Load(nil)
	return b
}

// laneFor coerces an unknown status to the todo lane. Display-side only: the
// stored task keeps whatever status the server sent.
func laneFor(status models.TaskStatus) models.TaskStatus {
	if !status.Valid() {
		return models.StatusTodo
	}
	return status
}

// Load replaces the projection with the given task set, preserving order
// within each lane.
func (b *Board) Load(tasks []models.TaskView) {
	b.lanes = map[models.TaskStatus][]primitive.ObjectID{
		models.StatusTodo:  {},
		models.StatusDoing: {},
		models.StatusDone:  {},
	}
	b.tasks = make(map[primitive.ObjectID]models.TaskView, len(tasks))
	for _, task := range tasks {
		lane := laneFor(task.Status)
		b.lanes[lane] = append(b.lanes[lane], task.ID)
		b.tasks[task.ID] = task
	}
}

// Refresh reloads the projection from the server.
func (b *Board) Refresh(ctx context.Context, projectID primitive.ObjectID) error {
	tasks, err := b.api.ListProjectTasks(ctx, projectID)
	if err != nil {
		return err
	}
	b.Load(tasks)
	return nil
}

// Lane returns the tasks of one lane in board order.
func (b *Board) Lane(status models.TaskStatus) []models.TaskView {
	ids := b.lanes[laneFor(status)]
	tasks := make([]models.TaskView, 0, len(ids))
	for _, id := range ids {
		tasks = append(tasks, b.tasks[id])
	}
	return tasks
}

// Task returns the projected task by id.
func (b *Board) Task(id primitive.ObjectID) (models.TaskView, bool) {
	task, ok := b.tasks[id]
	return task, ok
}

// Drag moves a task from the drop event's source lane to destLane at
// destIndex. The local projection is updated before the network round trip;
// on remote failure it is restored to the exact pre-drag state and the
// failure notice fires once. The remote update carries the task's full field
// set, not a status-only patch.
func (b *Board) Drag(ctx context.Context, taskID primitive.ObjectID, source, destLane models.TaskStatus, destIndex int) error {
	// Destination lanes come from UI state but are revalidated anyway.
	if !destLane.Valid() {
		logging.Logger.Warnf("Event ID: BOARD_INVALID_LANE, Description: Ignoring drag of task %s to unknown lane %q", taskID.Hex(), destLane)
		return nil
	}

	task, ok := b.tasks[taskID]
	if !ok {
		return nil
	}
	if b.inflight[taskID] {
		return ErrDragPending
	}

	// The event's source lane is informational; the projection is the truth.
	sourceLane := laneFor(task.Status)
	if source != sourceLane {
		logging.Logger.Warnf("Event ID: BOARD_STALE_SOURCE, Description: Drop event names lane %q for task %s but the projection has it in %q", source, taskID.Hex(), sourceLane)
	}
	sourceIndex := indexOf(b.lanes[sourceLane], taskID)
	if destLane == sourceLane && destIndex == sourceIndex {
		return nil
	}

	// Snapshot before the tentative apply; this is the single rollback
	// point, not an undo stack.
	snapTask := task
	snapSource := append([]primitive.ObjectID(nil), b.lanes[sourceLane]...)
	snapDest := append([]primitive.ObjectID(nil), b.lanes[destLane]...)

	b.lanes[sourceLane] = removeID(b.lanes[sourceLane], taskID)
	b.lanes[destLane] = insertID(b.lanes[destLane], taskID, destIndex)
	task.Status = destLane
	b.tasks[taskID] = task

	b.inflight[taskID] = true
	defer delete(b.inflight, taskID)

	update := fullRecord(task)
	confirmed, err := b.api.UpdateTask(ctx, taskID, update)
	if err != nil {
		b.lanes[sourceLane] = snapSource
		b.lanes[destLane] = snapDest
		b.tasks[taskID] = snapTask
		b.notify("failed to move task, the change was reverted")
		return err
	}

	// The server response is authoritative; it may have normalized fields.
	b.tasks[taskID] = *confirmed
	if confirmedLane := laneFor(confirmed.Status); confirmedLane != destLane {
		b.lanes[destLane] = removeID(b.lanes[destLane], taskID)
		b.lanes[confirmedLane] = append(b.lanes[confirmedLane], taskID)
	}
	return nil
}

// fullRecord builds the complete update payload so concurrent edits to other
// fields are simply last-writer-wins, never a partial merge.
func fullRecord(task models.TaskView) models.TaskUpdate {
	title := task.Title
	description := task.Description
	status := task.Status
	responsible := make([]primitive.ObjectID, 0, len(task.Responsible))
	for _, ref := range task.Responsible {
		responsible = append(responsible, ref.ID)
	}
	return models.TaskUpdate{
		Title:       &title,
		Description: &description,
		Status:      &status,
		Responsible: responsible,
	}
}

func indexOf(ids []primitive.ObjectID, id primitive.ObjectID) int {
	for i, candidate := range ids {
		if candidate == id {
			return i
		}
	}
	return -1
}

func removeID(ids []primitive.ObjectID, id primitive.ObjectID) []primitive.ObjectID {
	out := make([]primitive.ObjectID, 0, len(ids))
	for _, candidate := range ids {
		if candidate != id {
			out = append(out, candidate)
		}
	}
	return out
}

func insertID(ids []primitive.ObjectID, id primitive.ObjectID, index int) []primitive.ObjectID {
	if index < 0 {
		index = 0
	}
	if index > len(ids) {
		index = len(ids)
	}
	out := make([]primitive.ObjectID, 0, len(ids)+1)
	out = append(out, ids[:index]...)
	out = append(out, id)
	out = append(out, ids[index:]...)
	return out
}
