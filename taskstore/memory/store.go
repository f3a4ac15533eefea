// Package memory provides an in-memory task store for embedding and tests.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/clinova/taskcal/model"
	"github.com/clinova/taskcal/taskstore"
)

// Store implements taskstore.Store over per-clinic maps.
type Store struct {
	mu    sync.RWMutex
	tasks map[string]map[string]model.Task // clinicID -> taskID -> task
}

// New creates an empty store.
func New() *Store {
	return &Store{tasks: make(map[string]map[string]model.Task)}
}

// PutTask inserts or replaces a task. A missing id gets a fresh uuid and
// a missing creation time gets the current time; enum fields are
// validated before the task is accepted.
func (s *Store) PutTask(_ context.Context, clinicID string, task model.Task) (model.Task, error) {
	if task.ID == "" {
		task.ID = uuid.New().String()
	}
	if task.CreatedAt.IsZero() {
		task.CreatedAt = time.Now()
	}
	if err := task.Validate(); err != nil {
		return model.Task{}, &taskstore.Error{Type: taskstore.ErrInvalidInput, Message: "task rejected", Err: err}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	clinic, ok := s.tasks[clinicID]
	if !ok {
		clinic = make(map[string]model.Task)
		s.tasks[clinicID] = clinic
	}
	clinic[task.ID] = copyTask(task)
	return task, nil
}

// ListTasks implements taskstore.Source. Tasks come back as independent
// copies in a stable id order.
func (s *Store) ListTasks(_ context.Context, clinicID string) ([]model.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	clinic := s.tasks[clinicID]
	out := make([]model.Task, 0, len(clinic))
	for _, task := range clinic {
		out = append(out, copyTask(task))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// DeleteTask implements taskstore.Store.
func (s *Store) DeleteTask(_ context.Context, clinicID, taskID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	clinic := s.tasks[clinicID]
	if _, ok := clinic[taskID]; !ok {
		return &taskstore.Error{Type: taskstore.ErrNotFound, Message: "no task " + taskID}
	}
	delete(clinic, taskID)
	return nil
}

// copyTask deep-copies the pointer timestamps so no two callers share
// state through a task.
func copyTask(t model.Task) model.Task {
	cp := t
	cp.CustomDueDate = copyTime(t.CustomDueDate)
	cp.DueDate = copyTime(t.DueDate)
	cp.GeneratedDate = copyTime(t.GeneratedDate)
	cp.CompletedAt = copyTime(t.CompletedAt)
	return cp
}

func copyTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	cp := *t
	return &cp
}
