package entity

import "time"

// Task belongs to exactly one Account and has no lifecycle of its own.
type Task struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Completed   bool      `json:"completed"`
	CreatedAt   time.Time `json:"created_at"`
}

// FindTask returns a pointer into the account's task list, or nil.
func (a *Account) FindTask(id string) *Task {
	for i := range a.Tasks {
		if a.Tasks[i].ID == id {
			return &a.Tasks[i]
		}
	}
	return nil
}

// RemoveTask drops the task with the given id, keeping order. It reports
// whether anything was removed.
func (a *Account) RemoveTask(id string) bool {
	out := a.Tasks[:0]
	removed := false
	for _, t := range a.Tasks {
		if t.ID == id {
			removed = true
			continue
		}
		out = append(out, t)
	}
	a.Tasks = out
	return removed
}
