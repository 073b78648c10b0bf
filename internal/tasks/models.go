package tasks

import "time"

// AssignedAuto marks a task parsed from model output; no owner is inferred.
const AssignedAuto = "Auto"

// StatusPending is the status of every newly stored task.
const StatusPending = "pending"

// Task is one unit of work produced by the generator.
type Task struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	AssignedTo  string `json:"assigned_to"`
}

// StoredTask is a Task persisted in project_tasks.
type StoredTask struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	AssignedTo  string    `json:"assigned_to"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
}
