package models

import "time"

// User represents a row in the users table.
type User struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Password string `json:"-"` // bcrypt hash, never serialize
}

// TodoList is a named, user-owned container of ordered tasks.
type TodoList struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UserID    int64     `json:"user_id"`
}

// Todo is a single task within a list. Position is the 1-based display
// rank inside its list; DueDate is a date-only string (YYYY-MM-DD) or nil.
type Todo struct {
	ID       int64   `json:"id"`
	Task     string  `json:"task"`
	Done     bool    `json:"done"`
	DueDate  *string `json:"due_date"`
	Position int     `json:"position"`
	ListID   int64   `json:"list_id"`
}

// ReorderRequest is the JSON body for POST /reorder_tasks. The ids are the
// tasks of a list in their new display order.
type ReorderRequest struct {
	TaskIDs []int64 `json:"task_ids"`
}
