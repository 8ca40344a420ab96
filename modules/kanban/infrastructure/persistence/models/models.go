// Package models holds the row structs scanned from the kanban tables.
package models

import (
	"database/sql"
	"time"
)

type Board struct {
	ID        string
	Name      string
	Position  int
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Column struct {
	ID        string
	BoardID   string
	Name      string
	Color     sql.NullString
	Position  int
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Task struct {
	ID          string
	BoardID     string
	ColumnID    string
	Title       string
	Description sql.NullString
	PriorityID  sql.NullString
	AssigneeID  sql.NullString
	DueDate     sql.NullTime
	Position    int
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type Tag struct {
	ID        string
	Name      string
	Color     sql.NullString
	CreatedAt time.Time
}

type Priority struct {
	ID     string
	Name   string
	Weight int
	Color  sql.NullString
}

type Notification struct {
	ID        string
	UserID    string
	TaskID    string
	Message   string
	Read      bool
	CreatedAt time.Time
}
