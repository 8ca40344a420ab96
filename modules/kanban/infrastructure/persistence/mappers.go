package persistence

import (
	"database/sql"

	"github.com/google/uuid"

	"github.com/taskwall/taskwall/modules/kanban/domain"
	"github.com/taskwall/taskwall/modules/kanban/infrastructure/persistence/models"
)

func toDomainBoard(m *models.Board) (*domain.Board, error) {
	id, err := uuid.Parse(m.ID)
	if err != nil {
		return nil, err
	}
	return &domain.Board{
		ID:        id,
		Name:      m.Name,
		Position:  m.Position,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}, nil
}

func toDomainColumn(m *models.Column) (*domain.Column, error) {
	id, err := uuid.Parse(m.ID)
	if err != nil {
		return nil, err
	}
	boardID, err := uuid.Parse(m.BoardID)
	if err != nil {
		return nil, err
	}
	return &domain.Column{
		ID:        id,
		BoardID:   boardID,
		Name:      m.Name,
		Color:     m.Color.String,
		Position:  m.Position,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}, nil
}

func toDomainTask(m *models.Task) (*domain.Task, error) {
	id, err := uuid.Parse(m.ID)
	if err != nil {
		return nil, err
	}
	boardID, err := uuid.Parse(m.BoardID)
	if err != nil {
		return nil, err
	}
	columnID, err := uuid.Parse(m.ColumnID)
	if err != nil {
		return nil, err
	}
	task := &domain.Task{
		ID:          id,
		BoardID:     boardID,
		ColumnID:    columnID,
		Title:       m.Title,
		Description: m.Description.String,
		Position:    m.Position,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
	if m.PriorityID.Valid {
		pid, err := uuid.Parse(m.PriorityID.String)
		if err != nil {
			return nil, err
		}
		task.PriorityID = &pid
	}
	if m.AssigneeID.Valid {
		aid, err := uuid.Parse(m.AssigneeID.String)
		if err != nil {
			return nil, err
		}
		task.AssigneeID = &aid
	}
	if m.DueDate.Valid {
		due := m.DueDate.Time
		task.DueDate = &due
	}
	return task, nil
}

func toDomainTag(m *models.Tag) (*domain.Tag, error) {
	id, err := uuid.Parse(m.ID)
	if err != nil {
		return nil, err
	}
	return &domain.Tag{
		ID:        id,
		Name:      m.Name,
		Color:     m.Color.String,
		CreatedAt: m.CreatedAt,
	}, nil
}

func nullString(v string) sql.NullString {
	return sql.NullString{String: v, Valid: v != ""}
}

func nullUUID(v *uuid.UUID) sql.NullString {
	if v == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: v.String(), Valid: true}
}
