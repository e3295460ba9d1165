// internal/models/quiz.go
package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Quiz keeps its question links as an ordered id array, document-store
// style: the array is the source of truth for membership and order, while
// each Question row also carries the back-reference in quiz_id.
type Quiz struct {
	ID          uuid.UUID                      `json:"id" gorm:"type:uuid;primaryKey"`
	CreatedAt   time.Time                      `json:"created_at"`
	UpdatedAt   time.Time                      `json:"updated_at"`
	Name        string                         `json:"name" gorm:"not null"`
	Type        string                         `json:"type"`
	UserID      uint                           `json:"user" gorm:"index;not null"`
	QuestionIDs datatypes.JSONSlice[uuid.UUID] `json:"questions" gorm:"type:jsonb"`
	Views       int64                          `json:"views" gorm:"not null;default:0"`
}

// Question is opaque beyond its quiz linkage: whatever the caller sends
// (text, options, correct answer, ...) lives in Payload. The id and quiz
// keys are never taken from the payload.
type Question struct {
	ID        uuid.UUID         `json:"id" gorm:"type:uuid;primaryKey"`
	CreatedAt time.Time         `json:"created_at"`
	QuizID    uuid.UUID         `json:"quiz" gorm:"type:uuid;index;not null"`
	Payload   datatypes.JSONMap `json:"payload" gorm:"type:jsonb"`
}

type Option struct {
	ID         uuid.UUID         `json:"id" gorm:"type:uuid;primaryKey"`
	CreatedAt  time.Time         `json:"created_at"`
	QuestionID uuid.UUID         `json:"question" gorm:"type:uuid;index;not null"`
	Payload    datatypes.JSONMap `json:"payload" gorm:"type:jsonb"`
}
