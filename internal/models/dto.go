// internal/models/dto.go
package models

import (
	"time"

	"github.com/google/uuid"
)

// QuestionDTO is the wire shape of a question: the opaque payload fields
// flattened to the top level, with id and quiz written over whatever the
// payload might claim.
type QuestionDTO map[string]interface{}

func (q Question) ToDTO() QuestionDTO {
	dto := make(QuestionDTO, len(q.Payload)+2)
	for k, v := range q.Payload {
		dto[k] = v
	}
	dto["id"] = q.ID
	dto["quiz"] = q.QuizID
	return dto
}

// OptionDTO flattens an option the same way.
type OptionDTO map[string]interface{}

func (o Option) ToDTO() OptionDTO {
	dto := make(OptionDTO, len(o.Payload)+1)
	for k, v := range o.Payload {
		dto[k] = v
	}
	dto["id"] = o.ID
	return dto
}

// QuizDTO is a quiz with its question links expanded into full objects.
type QuizDTO struct {
	ID        uuid.UUID     `json:"id"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
	Name      string        `json:"name"`
	Type      string        `json:"type"`
	User      uint          `json:"user"`
	Views     int64         `json:"views"`
	Questions []QuestionDTO `json:"questions"`
}

func (q Quiz) ToDTO(questions []Question) QuizDTO {
	dtos := make([]QuestionDTO, len(questions))
	for i, question := range questions {
		dtos[i] = question.ToDTO()
	}
	return QuizDTO{
		ID:        q.ID,
		CreatedAt: q.CreatedAt,
		UpdatedAt: q.UpdatedAt,
		Name:      q.Name,
		Type:      q.Type,
		User:      q.UserID,
		Views:     q.Views,
		Questions: dtos,
	}
}
