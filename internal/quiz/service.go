// internal/quiz/service.go
package quiz

import (
	"context"
	"errors"
	"log"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"quizhub/internal/models"
)

var (
	ErrQuizNotFound     = errors.New("quiz not found")
	ErrQuestionNotFound = errors.New("question not found")
)

// DetailCache is the optional read-through cache for rendered quiz
// details. Implemented by pkg/cache; a nil cache disables caching.
type DetailCache interface {
	GetQuizDetail(ctx context.Context, quizID uuid.UUID) (*models.QuizDTO, error)
	SetQuizDetail(ctx context.Context, detail *models.QuizDTO) error
	InvalidateQuiz(ctx context.Context, quizID uuid.UUID) error
}

type Service struct {
	repo  Repository
	cache DetailCache
}

func NewService(repo Repository, cache DetailCache) *Service {
	return &Service{
		repo:  repo,
		cache: cache,
	}
}

func (s *Service) CreateQuiz(ctx context.Context, userID uint, name, quizType string) (*models.Quiz, error) {
	quiz := &models.Quiz{
		ID:          uuid.New(),
		Name:        name,
		Type:        quizType,
		UserID:      userID,
		QuestionIDs: datatypes.JSONSlice[uuid.UUID]{},
	}
	if err := s.repo.CreateQuiz(ctx, quiz); err != nil {
		return nil, err
	}
	log.Printf("Created quiz %s for user %d", quiz.ID, userID)
	return quiz, nil
}

// AddQuestions creates one question per payload, in order, and rewrites
// the quiz's question list to exactly the new ids.
func (s *Service) AddQuestions(ctx context.Context, quizID uuid.UUID, payloads []map[string]interface{}) (*models.Quiz, []models.QuestionDTO, error) {
	quiz, err := s.repo.GetQuizByID(ctx, quizID)
	if err != nil {
		return nil, nil, err
	}
	if quiz == nil {
		return nil, nil, ErrQuizNotFound
	}

	questions, err := s.repo.ReplaceQuestions(ctx, quiz, payloads)
	if err != nil {
		return nil, nil, err
	}
	s.invalidate(ctx, quizID)

	dtos := make([]models.QuestionDTO, len(questions))
	for i, question := range questions {
		dtos[i] = question.ToDTO()
	}
	log.Printf("Added %d questions to quiz %s", len(questions), quizID)
	return quiz, dtos, nil
}

// ListMyQuizzes returns the user's quizzes with question links expanded
// into full objects. Option references stay as ids here; only the detail
// view expands them.
func (s *Service) ListMyQuizzes(ctx context.Context, userID uint) ([]models.QuizDTO, error) {
	quizzes, err := s.repo.GetQuizzesByOwner(ctx, userID)
	if err != nil {
		return nil, err
	}

	dtos := make([]models.QuizDTO, 0, len(quizzes))
	for _, quiz := range quizzes {
		questions, err := s.repo.GetQuestionsByIDs(ctx, quiz.QuestionIDs)
		if err != nil {
			return nil, err
		}
		dtos = append(dtos, quiz.ToDTO(questions))
	}
	return dtos, nil
}

// GetQuizDetail returns the quiz with questions expanded, and each
// question's option references expanded into full objects.
func (s *Service) GetQuizDetail(ctx context.Context, quizID uuid.UUID) (*models.QuizDTO, error) {
	if s.cache != nil {
		detail, err := s.cache.GetQuizDetail(ctx, quizID)
		if err != nil {
			log.Printf("Cache read failed for quiz %s: %v", quizID, err)
		} else if detail != nil {
			return detail, nil
		}
	}

	quiz, err := s.repo.GetQuizByID(ctx, quizID)
	if err != nil {
		return nil, err
	}
	if quiz == nil {
		return nil, ErrQuizNotFound
	}

	questions, err := s.repo.GetQuestionsByIDs(ctx, quiz.QuestionIDs)
	if err != nil {
		return nil, err
	}

	dto := quiz.ToDTO(questions)
	for _, question := range dto.Questions {
		if err := s.expandOptions(ctx, question); err != nil {
			return nil, err
		}
	}

	if s.cache != nil {
		if err := s.cache.SetQuizDetail(ctx, &dto); err != nil {
			log.Printf("Cache write failed for quiz %s: %v", quizID, err)
		}
	}
	return &dto, nil
}

// expandOptions replaces an "options" value holding option ids with the
// full option objects. Values that are not a uniform list of ids are left
// untouched.
func (s *Service) expandOptions(ctx context.Context, question models.QuestionDTO) error {
	raw, ok := question["options"].([]interface{})
	if !ok || len(raw) == 0 {
		return nil
	}

	ids := make([]uuid.UUID, 0, len(raw))
	for _, item := range raw {
		str, ok := item.(string)
		if !ok {
			return nil
		}
		id, err := uuid.Parse(str)
		if err != nil {
			return nil
		}
		ids = append(ids, id)
	}

	options, err := s.repo.GetOptionsByIDs(ctx, ids)
	if err != nil {
		return err
	}
	expanded := make([]models.OptionDTO, len(options))
	for i, option := range options {
		expanded[i] = option.ToDTO()
	}
	question["options"] = expanded
	return nil
}

func (s *Service) IncrementViews(ctx context.Context, quizID uuid.UUID) (int64, error) {
	views, found, err := s.repo.IncrementViews(ctx, quizID)
	if err != nil {
		return 0, err
	}
	if !found {
		return 0, ErrQuizNotFound
	}
	s.invalidate(ctx, quizID)
	return views, nil
}

func (s *Service) DeleteQuiz(ctx context.Context, quizID uuid.UUID) error {
	found, err := s.repo.DeleteQuizCascade(ctx, quizID)
	if err != nil {
		return err
	}
	if !found {
		return ErrQuizNotFound
	}
	s.invalidate(ctx, quizID)
	log.Printf("Deleted quiz %s and its questions", quizID)
	return nil
}

// UpdateQuiz changes name and/or type. An empty string means "not
// provided" and leaves the field as it was.
func (s *Service) UpdateQuiz(ctx context.Context, quizID uuid.UUID, name, quizType string) (*models.Quiz, error) {
	quiz, err := s.repo.GetQuizByID(ctx, quizID)
	if err != nil {
		return nil, err
	}
	if quiz == nil {
		return nil, ErrQuizNotFound
	}

	if name != "" {
		quiz.Name = name
	}
	if quizType != "" {
		quiz.Type = quizType
	}

	if err := s.repo.SaveQuiz(ctx, quiz); err != nil {
		return nil, err
	}
	s.invalidate(ctx, quizID)
	return quiz, nil
}

// UpdateQuestion merges the given fields onto the question payload,
// field-by-field, last writer wins. The id and quiz keys are immutable and
// stripped before the merge. A question belonging to a different quiz is
// reported exactly like a missing one.
func (s *Service) UpdateQuestion(ctx context.Context, quizID, questionID uuid.UUID, fields map[string]interface{}) (models.QuestionDTO, error) {
	quiz, err := s.repo.GetQuizByID(ctx, quizID)
	if err != nil {
		return nil, err
	}
	if quiz == nil {
		return nil, ErrQuizNotFound
	}

	question, err := s.repo.GetQuestionByID(ctx, questionID)
	if err != nil {
		return nil, err
	}
	if question == nil || question.QuizID != quizID {
		return nil, ErrQuestionNotFound
	}

	if question.Payload == nil {
		question.Payload = datatypes.JSONMap{}
	}
	for k, v := range fields {
		if k == "id" || k == "quiz" {
			continue
		}
		question.Payload[k] = v
	}

	if err := s.repo.SaveQuestion(ctx, question); err != nil {
		return nil, err
	}
	s.invalidate(ctx, quizID)
	return question.ToDTO(), nil
}

func (s *Service) invalidate(ctx context.Context, quizID uuid.UUID) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateQuiz(ctx, quizID); err != nil {
		log.Printf("Cache invalidation failed for quiz %s: %v", quizID, err)
	}
}
