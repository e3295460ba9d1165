// internal/quiz/repository.go
package quiz

import (
	"context"
	"errors"
	"log"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"quizhub/internal/models"
)

// Repository is the store boundary: id-based lookups, single-row writes,
// and the two multi-step sequences (bulk question add, cascade delete)
// that must run as a single transaction.
type Repository interface {
	CreateQuiz(ctx context.Context, quiz *models.Quiz) error
	GetQuizByID(ctx context.Context, id uuid.UUID) (*models.Quiz, error)
	GetQuizzesByOwner(ctx context.Context, userID uint) ([]models.Quiz, error)
	SaveQuiz(ctx context.Context, quiz *models.Quiz) error
	DeleteQuizCascade(ctx context.Context, id uuid.UUID) (bool, error)
	IncrementViews(ctx context.Context, id uuid.UUID) (int64, bool, error)
	ReplaceQuestions(ctx context.Context, quiz *models.Quiz, payloads []map[string]interface{}) ([]models.Question, error)
	GetQuestionByID(ctx context.Context, id uuid.UUID) (*models.Question, error)
	GetQuestionsByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Question, error)
	GetOptionsByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Option, error)
	SaveQuestion(ctx context.Context, question *models.Question) error
}

type gormRepository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

func (r *gormRepository) CreateQuiz(ctx context.Context, quiz *models.Quiz) error {
	if quiz.ID == uuid.Nil {
		quiz.ID = uuid.New()
	}
	if err := r.db.WithContext(ctx).Create(quiz).Error; err != nil {
		log.Printf("Error creating quiz: %v", err)
		return err
	}
	return nil
}

// GetQuizByID returns (nil, nil) when the id does not resolve.
func (r *gormRepository) GetQuizByID(ctx context.Context, id uuid.UUID) (*models.Quiz, error) {
	var quiz models.Quiz
	err := r.db.WithContext(ctx).First(&quiz, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		log.Printf("Error getting quiz %s: %v", id, err)
		return nil, err
	}
	return &quiz, nil
}

func (r *gormRepository) GetQuizzesByOwner(ctx context.Context, userID uint) ([]models.Quiz, error) {
	var quizzes []models.Quiz
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Find(&quizzes).Error
	if err != nil {
		log.Printf("Error getting quizzes for user %d: %v", userID, err)
		return nil, err
	}
	return quizzes, nil
}

func (r *gormRepository) SaveQuiz(ctx context.Context, quiz *models.Quiz) error {
	if err := r.db.WithContext(ctx).Save(quiz).Error; err != nil {
		log.Printf("Error saving quiz %s: %v", quiz.ID, err)
		return err
	}
	return nil
}

// DeleteQuizCascade removes the quiz row and every question (and their
// options) whose quiz_id points at it, in one transaction. Returns false
// when the quiz did not exist.
func (r *gormRepository) DeleteQuizCascade(ctx context.Context, id uuid.UUID) (bool, error) {
	found := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Delete(&models.Quiz{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return nil
		}
		found = true

		questionIDs := tx.Model(&models.Question{}).Select("id").Where("quiz_id = ?", id)
		if err := tx.Where("question_id IN (?)", questionIDs).Delete(&models.Option{}).Error; err != nil {
			return err
		}
		return tx.Where("quiz_id = ?", id).Delete(&models.Question{}).Error
	})
	if err != nil {
		log.Printf("Error deleting quiz %s: %v", id, err)
		return false, err
	}
	return found, nil
}

// IncrementViews bumps the counter in a single UPDATE ... RETURNING so
// concurrent callers can never read the same pre-increment value.
func (r *gormRepository) IncrementViews(ctx context.Context, id uuid.UUID) (int64, bool, error) {
	var quiz models.Quiz
	result := r.db.WithContext(ctx).
		Model(&quiz).
		Clauses(clause.Returning{Columns: []clause.Column{{Name: "views"}}}).
		Where("id = ?", id).
		UpdateColumn("views", gorm.Expr("views + ?", 1))
	if result.Error != nil {
		log.Printf("Error incrementing views for quiz %s: %v", id, result.Error)
		return 0, false, result.Error
	}
	if result.RowsAffected == 0 {
		return 0, false, nil
	}
	return quiz.Views, true, nil
}

// ReplaceQuestions creates one question per payload, in payload order, and
// rewrites the quiz's link array to exactly the new ids. Runs as a single
// transaction so a failed payload leaves nothing behind.
func (r *gormRepository) ReplaceQuestions(ctx context.Context, quiz *models.Quiz, payloads []map[string]interface{}) ([]models.Question, error) {
	questions := make([]models.Question, 0, len(payloads))
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ids := make(datatypes.JSONSlice[uuid.UUID], 0, len(payloads))
		for _, payload := range payloads {
			question := models.Question{
				ID:      uuid.New(),
				QuizID:  quiz.ID,
				Payload: make(datatypes.JSONMap, len(payload)),
			}
			for k, v := range payload {
				question.Payload[k] = v
			}
			// Linkage always comes from the path, never the payload.
			delete(question.Payload, "id")
			delete(question.Payload, "quiz")

			if err := materializeOptions(tx, question.ID, question.Payload); err != nil {
				return err
			}
			if err := tx.Create(&question).Error; err != nil {
				return err
			}
			questions = append(questions, question)
			ids = append(ids, question.ID)
		}
		quiz.QuestionIDs = ids
		return tx.Save(quiz).Error
	})
	if err != nil {
		log.Printf("Error adding questions to quiz %s: %v", quiz.ID, err)
		return nil, err
	}
	return questions, nil
}

// materializeOptions turns an "options" array of objects into Option rows
// and rewrites the payload entry to their ids, mirroring how a document
// store keeps references to a separate collection. Anything that is not a
// uniform array of objects passes through untouched.
func materializeOptions(tx *gorm.DB, questionID uuid.UUID, payload datatypes.JSONMap) error {
	raw, ok := payload["options"].([]interface{})
	if !ok || len(raw) == 0 {
		return nil
	}

	objects := make([]map[string]interface{}, 0, len(raw))
	for _, item := range raw {
		obj, ok := item.(map[string]interface{})
		if !ok {
			return nil
		}
		objects = append(objects, obj)
	}

	ids := make([]interface{}, len(objects))
	for i, obj := range objects {
		option := models.Option{
			ID:         uuid.New(),
			QuestionID: questionID,
			Payload:    make(datatypes.JSONMap, len(obj)),
		}
		for k, v := range obj {
			option.Payload[k] = v
		}
		delete(option.Payload, "id")
		if err := tx.Create(&option).Error; err != nil {
			return err
		}
		ids[i] = option.ID.String()
	}
	payload["options"] = ids
	return nil
}

// GetQuestionByID returns (nil, nil) when the id does not resolve.
func (r *gormRepository) GetQuestionByID(ctx context.Context, id uuid.UUID) (*models.Question, error) {
	var question models.Question
	err := r.db.WithContext(ctx).First(&question, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		log.Printf("Error getting question %s: %v", id, err)
		return nil, err
	}
	return &question, nil
}

// GetQuestionsByIDs returns the questions that exist, in the order the ids
// were given. Missing ids are skipped.
func (r *gormRepository) GetQuestionsByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Question, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var rows []models.Question
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&rows).Error; err != nil {
		log.Printf("Error getting questions: %v", err)
		return nil, err
	}

	byID := make(map[uuid.UUID]models.Question, len(rows))
	for _, row := range rows {
		byID[row.ID] = row
	}
	ordered := make([]models.Question, 0, len(ids))
	for _, id := range ids {
		if question, ok := byID[id]; ok {
			ordered = append(ordered, question)
		}
	}
	return ordered, nil
}

func (r *gormRepository) GetOptionsByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Option, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var rows []models.Option
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&rows).Error; err != nil {
		log.Printf("Error getting options: %v", err)
		return nil, err
	}

	byID := make(map[uuid.UUID]models.Option, len(rows))
	for _, row := range rows {
		byID[row.ID] = row
	}
	ordered := make([]models.Option, 0, len(ids))
	for _, id := range ids {
		if option, ok := byID[id]; ok {
			ordered = append(ordered, option)
		}
	}
	return ordered, nil
}

func (r *gormRepository) SaveQuestion(ctx context.Context, question *models.Question) error {
	if err := r.db.WithContext(ctx).Save(question).Error; err != nil {
		log.Printf("Error saving question %s: %v", question.ID, err)
		return err
	}
	return nil
}
