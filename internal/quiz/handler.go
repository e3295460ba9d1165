// internal/quiz/handler.go
package quiz

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"quizhub/internal/auth"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Error encoding response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"message": message})
}

// respondServiceError maps service errors onto the wire contract. Anything
// unexpected is logged and reported generically.
func respondServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrQuizNotFound):
		writeError(w, http.StatusNotFound, "Quiz not found")
	case errors.Is(err, ErrQuestionNotFound):
		writeError(w, http.StatusNotFound, "Question not found")
	default:
		log.Printf("Server error: %v", err)
		writeError(w, http.StatusInternalServerError, "Server error")
	}
}

// quizID pulls the {quizId} path variable. An unparsable id can never
// resolve, so it is reported as not found.
func quizID(r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(mux.Vars(r)["quizId"])
	return id, err == nil
}

func (h *Handler) CreateQuiz(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserID(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req struct {
		Name string `json:"name"`
		Type string `json:"type"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request")
		return
	}

	quiz, err := h.service.CreateQuiz(r.Context(), userID, req.Name, req.Type)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, quiz)
}

func (h *Handler) AddQuestions(w http.ResponseWriter, r *http.Request) {
	id, ok := quizID(r)
	if !ok {
		writeError(w, http.StatusNotFound, "Quiz not found")
		return
	}

	// The questions key must be a JSON array; a pointer distinguishes a
	// missing or null key from an empty list.
	var req struct {
		Questions *[]map[string]interface{} `json:"questions"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Questions == nil {
		writeError(w, http.StatusBadRequest, "Invalid input format")
		return
	}

	quiz, questions, err := h.service.AddQuestions(r.Context(), id, *req.Questions)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"quiz":      quiz,
		"questions": questions,
	})
}

func (h *Handler) GetMyQuizzes(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserID(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	quizzes, err := h.service.ListMyQuizzes(r.Context(), userID)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, quizzes)
}

func (h *Handler) GetQuizDetail(w http.ResponseWriter, r *http.Request) {
	id, ok := quizID(r)
	if !ok {
		writeError(w, http.StatusNotFound, "Quiz not found")
		return
	}

	detail, err := h.service.GetQuizDetail(r.Context(), id)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, detail)
}

func (h *Handler) IncrementViews(w http.ResponseWriter, r *http.Request) {
	id, ok := quizID(r)
	if !ok {
		writeError(w, http.StatusNotFound, "Quiz not found")
		return
	}

	views, err := h.service.IncrementViews(r.Context(), id)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Views count incremented",
		"views":   views,
	})
}

func (h *Handler) DeleteQuiz(w http.ResponseWriter, r *http.Request) {
	id, ok := quizID(r)
	if !ok {
		writeError(w, http.StatusNotFound, "Quiz not found")
		return
	}

	if err := h.service.DeleteQuiz(r.Context(), id); err != nil {
		respondServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"message": "Quiz and associated questions deleted successfully",
	})
}

func (h *Handler) UpdateQuiz(w http.ResponseWriter, r *http.Request) {
	id, ok := quizID(r)
	if !ok {
		writeError(w, http.StatusNotFound, "Quiz not found")
		return
	}

	var req struct {
		Name string `json:"name"`
		Type string `json:"type"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request")
		return
	}

	quiz, err := h.service.UpdateQuiz(r.Context(), id, req.Name, req.Type)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Quiz updated successfully",
		"quiz":    quiz,
	})
}

func (h *Handler) UpdateQuestion(w http.ResponseWriter, r *http.Request) {
	id, ok := quizID(r)
	if !ok {
		writeError(w, http.StatusNotFound, "Quiz not found")
		return
	}
	qid, err := uuid.Parse(mux.Vars(r)["questionId"])
	if err != nil {
		writeError(w, http.StatusNotFound, "Question not found")
		return
	}

	var fields map[string]interface{}
	if err := json.NewDecoder(r.Body).Decode(&fields); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request")
		return
	}

	question, err := h.service.UpdateQuestion(r.Context(), id, qid, fields)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message":  "Question updated successfully",
		"question": question,
	})
}
