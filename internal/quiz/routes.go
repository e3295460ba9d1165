// internal/quiz/routes.go
package quiz

import (
	"net/http"

	"github.com/gorilla/mux"
)

// RegisterRoutes wires the quiz surface onto the router. Mutations of
// quizzes and questions require the auth middleware; detail reads, view
// counting and deletion are public. Literal paths go first so they are not
// swallowed by {quizId}.
func RegisterRoutes(router *mux.Router, h *Handler, requireAuth func(http.Handler) http.Handler) {
	router.Handle("/api/quiz/create", requireAuth(http.HandlerFunc(h.CreateQuiz))).Methods("POST", "OPTIONS")
	router.Handle("/api/quiz/myquizzes", requireAuth(http.HandlerFunc(h.GetMyQuizzes))).Methods("GET", "OPTIONS")

	router.Handle("/api/quiz/{quizId}/questions/{questionId}", requireAuth(http.HandlerFunc(h.UpdateQuestion))).Methods("PUT", "OPTIONS")
	router.Handle("/api/quiz/{quizId}/questions", requireAuth(http.HandlerFunc(h.AddQuestions))).Methods("POST", "OPTIONS")
	router.HandleFunc("/api/quiz/{quizId}/views", h.IncrementViews).Methods("PUT", "OPTIONS")

	router.HandleFunc("/api/quiz/{quizId}", h.GetQuizDetail).Methods("GET", "OPTIONS")
	router.Handle("/api/quiz/{quizId}", requireAuth(http.HandlerFunc(h.UpdateQuiz))).Methods("PUT", "OPTIONS")
	router.HandleFunc("/api/quiz/{quizId}", h.DeleteQuiz).Methods("DELETE", "OPTIONS")
}
