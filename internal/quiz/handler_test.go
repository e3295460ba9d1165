// internal/quiz/handler_test.go
package quiz

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/require"

	"quizhub/internal/auth"
)

// asUser stands in for the JWT middleware: every request through it is
// authenticated as the given user.
func asUser(userID uint) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(auth.WithUserID(r.Context(), userID)))
		})
	}
}

func newTestRouter(userID uint) *mux.Router {
	repo := newFakeRepo()
	handler := NewHandler(NewService(repo, nil))
	router := mux.NewRouter()
	RegisterRoutes(router, handler, asUser(userID))
	return router
}

func doJSON(t *testing.T, router *mux.Router, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestCreateQuizEndpoint(t *testing.T) {
	router := newTestRouter(3)

	rec := doJSON(t, router, http.MethodPost, "/api/quiz/create", map[string]string{
		"name": "Geo",
		"type": "trivia",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	body := decodeBody(t, rec)
	require.Equal(t, "Geo", body["name"])
	require.Equal(t, "trivia", body["type"])
	require.Equal(t, float64(3), body["user"])
	require.Equal(t, float64(0), body["views"])
	require.Equal(t, []interface{}{}, body["questions"])
}

func TestAddQuestionsBadShape(t *testing.T) {
	router := newTestRouter(1)

	create := doJSON(t, router, http.MethodPost, "/api/quiz/create", map[string]string{"name": "Geo"})
	require.Equal(t, http.StatusCreated, create.Code)
	quizID := decodeBody(t, create)["id"].(string)

	for name, body := range map[string]interface{}{
		"questions is a string": map[string]interface{}{"questions": "not-an-array"},
		"questions missing":     map[string]interface{}{},
		"questions null":        map[string]interface{}{"questions": nil},
	} {
		rec := doJSON(t, router, http.MethodPost, "/api/quiz/"+quizID+"/questions", body)
		require.Equal(t, http.StatusBadRequest, rec.Code, name)
		require.Equal(t, "Invalid input format", decodeBody(t, rec)["message"], name)
	}

	// A rejected call must not have touched the quiz.
	detail := doJSON(t, router, http.MethodGet, "/api/quiz/"+quizID, nil)
	require.Equal(t, http.StatusOK, detail.Code)
	require.Empty(t, decodeBody(t, detail)["questions"])
}

func TestQuizNotFoundResponses(t *testing.T) {
	router := newTestRouter(1)
	missing := uuid.New().String()

	cases := []struct {
		method, path string
		body         interface{}
	}{
		{http.MethodGet, "/api/quiz/" + missing, nil},
		{http.MethodPut, "/api/quiz/" + missing + "/views", nil},
		{http.MethodDelete, "/api/quiz/" + missing, nil},
		{http.MethodPut, "/api/quiz/" + missing, map[string]string{"name": "x"}},
		{http.MethodPost, "/api/quiz/" + missing + "/questions", map[string]interface{}{"questions": []interface{}{}}},
		// An unparsable id can never resolve.
		{http.MethodGet, "/api/quiz/not-a-uuid", nil},
	}
	for _, tc := range cases {
		rec := doJSON(t, router, tc.method, tc.path, tc.body)
		require.Equal(t, http.StatusNotFound, rec.Code, "%s %s", tc.method, tc.path)
		require.Equal(t, "Quiz not found", decodeBody(t, rec)["message"])
	}
}

func TestUpdateQuestionNotFoundShape(t *testing.T) {
	router := newTestRouter(1)

	create := doJSON(t, router, http.MethodPost, "/api/quiz/create", map[string]string{"name": "A"})
	quizID := decodeBody(t, create)["id"].(string)

	other := doJSON(t, router, http.MethodPost, "/api/quiz/create", map[string]string{"name": "B"})
	otherID := decodeBody(t, other)["id"].(string)
	added := doJSON(t, router, http.MethodPost, "/api/quiz/"+otherID+"/questions", map[string]interface{}{
		"questions": []interface{}{map[string]interface{}{"text": "x"}},
	})
	require.Equal(t, http.StatusCreated, added.Code)
	questions := decodeBody(t, added)["questions"].([]interface{})
	questionID := questions[0].(map[string]interface{})["id"].(string)

	// Cross-quiz and missing ids answer identically.
	cross := doJSON(t, router, http.MethodPut, "/api/quiz/"+quizID+"/questions/"+questionID, map[string]string{"text": "y"})
	missing := doJSON(t, router, http.MethodPut, "/api/quiz/"+quizID+"/questions/"+uuid.New().String(), map[string]string{"text": "y"})

	require.Equal(t, http.StatusNotFound, cross.Code)
	require.Equal(t, http.StatusNotFound, missing.Code)
	require.Equal(t, decodeBody(t, cross), decodeBody(t, missing))
}

func TestQuizLifecycle(t *testing.T) {
	router := newTestRouter(5)

	create := doJSON(t, router, http.MethodPost, "/api/quiz/create", map[string]string{
		"name": "Geo",
		"type": "trivia",
	})
	require.Equal(t, http.StatusCreated, create.Code)
	quizID := decodeBody(t, create)["id"].(string)

	added := doJSON(t, router, http.MethodPost, "/api/quiz/"+quizID+"/questions", map[string]interface{}{
		"questions": []interface{}{
			map[string]interface{}{"text": "Capital of France?", "quiz": "spoofed"},
			map[string]interface{}{"text": "Capital of Japan?"},
		},
	})
	require.Equal(t, http.StatusCreated, added.Code)

	detail := doJSON(t, router, http.MethodGet, "/api/quiz/"+quizID, nil)
	require.Equal(t, http.StatusOK, detail.Code)
	questions := decodeBody(t, detail)["questions"].([]interface{})
	require.Len(t, questions, 2)
	first := questions[0].(map[string]interface{})
	second := questions[1].(map[string]interface{})
	require.Equal(t, "Capital of France?", first["text"])
	require.Equal(t, "Capital of Japan?", second["text"])
	require.Equal(t, quizID, first["quiz"], "quiz linkage cannot be spoofed")

	for i := 1; i <= 3; i++ {
		rec := doJSON(t, router, http.MethodPut, "/api/quiz/"+quizID+"/views", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		require.Equal(t, float64(i), decodeBody(t, rec)["views"])
	}

	list := doJSON(t, router, http.MethodGet, "/api/quiz/myquizzes", nil)
	require.Equal(t, http.StatusOK, list.Code)
	var quizzes []map[string]interface{}
	require.NoError(t, json.Unmarshal(list.Body.Bytes(), &quizzes))
	require.Len(t, quizzes, 1)
	require.Equal(t, float64(3), quizzes[0]["views"])

	deleted := doJSON(t, router, http.MethodDelete, "/api/quiz/"+quizID, nil)
	require.Equal(t, http.StatusOK, deleted.Code)
	require.Equal(t, "Quiz and associated questions deleted successfully", decodeBody(t, deleted)["message"])

	gone := doJSON(t, router, http.MethodGet, "/api/quiz/"+quizID, nil)
	require.Equal(t, http.StatusNotFound, gone.Code)

	again := doJSON(t, router, http.MethodDelete, "/api/quiz/"+quizID, nil)
	require.Equal(t, http.StatusNotFound, again.Code)
}

func TestUpdateQuizEndpoint(t *testing.T) {
	router := newTestRouter(1)

	create := doJSON(t, router, http.MethodPost, "/api/quiz/create", map[string]string{
		"name": "Geo",
		"type": "trivia",
	})
	quizID := decodeBody(t, create)["id"].(string)

	rec := doJSON(t, router, http.MethodPut, "/api/quiz/"+quizID, map[string]string{
		"name": "",
		"type": "exam",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	require.Equal(t, "Quiz updated successfully", body["message"])

	quiz := body["quiz"].(map[string]interface{})
	require.Equal(t, "Geo", quiz["name"], "empty name is treated as not provided")
	require.Equal(t, "exam", quiz["type"])
}

func TestListMyQuizzesScopedToOwner(t *testing.T) {
	repo := newFakeRepo()
	handler := NewHandler(NewService(repo, nil))

	makeRouter := func(userID uint) *mux.Router {
		router := mux.NewRouter()
		RegisterRoutes(router, handler, asUser(userID))
		return router
	}

	owner := makeRouter(1)
	stranger := makeRouter(2)

	for i := 0; i < 2; i++ {
		rec := doJSON(t, owner, http.MethodPost, "/api/quiz/create", map[string]string{
			"name": fmt.Sprintf("quiz-%d", i),
		})
		require.Equal(t, http.StatusCreated, rec.Code)
	}

	list := doJSON(t, owner, http.MethodGet, "/api/quiz/myquizzes", nil)
	var mine []map[string]interface{}
	require.NoError(t, json.Unmarshal(list.Body.Bytes(), &mine))
	require.Len(t, mine, 2)

	list = doJSON(t, stranger, http.MethodGet, "/api/quiz/myquizzes", nil)
	var theirs []map[string]interface{}
	require.NoError(t, json.Unmarshal(list.Body.Bytes(), &theirs))
	require.Empty(t, theirs)
}
