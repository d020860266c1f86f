package contact

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

func newTestRouter(repo *memRepo) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	RegisterRoutes(r.Group("/api"), NewContactHandler(newTestService(repo), "default"))
	return r
}

type envelope struct {
	StatusCode int             `json:"status_code"`
	Error      string          `json:"error"`
	ErrorCode  string          `json:"error_code"`
	Data       json.RawMessage `json:"data"`
}

func do(t *testing.T, r http.Handler, method, target, body string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var env envelope
	if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode %q: %v", w.Body.String(), err)
	}
	return w, env
}

func TestContactHandlers(t *testing.T) {
	repo := &memRepo{}
	r := newTestRouter(repo)

	w, env := do(t, r, http.MethodPost, "/api/contacts", `{"name":"Asha","phone":"09876543210"}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("create status %d: %s", w.Code, w.Body.String())
	}
	var created Contact
	if err := json.Unmarshal(env.Data, &created); err != nil {
		t.Fatal(err)
	}
	if created.Phone != "+919876543210" || created.UserID != "default" {
		t.Errorf("unexpected contact %+v", created)
	}

	w, env = do(t, r, http.MethodGet, "/api/contacts", "")
	if w.Code != http.StatusOK {
		t.Fatalf("list status %d", w.Code)
	}
	var list []Contact
	if err := json.Unmarshal(env.Data, &list); err != nil {
		t.Fatal(err)
	}
	if len(list) != 1 {
		t.Fatalf("expected one contact, got %d", len(list))
	}

	w, _ = do(t, r, http.MethodGet, "/api/contacts?userId=someone-else", "")
	if w.Code != http.StatusOK {
		t.Fatalf("list status %d", w.Code)
	}

	w, _ = do(t, r, http.MethodDelete, "/api/contacts/"+created.ID.Hex(), "")
	if w.Code != http.StatusOK {
		t.Fatalf("delete status %d", w.Code)
	}

	w, env = do(t, r, http.MethodDelete, "/api/contacts/"+created.ID.Hex(), "")
	if w.Code != http.StatusNotFound || env.ErrorCode != "NOT_FOUND" {
		t.Fatalf("second delete: %d %+v", w.Code, env)
	}
}

func TestCreateContactInvalidPhone(t *testing.T) {
	r := newTestRouter(&memRepo{})

	w, env := do(t, r, http.MethodPost, "/api/contacts", `{"name":"A","phone":"12345"}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status %d", w.Code)
	}
	if !strings.Contains(env.Error, "10-digit") {
		t.Errorf("error = %q", env.Error)
	}
}
