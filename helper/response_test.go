package helper

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"rakshak-service/pkg/apperror"

	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestSendAppErrorMapsKinds(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		status   int
		code     string
		errorMsg string
	}{
		{"validation", apperror.Validation("invalid status %q", "closed"), http.StatusBadRequest, ErrInvalidRequest, `invalid status "closed"`},
		{"not found", apperror.NotFound("incident not found"), http.StatusNotFound, ErrNotFound, "incident not found"},
		{"unavailable", apperror.ServiceUnavailable("database not available"), http.StatusServiceUnavailable, ErrServiceUnavailable, "database not available"},
		{"internal", errors.New("connection reset"), http.StatusInternalServerError, ErrInvalidOperation, "internal server error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)

			SendAppError(c, tt.err)

			if w.Code != tt.status {
				t.Fatalf("status = %d, want %d", w.Code, tt.status)
			}
			var resp APIResponse
			if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if resp.ErrorCode != tt.code {
				t.Errorf("error_code = %q, want %q", resp.ErrorCode, tt.code)
			}
			if resp.Error != tt.errorMsg {
				t.Errorf("error = %q, want %q", resp.Error, tt.errorMsg)
			}
		})
	}
}

func TestSendSuccess(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	SendSuccess(c, http.StatusCreated, "success", map[string]int{"total": 3})

	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d", w.Code)
	}
	var resp struct {
		Message string         `json:"message"`
		Data    map[string]int `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Message != "success" || resp.Data["total"] != 3 {
		t.Errorf("unexpected body %s", w.Body.String())
	}
}
