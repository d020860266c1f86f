package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"rakshak-service/internal/user"
	"rakshak-service/pkg/constants"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestSecuredAndRequireRole(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tokens := user.NewTokenIssuer("secret", time.Hour)
	issue := func(role string) string {
		tok, err := tokens.Issue(&user.User{ID: primitive.NewObjectID(), Username: role, Role: role})
		if err != nil {
			t.Fatal(err)
		}
		return tok
	}

	r := gin.New()
	r.PATCH("/incidents/:id", Secured(tokens), RequireRole(constants.RoleAdmin, constants.RoleModerator), func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString(constants.UserRole))
	})

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{name: "no header", want: http.StatusUnauthorized},
		{name: "not bearer", header: "Basic abc", want: http.StatusUnauthorized},
		{name: "bad token", header: "Bearer nope", want: http.StatusUnauthorized},
		{name: "wrong role", header: "Bearer " + issue(constants.RoleUser), want: http.StatusForbidden},
		{name: "moderator", header: "Bearer " + issue(constants.RoleModerator), want: http.StatusOK},
		{name: "admin", header: "Bearer " + issue(constants.RoleAdmin), want: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPatch, "/incidents/abc", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			if w.Code != tt.want {
				t.Errorf("status %d, want %d: %s", w.Code, tt.want, w.Body.String())
			}
		})
	}
}
