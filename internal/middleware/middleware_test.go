package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"rakshak-service/internal/metrics"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestCORS(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name       string
		origins    string
		origin     string
		method     string
		wantHeader string
		wantStatus int
	}{
		{name: "wildcard", origins: "*", origin: "http://a.test", method: http.MethodGet, wantHeader: "*", wantStatus: http.StatusOK},
		{name: "listed", origins: "http://a.test, http://b.test", origin: "http://b.test", method: http.MethodGet, wantHeader: "http://b.test", wantStatus: http.StatusOK},
		{name: "not listed", origins: "http://a.test", origin: "http://evil.test", method: http.MethodGet, wantHeader: "", wantStatus: http.StatusOK},
		{name: "preflight", origins: "*", origin: "http://a.test", method: http.MethodOptions, wantHeader: "*", wantStatus: http.StatusNoContent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := gin.New()
			r.Use(CORS(tt.origins))
			r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

			req := httptest.NewRequest(tt.method, "/x", nil)
			req.Header.Set("Origin", tt.origin)
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Errorf("status %d, want %d", w.Code, tt.wantStatus)
			}
			if got := w.Header().Get("Access-Control-Allow-Origin"); got != tt.wantHeader {
				t.Errorf("allow-origin %q, want %q", got, tt.wantHeader)
			}
		})
	}
}

func TestRequestLogger(t *testing.T) {
	gin.SetMode(gin.TestMode)
	core, logs := observer.New(zapcore.InfoLevel)

	r := gin.New()
	r.Use(RequestLogger(zap.New(core).Sugar()))
	r.GET("/ok", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/bad", func(c *gin.Context) { c.Status(http.StatusBadRequest) })
	r.GET("/boom", func(c *gin.Context) { c.Status(http.StatusInternalServerError) })

	for _, p := range []string{"/ok", "/bad", "/boom"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, p, nil))
	}

	entries := logs.All()
	if len(entries) != 3 {
		t.Fatalf("expected 3 log entries, got %d", len(entries))
	}
	want := []zapcore.Level{zapcore.InfoLevel, zapcore.WarnLevel, zapcore.ErrorLevel}
	for i, e := range entries {
		if e.Level != want[i] {
			t.Errorf("entry %d level %v, want %v", i, e.Level, want[i])
		}
	}
}

func TestHTTPMetricsUsesRouteTemplate(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m := metrics.New()

	r := gin.New()
	r.Use(HTTPMetrics(m))
	r.GET("/incidents/:id", func(c *gin.Context) { c.Status(http.StatusOK) })

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/incidents/1", nil))
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/incidents/2", nil))
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/nowhere", nil))

	if got := counterValue(t, m, metrics.MetricHTTPRequestsTotal); got != 3 {
		t.Errorf("requests counter = %v, want 3", got)
	}
}
