package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/school-records-api/internal/models"
	appErrors "github.com/noah-isme/school-records-api/pkg/errors"
	"github.com/noah-isme/school-records-api/pkg/logger"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type stubAuthenticator struct {
	actor *models.Actor
	err   error
	token string
}

func (s *stubAuthenticator) Authenticate(ctx context.Context, token string) (*models.Actor, error) {
	s.token = token
	return s.actor, s.err
}

type recordingAudit struct {
	mu     sync.Mutex
	events []models.AuditEvent
}

func (r *recordingAudit) Record(event models.AuditEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
}

type recordingObserver struct {
	path   string
	status int
}

func (r *recordingObserver) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	r.path = path
	r.status = status
}

func newRouter(handlers ...gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	r.GET("/things/:id", handlers...)
	return r
}

func TestJWTSetsActor(t *testing.T) {
	auth := &stubAuthenticator{actor: &models.Actor{UserID: "teacher-1", Role: models.RoleTeacher}}
	var seen *models.Actor
	var loggedID string
	r := newRouter(JWT(auth), func(c *gin.Context) {
		seen, _ = ActorFromContext(c)
		loggedID = c.GetString(logger.ActorIDKey)
		c.Status(http.StatusNoContent)
	})

	req := httptest.NewRequest(http.MethodGet, "/things/1", nil)
	req.Header.Set("Authorization", "Bearer abc.def.ghi")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	require.NotNil(t, seen)
	assert.Equal(t, "teacher-1", seen.UserID)
	assert.Equal(t, "teacher-1", loggedID)
	assert.Equal(t, "abc.def.ghi", auth.token)
}

func TestJWTRejects(t *testing.T) {
	cases := map[string]struct {
		header string
		err    error
		status int
	}{
		"missing header": {"", nil, http.StatusUnauthorized},
		"wrong scheme":   {"Basic abc", nil, http.StatusUnauthorized},
		"invalid token":  {"Bearer abc", appErrors.Clone(appErrors.ErrUnauthorized, "invalid token"), http.StatusUnauthorized},
		"no profile":     {"Bearer abc", appErrors.Clone(appErrors.ErrForbidden, "no profile"), http.StatusForbidden},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			called := false
			r := newRouter(JWT(&stubAuthenticator{err: tc.err}), func(c *gin.Context) { called = true })
			req := httptest.NewRequest(http.MethodGet, "/things/1", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			assert.Equal(t, tc.status, w.Code)
			assert.False(t, called)
		})
	}
}

func TestRequireRoles(t *testing.T) {
	withActor := func(role models.ProfileRole) gin.HandlerFunc {
		return func(c *gin.Context) {
			c.Set(ContextActorKey, &models.Actor{UserID: "u", Role: role})
		}
	}
	ok := func(c *gin.Context) { c.Status(http.StatusOK) }

	w := httptest.NewRecorder()
	newRouter(withActor(models.RolePreceptor), RequireStaff(), ok).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/things/1", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	newRouter(withActor(models.RoleStudent), RequireStaff(), ok).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/things/1", nil))
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = httptest.NewRecorder()
	newRouter(RequireStaff(), ok).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/things/1", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuditRecordsSuccessfulWritesOnly(t *testing.T) {
	recorder := &recordingAudit{}
	setActor := func(c *gin.Context) {
		c.Set(ContextActorKey, &models.Actor{UserID: "director-1", Role: models.RoleDirector})
	}
	r := gin.New()
	r.POST("/ok", setActor, Audit(recorder, models.AuditActionProfileCreate, "profile"), func(c *gin.Context) {
		c.Set(AuditResourceIDKey, "profile-9")
		c.Status(http.StatusCreated)
	})
	r.POST("/fail", setActor, Audit(recorder, models.AuditActionProfileCreate, "profile"), func(c *gin.Context) {
		c.Status(http.StatusBadRequest)
	})

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/ok", nil))
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/fail", nil))

	require.Len(t, recorder.events, 1)
	event := recorder.events[0]
	assert.Equal(t, "director-1", event.ActorID)
	assert.Equal(t, "profile-9", event.ResourceID)
	assert.Equal(t, http.StatusCreated, event.Details["status"])
}

func TestMetricsLabelsUnmatchedRoutes(t *testing.T) {
	observer := &recordingObserver{}
	r := gin.New()
	r.Use(Metrics(observer))
	r.GET("/things/:id", func(c *gin.Context) { c.Status(http.StatusOK) })

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/things/42", nil))
	assert.Equal(t, "/things/:id", observer.path)

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/nope", nil))
	assert.Equal(t, "unmatched", observer.path)
	assert.Equal(t, http.StatusNotFound, observer.status)
}
