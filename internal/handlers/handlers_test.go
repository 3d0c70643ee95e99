package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/board-api/internal/mail"
	"github.com/yukikurage/board-api/internal/repository"
	"github.com/yukikurage/board-api/internal/services"
	"github.com/yukikurage/board-api/internal/storage"
	"github.com/yukikurage/board-api/internal/story"
	"github.com/yukikurage/board-api/internal/testutil"
	"gorm.io/gorm"
)

type apiTestEnv struct {
	db     *gorm.DB
	router *gin.Engine
	auth   *services.AuthService
}

func setupAPITestEnv(t *testing.T) *apiTestEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := testutil.NewDB(t)
	store, err := storage.NewLocalStore(t.TempDir())
	require.NoError(t, err)

	alloc := story.NewAllocator("US", 234567)
	userRepo := repository.NewUserRepository(db)
	projectRepo := repository.NewProjectRepository(db, alloc)
	columnRepo := repository.NewColumnRepository(db)
	taskRepo := repository.NewTaskRepository(db, alloc)
	featureRepo := repository.NewFeatureRepository(db)

	authService := services.NewAuthService(
		userRepo,
		services.NewTokenService("test-secret", time.Hour),
		mail.LogMailer{},
		services.AuthOptions{ResetTokenTTL: 15 * time.Minute, FrontendURL: "http://frontend.test"},
	)
	t.Cleanup(authService.Wait)

	r := gin.New()
	RegisterRoutes(r.Group("/api/v1"), Services{
		Auth:     authService,
		Project:  services.NewProjectService(projectRepo, store),
		Column:   services.NewColumnService(projectRepo, columnRepo),
		Task:     services.NewTaskService(projectRepo, columnRepo, taskRepo, featureRepo),
		Feature:  services.NewFeatureService(projectRepo, featureRepo, nil),
		Hub:      services.NewHubService(projectRepo, repository.NewHubSectionRepository(db), userRepo),
		Document: services.NewDocumentService(projectRepo, repository.NewDocumentRepository(db), store, 1024),
	})

	return &apiTestEnv{db: db, router: r, auth: authService}
}

// do sends a JSON request and returns the recorded response
func (e *apiTestEnv) do(t *testing.T, method, url, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var req *http.Request
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		req = httptest.NewRequest(method, url, bytes.NewReader(payload))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, url, nil)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

// signIn registers a user and returns a bearer token for it
func (e *apiTestEnv) signIn(t *testing.T, email string) string {
	t.Helper()

	w := e.do(t, http.MethodPost, "/api/v1/auth/register", "", map[string]string{
		"email":    email,
		"password": "supersecret",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = e.do(t, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"email":    email,
		"password": "supersecret",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		AccessToken string `json:"access_token"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.AccessToken)
	return resp.AccessToken
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}
