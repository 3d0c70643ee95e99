package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/board-api/internal/mail"
	"github.com/yukikurage/board-api/internal/models"
	"github.com/yukikurage/board-api/internal/repository"
	"github.com/yukikurage/board-api/internal/storage"
	"github.com/yukikurage/board-api/internal/story"
	"github.com/yukikurage/board-api/internal/testutil"
	"gorm.io/gorm"
)

type recordingMailer struct {
	mu   sync.Mutex
	sent []mail.Message
	err  error
}

func (m *recordingMailer) Send(_ context.Context, msg mail.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, msg)
	return nil
}

func (m *recordingMailer) messages() []mail.Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]mail.Message(nil), m.sent...)
}

type stubDrafter struct {
	drafts []DraftTask
	err    error
	brief  FeatureBrief
}

func (d *stubDrafter) DraftTasks(_ context.Context, brief FeatureBrief) ([]DraftTask, error) {
	d.brief = brief
	return d.drafts, d.err
}

// testEnv wires every service against one in-memory database
type testEnv struct {
	db       *gorm.DB
	store    *storage.LocalStore
	mailer   *recordingMailer
	tokens   *TokenService
	auth     *AuthService
	projects *ProjectService
	columns  *ColumnService
	tasks    *TaskService
	features *FeatureService
	hub      *HubService
	docs     *DocumentService
	drafter  *stubDrafter
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db := testutil.NewDB(t)
	store, err := storage.NewLocalStore(t.TempDir())
	require.NoError(t, err)

	alloc := story.NewAllocator("US", 234567)
	userRepo := repository.NewUserRepository(db)
	projectRepo := repository.NewProjectRepository(db, alloc)
	columnRepo := repository.NewColumnRepository(db)
	taskRepo := repository.NewTaskRepository(db, alloc)
	featureRepo := repository.NewFeatureRepository(db)

	env := &testEnv{
		db:      db,
		store:   store,
		mailer:  &recordingMailer{},
		tokens:  NewTokenService("test-secret", time.Hour),
		drafter: &stubDrafter{},
	}
	env.auth = NewAuthService(userRepo, env.tokens, env.mailer, AuthOptions{
		ResetTokenTTL: 15 * time.Minute,
		FrontendURL:   "http://frontend.test/",
	})
	env.projects = NewProjectService(projectRepo, store)
	env.columns = NewColumnService(projectRepo, columnRepo)
	env.tasks = NewTaskService(projectRepo, columnRepo, taskRepo, featureRepo)
	env.features = NewFeatureService(projectRepo, featureRepo, env.drafter)
	env.hub = NewHubService(projectRepo, repository.NewHubSectionRepository(db), userRepo)
	env.docs = NewDocumentService(projectRepo, repository.NewDocumentRepository(db), store, 64)
	return env
}

func (e *testEnv) user(t *testing.T, email string) *models.User {
	t.Helper()
	u := &models.User{Email: email, PasswordHash: "x", IsActive: true}
	require.NoError(t, e.db.Create(u).Error)
	return u
}

func (e *testEnv) project(t *testing.T, owner *models.User, name string) ProjectScope {
	t.Helper()
	p, err := e.projects.CreateProject(owner.ID, name)
	require.NoError(t, err)
	return ProjectScope{OwnerID: owner.ID, ProjectID: p.ID}
}

func strPtr(s string) *string { return &s }

func foreignScope(scope ProjectScope, other uuid.UUID) ProjectScope {
	return ProjectScope{OwnerID: other, ProjectID: scope.ProjectID}
}
