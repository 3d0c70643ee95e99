package handlers

import (
	"bytes"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"github.com/yukikurage/board-api/internal/dto"
)

// BoardHandlerTestSuite drives the project scoped endpoints through the router
type BoardHandlerTestSuite struct {
	suite.Suite
	env     *apiTestEnv
	token   string
	project dto.ProjectDTO
}

func (suite *BoardHandlerTestSuite) SetupTest() {
	suite.env = setupAPITestEnv(suite.T())
	suite.token = suite.env.signIn(suite.T(), "owner@example.com")

	w := suite.env.do(suite.T(), http.MethodPost, "/api/v1/projects", suite.token, map[string]string{"name": "Board"})
	suite.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	suite.project = decode[dto.ProjectDTO](suite.T(), w)
}

func (suite *BoardHandlerTestSuite) url(format string, args ...interface{}) string {
	return fmt.Sprintf("/api/v1/projects/%s", suite.project.ID) + fmt.Sprintf(format, args...)
}

func (suite *BoardHandlerTestSuite) createTask(body map[string]interface{}) dto.TaskDTO {
	w := suite.env.do(suite.T(), http.MethodPost, suite.url("/tasks"), suite.token, body)
	suite.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	return decode[dto.TaskDTO](suite.T(), w)
}

func (suite *BoardHandlerTestSuite) TestCreateProject_ReturnsColumns() {
	suite.Require().Len(suite.project.Columns, 4)
	suite.Equal("to_do", suite.project.Columns[0].Key)
	suite.Equal("done", suite.project.Columns[3].Key)

	w := suite.env.do(suite.T(), http.MethodGet, suite.url(""), suite.token, nil)
	suite.Require().Equal(http.StatusOK, w.Code)
	suite.Empty(decode[dto.ProjectDTO](suite.T(), w).Columns)

	w = suite.env.do(suite.T(), http.MethodGet, suite.url("?include=columns"), suite.token, nil)
	suite.Require().Equal(http.StatusOK, w.Code)
	suite.Len(decode[dto.ProjectDTO](suite.T(), w).Columns, 4)
}

func (suite *BoardHandlerTestSuite) TestColumns() {
	w := suite.env.do(suite.T(), http.MethodPost, suite.url("/columns"), suite.token, map[string]string{"title": "Code Review"})
	suite.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	column := decode[dto.ColumnDTO](suite.T(), w)
	suite.Equal("code_review", column.Key)
	suite.Equal(4, column.Pos)

	w = suite.env.do(suite.T(), http.MethodPost, suite.url("/columns"), suite.token, map[string]string{"title": "code review"})
	suite.Equal(http.StatusConflict, w.Code)

	w = suite.env.do(suite.T(), http.MethodPost, suite.url("/columns/seed"), suite.token, nil)
	suite.Require().Equal(http.StatusOK, w.Code)
	seeded := decode[struct {
		Added   int64           `json:"added"`
		Columns []dto.ColumnDTO `json:"columns"`
	}](suite.T(), w)
	suite.Equal(int64(0), seeded.Added)
	suite.Len(seeded.Columns, 5)
}

func (suite *BoardHandlerTestSuite) TestTaskLifecycle() {
	task := suite.createTask(map[string]interface{}{"title": "Ship it", "priority": "medium"})
	suite.Equal("to_do", task.Status)
	suite.Equal("US234567", task.StoryID)
	suite.Nil(task.CompletedAt)

	w := suite.env.do(suite.T(), http.MethodPatch, suite.url("/tasks/%s/status", task.ID), suite.token, map[string]string{"status": "Done"})
	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	done := decode[dto.TaskDTO](suite.T(), w)
	suite.Equal("done", done.Status)
	suite.NotNil(done.CompletedAt)

	w = suite.env.do(suite.T(), http.MethodPatch, suite.url("/tasks/%s/status", task.ID), suite.token, map[string]string{"status": "bogus"})
	suite.Equal(http.StatusBadRequest, w.Code)

	w = suite.env.do(suite.T(), http.MethodGet, suite.url("/tasks/%s", task.ID), suite.token, nil)
	suite.Require().Equal(http.StatusOK, w.Code)
	suite.Equal("done", decode[dto.TaskDTO](suite.T(), w).Status)

	w = suite.env.do(suite.T(), http.MethodDelete, suite.url("/tasks/%s", task.ID), suite.token, nil)
	suite.Equal(http.StatusNoContent, w.Code)

	w = suite.env.do(suite.T(), http.MethodGet, suite.url("/tasks/%s", task.ID), suite.token, nil)
	suite.Equal(http.StatusNotFound, w.Code)
}

func (suite *BoardHandlerTestSuite) TestUpdateTask_NullVersusAbsent() {
	task := suite.createTask(map[string]interface{}{
		"title":       "Partial",
		"description": "keep",
		"assignee":    "alice",
		"due_date":    "2026-05-01T00:00:00Z",
	})

	w := suite.env.do(suite.T(), http.MethodPatch, suite.url("/tasks/%s", task.ID), suite.token, map[string]interface{}{
		"assignee": nil,
		"due_date": nil,
		"status":   "in-progress",
	})
	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())

	updated := decode[dto.TaskDTO](suite.T(), w)
	suite.Equal("Partial", updated.Title)
	suite.Require().NotNil(updated.Description)
	suite.Equal("keep", *updated.Description)
	suite.Nil(updated.Assignee)
	suite.Nil(updated.DueDate)
	suite.Equal("in_progress", updated.Status)
}

func (suite *BoardHandlerTestSuite) TestCreateTask_Errors() {
	w := suite.env.do(suite.T(), http.MethodPost, suite.url("/tasks"), suite.token, map[string]interface{}{"description": "no title"})
	suite.Equal(http.StatusBadRequest, w.Code)

	w = suite.env.do(suite.T(), http.MethodPost, suite.url("/tasks"), suite.token, map[string]interface{}{"title": "x", "status": "nowhere"})
	suite.Equal(http.StatusBadRequest, w.Code)

	suite.createTask(map[string]interface{}{"title": "First", "story_id": "EXT-1"})
	w = suite.env.do(suite.T(), http.MethodPost, suite.url("/tasks"), suite.token, map[string]interface{}{"title": "Second", "story_id": "EXT-1"})
	suite.Equal(http.StatusConflict, w.Code)
}

func (suite *BoardHandlerTestSuite) TestListTasks() {
	suite.createTask(map[string]interface{}{"title": "Login page", "assignee": "alice"})
	suite.createTask(map[string]interface{}{"title": "Signup page", "assignee": "bob"})
	suite.createTask(map[string]interface{}{"title": "Schema", "status": "validation"})

	w := suite.env.do(suite.T(), http.MethodGet, suite.url("/tasks?q=page&limit=1"), suite.token, nil)
	suite.Require().Equal(http.StatusOK, w.Code)
	list := decode[dto.TaskListResponse](suite.T(), w)
	suite.Equal(int64(2), list.TotalCount)
	suite.Equal(2, list.TotalPages)
	suite.Len(list.Tasks, 1)

	w = suite.env.do(suite.T(), http.MethodGet, suite.url("/tasks?status=Validation"), suite.token, nil)
	suite.Require().Equal(http.StatusOK, w.Code)
	list = decode[dto.TaskListResponse](suite.T(), w)
	suite.Require().Len(list.Tasks, 1)
	suite.Equal("Schema", list.Tasks[0].Title)

	w = suite.env.do(suite.T(), http.MethodGet, suite.url("/tasks?assignee=bob"), suite.token, nil)
	suite.Require().Equal(http.StatusOK, w.Code)
	suite.Len(decode[dto.TaskListResponse](suite.T(), w).Tasks, 1)

	w = suite.env.do(suite.T(), http.MethodGet, suite.url("/tasks?status=bogus"), suite.token, nil)
	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *BoardHandlerTestSuite) TestForeignProjectIsNotFound() {
	task := suite.createTask(map[string]interface{}{"title": "Private"})
	other := suite.env.signIn(suite.T(), "other@example.com")

	for _, path := range []string{"", "/tasks", fmt.Sprintf("/tasks/%s", task.ID), "/columns", "/hub", "/documents"} {
		w := suite.env.do(suite.T(), http.MethodGet, suite.url("%s", path), other, nil)
		suite.Equal(http.StatusNotFound, w.Code, path)
	}

	w := suite.env.do(suite.T(), http.MethodDelete, suite.url(""), other, nil)
	suite.Equal(http.StatusNotFound, w.Code)

	w = suite.env.do(suite.T(), http.MethodGet, "/api/v1/projects", other, nil)
	suite.Require().Equal(http.StatusOK, w.Code)
	suite.Empty(decode[struct {
		Projects []dto.ProjectDTO `json:"projects"`
	}](suite.T(), w).Projects)

	w = suite.env.do(suite.T(), http.MethodGet, "/api/v1/projects/not-a-uuid/tasks", suite.token, nil)
	suite.Equal(http.StatusNotFound, w.Code)
	w = suite.env.do(suite.T(), http.MethodGet, suite.url("/tasks/%s", uuid.New()), suite.token, nil)
	suite.Equal(http.StatusNotFound, w.Code)
}

func (suite *BoardHandlerTestSuite) TestFeatures() {
	w := suite.env.do(suite.T(), http.MethodPost, suite.url("/features"), suite.token, map[string]interface{}{"name": "Checkout"})
	suite.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	feature := decode[dto.FeatureDTO](suite.T(), w)

	suite.createTask(map[string]interface{}{"title": "Cart", "feature_id": feature.ID})

	w = suite.env.do(suite.T(), http.MethodGet, suite.url("/features/%s/tasks", feature.ID), suite.token, nil)
	suite.Require().Equal(http.StatusOK, w.Code)
	suite.Len(decode[dto.TaskListResponse](suite.T(), w).Tasks, 1)

	w = suite.env.do(suite.T(), http.MethodPatch, suite.url("/features/%s", feature.ID), suite.token, map[string]interface{}{"details": "Cards only"})
	suite.Require().Equal(http.StatusOK, w.Code)
	suite.Equal("Cards only", *decode[dto.FeatureDTO](suite.T(), w).Details)

	// no AI key is configured in tests
	w = suite.env.do(suite.T(), http.MethodPost, suite.url("/features/%s/suggest-tasks", feature.ID), suite.token, nil)
	suite.Equal(http.StatusServiceUnavailable, w.Code)

	w = suite.env.do(suite.T(), http.MethodDelete, suite.url("/features/%s", feature.ID), suite.token, nil)
	suite.Equal(http.StatusNoContent, w.Code)
}

func (suite *BoardHandlerTestSuite) TestHubSections() {
	w := suite.env.do(suite.T(), http.MethodPut, suite.url("/hub/setup"), suite.token, map[string]interface{}{"content": map[string]int{"a": 1}})
	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	first := decode[dto.HubSectionDTO](suite.T(), w)

	w = suite.env.do(suite.T(), http.MethodPut, suite.url("/hub/setup"), suite.token, map[string]interface{}{"content": map[string]int{"a": 2}})
	suite.Require().Equal(http.StatusOK, w.Code)
	second := decode[dto.HubSectionDTO](suite.T(), w)
	suite.Equal(first.ID, second.ID)
	suite.JSONEq(`{"a":2}`, string(second.Content))
	suite.Equal("owner@example.com", second.CreatedBy)

	w = suite.env.do(suite.T(), http.MethodPut, suite.url("/hub/setup"), suite.token, map[string]interface{}{"content": []int{1}})
	suite.Equal(http.StatusBadRequest, w.Code)

	w = suite.env.do(suite.T(), http.MethodDelete, suite.url("/hub/setup"), suite.token, nil)
	suite.Equal(http.StatusNoContent, w.Code)
	w = suite.env.do(suite.T(), http.MethodGet, suite.url("/hub/setup"), suite.token, nil)
	suite.Equal(http.StatusNotFound, w.Code)
}

func (suite *BoardHandlerTestSuite) TestDocuments() {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", "notes.txt")
	suite.Require().NoError(err)
	_, err = part.Write([]byte("meeting notes"))
	suite.Require().NoError(err)
	suite.Require().NoError(mw.Close())

	req := httptest.NewRequest(http.MethodPost, suite.url("/documents"), &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+suite.token)
	w := httptest.NewRecorder()
	suite.env.router.ServeHTTP(w, req)
	suite.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	doc := decode[dto.DocumentDTO](suite.T(), w)
	suite.Equal("notes.txt", doc.OriginalName)
	suite.Equal(int64(13), doc.Size)

	w = suite.env.do(suite.T(), http.MethodGet, suite.url("/documents/%s", doc.ID), suite.token, nil)
	suite.Require().Equal(http.StatusOK, w.Code)
	suite.Equal("meeting notes", w.Body.String())
	suite.Contains(w.Header().Get("Content-Disposition"), "notes.txt")

	w = suite.env.do(suite.T(), http.MethodDelete, suite.url("/documents/%s", doc.ID), suite.token, nil)
	suite.Equal(http.StatusNoContent, w.Code)
	w = suite.env.do(suite.T(), http.MethodGet, suite.url("/documents/%s", doc.ID), suite.token, nil)
	suite.Equal(http.StatusNotFound, w.Code)
}

func (suite *BoardHandlerTestSuite) TestDeleteProject() {
	suite.createTask(map[string]interface{}{"title": "Gone soon"})

	w := suite.env.do(suite.T(), http.MethodDelete, suite.url(""), suite.token, nil)
	suite.Equal(http.StatusNoContent, w.Code)

	w = suite.env.do(suite.T(), http.MethodGet, suite.url("/tasks"), suite.token, nil)
	suite.Equal(http.StatusNotFound, w.Code)
}

func TestBoardHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(BoardHandlerTestSuite))
}
