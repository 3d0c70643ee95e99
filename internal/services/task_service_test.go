package services

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"github.com/yukikurage/board-api/internal/board"
	"github.com/yukikurage/board-api/internal/models"
	"github.com/yukikurage/board-api/internal/types"
)

type TaskServiceTestSuite struct {
	suite.Suite
	env   *testEnv
	owner *models.User
	scope ProjectScope
}

func (suite *TaskServiceTestSuite) SetupTest() {
	suite.env = newTestEnv(suite.T())
	suite.owner = suite.env.user(suite.T(), "owner@example.com")
	suite.scope = suite.env.project(suite.T(), suite.owner, "Board")
}

func (suite *TaskServiceTestSuite) createTask(title string) *models.Task {
	task, err := suite.env.tasks.CreateTask(suite.scope, CreateTaskInput{Title: title})
	suite.Require().NoError(err)
	return task
}

func (suite *TaskServiceTestSuite) TestCreateProject_SeedsColumns() {
	columns, err := suite.env.columns.ListColumns(suite.scope)
	suite.Require().NoError(err)
	suite.Require().Len(columns, 4)

	wantKeys := []string{board.KeyToDo, board.KeyInProgress, board.KeyValidation, board.KeyDone}
	for i, c := range columns {
		suite.Equal(wantKeys[i], c.Key)
		suite.Equal(i, c.Pos)
	}

	added, err := suite.env.columns.SeedDefaults(suite.scope)
	suite.Require().NoError(err)
	suite.Equal(int64(0), added)

	columns, err = suite.env.columns.ListColumns(suite.scope)
	suite.Require().NoError(err)
	suite.Len(columns, 4)
}

func (suite *TaskServiceTestSuite) TestCreateColumn() {
	column, err := suite.env.columns.CreateColumn(suite.scope, "Code Review")
	suite.Require().NoError(err)
	suite.Equal("code_review", column.Key)
	suite.Equal(4, column.Pos)

	_, err = suite.env.columns.CreateColumn(suite.scope, "code-review")
	suite.ErrorIs(err, ErrColumnExists)

	_, err = suite.env.columns.CreateColumn(suite.scope, "   ")
	suite.ErrorIs(err, board.ErrInvalidColumnTitle)

	_, err = suite.env.columns.CreateColumn(ProjectScope{OwnerID: suite.owner.ID, ProjectID: uuid.New()}, "QA")
	suite.ErrorIs(err, ErrProjectNotFound)

	// tasks may use the new column
	task := suite.createTask("Review me")
	moved, err := suite.env.tasks.SetStatus(suite.scope, task.ID, "Code-Review")
	suite.Require().NoError(err)
	suite.Equal("code_review", moved.Status)
}

func (suite *TaskServiceTestSuite) TestCreateTask_Defaults() {
	first := suite.createTask("  First  ")
	second := suite.createTask("Second")

	suite.Equal("First", first.Title)
	suite.Equal(board.KeyToDo, first.Status)
	suite.Nil(first.CompletedAt)
	suite.Equal("US234567", first.StoryID)
	suite.Equal("US234568", second.StoryID)
	suite.Require().NotNil(first.StoryNum)
	suite.Require().NotNil(second.StoryNum)
	suite.Greater(*second.StoryNum, *first.StoryNum)
}

func (suite *TaskServiceTestSuite) TestCreateTask_Validation() {
	_, err := suite.env.tasks.CreateTask(suite.scope, CreateTaskInput{Title: "  "})
	suite.ErrorIs(err, ErrTitleRequired)

	_, err = suite.env.tasks.CreateTask(suite.scope, CreateTaskInput{Title: "x", Status: "bogus"})
	suite.ErrorIs(err, board.ErrInvalidStatus)

	_, err = suite.env.tasks.CreateTask(suite.scope, CreateTaskInput{Title: "x", Priority: strPtr("urgent")})
	suite.ErrorIs(err, board.ErrInvalidPriority)

	_, err = suite.env.tasks.CreateTask(suite.scope, CreateTaskInput{Title: "x", Architecture: strPtr("mobile")})
	suite.ErrorIs(err, board.ErrInvalidArchitecture)

	missing := uuid.New()
	_, err = suite.env.tasks.CreateTask(suite.scope, CreateTaskInput{Title: "x", FeatureID: &missing})
	suite.ErrorIs(err, ErrFeatureNotFound)

	_, err = suite.env.tasks.CreateTask(ProjectScope{OwnerID: suite.owner.ID, ProjectID: uuid.New()}, CreateTaskInput{Title: "x"})
	suite.ErrorIs(err, ErrProjectNotFound)

	var count int64
	suite.Require().NoError(suite.env.db.Model(&models.Task{}).Count(&count).Error)
	suite.Equal(int64(0), count)
}

func (suite *TaskServiceTestSuite) TestCreateTask_CanonicalTags() {
	task, err := suite.env.tasks.CreateTask(suite.scope, CreateTaskInput{
		Title:        "Tagged",
		Priority:     strPtr("high"),
		Architecture: strPtr("be"),
		Status:       "In Progress",
	})
	suite.Require().NoError(err)
	suite.Require().NotNil(task.Priority)
	suite.Require().NotNil(task.Architecture)
	suite.Equal(models.PriorityHigh, *task.Priority)
	suite.Equal(models.ArchitectureBackend, *task.Architecture)
	suite.Equal(board.KeyInProgress, task.Status)
}

func (suite *TaskServiceTestSuite) TestCreateTask_ExternalStoryID() {
	task, err := suite.env.tasks.CreateTask(suite.scope, CreateTaskInput{Title: "Imported", StoryID: "JIRA-42"})
	suite.Require().NoError(err)
	suite.Equal("JIRA-42", task.StoryID)
	suite.Nil(task.StoryNum)

	_, err = suite.env.tasks.CreateTask(suite.scope, CreateTaskInput{Title: "Again", StoryID: "JIRA-42"})
	suite.ErrorIs(err, ErrStoryIDTaken)

	// the same external ID is fine in another project
	other := suite.env.project(suite.T(), suite.owner, "Other")
	_, err = suite.env.tasks.CreateTask(other, CreateTaskInput{Title: "Imported", StoryID: "JIRA-42"})
	suite.NoError(err)
}

func (suite *TaskServiceTestSuite) TestSetStatus_Normalization() {
	task := suite.createTask("Normalize")

	for _, input := range []string{"In-Progress", "in_progress", "IN PROGRESS"} {
		moved, err := suite.env.tasks.SetStatus(suite.scope, task.ID, input)
		suite.Require().NoError(err, input)
		suite.Equal(board.KeyInProgress, moved.Status, input)
	}

	legacy, err := suite.env.tasks.SetStatus(suite.scope, task.ID, "todo")
	suite.Require().NoError(err)
	suite.Equal(board.KeyToDo, legacy.Status)

	_, err = suite.env.tasks.SetStatus(suite.scope, task.ID, "bogus")
	suite.ErrorIs(err, board.ErrInvalidStatus)

	reloaded, err := suite.env.tasks.GetTask(suite.scope, task.ID)
	suite.Require().NoError(err)
	suite.Equal(board.KeyToDo, reloaded.Status)
}

func (suite *TaskServiceTestSuite) TestSetStatus_CompletedAtKeepsFirstCompletion() {
	task := suite.createTask("Finish me")

	firstDone := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	suite.env.tasks.now = func() time.Time { return firstDone }
	done, err := suite.env.tasks.SetStatus(suite.scope, task.ID, "done")
	suite.Require().NoError(err)
	suite.Require().NotNil(done.CompletedAt)
	suite.True(firstDone.Equal(*done.CompletedAt))

	suite.env.tasks.now = func() time.Time { return firstDone.Add(48 * time.Hour) }
	back, err := suite.env.tasks.SetStatus(suite.scope, task.ID, "in-progress")
	suite.Require().NoError(err)
	suite.Require().NotNil(back.CompletedAt)

	again, err := suite.env.tasks.SetStatus(suite.scope, task.ID, "Done")
	suite.Require().NoError(err)
	suite.Require().NotNil(again.CompletedAt)
	suite.WithinDuration(firstDone, *again.CompletedAt, time.Millisecond)

	reloaded, err := suite.env.tasks.GetTask(suite.scope, task.ID)
	suite.Require().NoError(err)
	suite.Require().NotNil(reloaded.CompletedAt)
	suite.WithinDuration(firstDone, *reloaded.CompletedAt, time.Millisecond)
}

func (suite *TaskServiceTestSuite) TestUpdateTask_Partial() {
	due := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	task, err := suite.env.tasks.CreateTask(suite.scope, CreateTaskInput{
		Title:       "Original",
		Description: strPtr("keep me"),
		Assignee:    strPtr("alice"),
		DueDate:     &due,
	})
	suite.Require().NoError(err)

	updated, err := suite.env.tasks.UpdateTask(suite.scope, task.ID, UpdateTaskInput{
		Title:    types.Some("Renamed"),
		Assignee: types.Null[string](),
		DueDate:  types.Null[time.Time](),
		Priority: types.Some("low"),
	})
	suite.Require().NoError(err)
	suite.Equal("Renamed", updated.Title)
	suite.Require().NotNil(updated.Description)
	suite.Equal("keep me", *updated.Description)
	suite.Nil(updated.Assignee)
	suite.Nil(updated.DueDate)
	suite.Require().NotNil(updated.Priority)
	suite.Equal(models.PriorityLow, *updated.Priority)
	suite.Equal(board.KeyToDo, updated.Status)

	_, err = suite.env.tasks.UpdateTask(suite.scope, task.ID, UpdateTaskInput{Title: types.Some("  ")})
	suite.ErrorIs(err, ErrTitleEmpty)

	// an invalid field rejects the whole update
	_, err = suite.env.tasks.UpdateTask(suite.scope, task.ID, UpdateTaskInput{
		Title:  types.Some("Not saved"),
		Status: types.Some("bogus"),
	})
	suite.ErrorIs(err, board.ErrInvalidStatus)

	reloaded, err := suite.env.tasks.GetTask(suite.scope, task.ID)
	suite.Require().NoError(err)
	suite.Equal("Renamed", reloaded.Title)
}

func (suite *TaskServiceTestSuite) TestListTasks_Filters() {
	a, err := suite.env.tasks.CreateTask(suite.scope, CreateTaskInput{Title: "Login page", Assignee: strPtr("alice")})
	suite.Require().NoError(err)
	_, err = suite.env.tasks.CreateTask(suite.scope, CreateTaskInput{Title: "Signup page", Assignee: strPtr("bob")})
	suite.Require().NoError(err)
	_, err = suite.env.tasks.CreateTask(suite.scope, CreateTaskInput{Title: "Database schema", Status: "validation"})
	suite.Require().NoError(err)

	tasks, total, err := suite.env.tasks.ListTasks(suite.scope, ListTasksInput{Query: "PAGE"})
	suite.Require().NoError(err)
	suite.Equal(int64(2), total)
	suite.Len(tasks, 2)

	tasks, _, err = suite.env.tasks.ListTasks(suite.scope, ListTasksInput{Assignee: strPtr("alice")})
	suite.Require().NoError(err)
	suite.Require().Len(tasks, 1)
	suite.Equal(a.ID, tasks[0].ID)

	tasks, _, err = suite.env.tasks.ListTasks(suite.scope, ListTasksInput{Status: strPtr("Validation")})
	suite.Require().NoError(err)
	suite.Require().Len(tasks, 1)
	suite.Equal("Database schema", tasks[0].Title)

	_, _, err = suite.env.tasks.ListTasks(suite.scope, ListTasksInput{Status: strPtr("bogus")})
	suite.ErrorIs(err, board.ErrInvalidStatus)
}

func (suite *TaskServiceTestSuite) TestFeatureLink() {
	feature, err := suite.env.features.CreateFeature(suite.scope, CreateFeatureInput{Name: "Checkout"})
	suite.Require().NoError(err)

	linked, err := suite.env.tasks.CreateTask(suite.scope, CreateTaskInput{Title: "Cart", FeatureID: &feature.ID})
	suite.Require().NoError(err)
	suite.createTask("Unrelated")

	tasks, total, err := suite.env.tasks.ListFeatureTasks(suite.scope, feature.ID, 1, 50)
	suite.Require().NoError(err)
	suite.Equal(int64(1), total)
	suite.Require().Len(tasks, 1)
	suite.Equal(linked.ID, tasks[0].ID)

	unlinked, err := suite.env.tasks.UpdateTask(suite.scope, linked.ID, UpdateTaskInput{FeatureID: types.Null[uuid.UUID]()})
	suite.Require().NoError(err)
	suite.Nil(unlinked.FeatureID)

	_, _, err = suite.env.tasks.ListFeatureTasks(suite.scope, uuid.New(), 1, 50)
	suite.ErrorIs(err, ErrFeatureNotFound)
}

func (suite *TaskServiceTestSuite) TestDeleteTask() {
	task := suite.createTask("Delete me")

	suite.Require().NoError(suite.env.tasks.DeleteTask(suite.scope, task.ID))
	_, err := suite.env.tasks.GetTask(suite.scope, task.ID)
	suite.ErrorIs(err, ErrTaskNotFound)

	suite.ErrorIs(suite.env.tasks.DeleteTask(suite.scope, task.ID), ErrTaskNotFound)
}

func (suite *TaskServiceTestSuite) TestOwnershipIsolation() {
	intruder := suite.env.user(suite.T(), "intruder@example.com")
	task := suite.createTask("Private")
	foreign := foreignScope(suite.scope, intruder.ID)

	projects, err := suite.env.projects.ListProjects(intruder.ID)
	suite.Require().NoError(err)
	suite.Empty(projects)

	_, err = suite.env.projects.GetProject(intruder.ID, suite.scope.ProjectID)
	suite.ErrorIs(err, ErrProjectNotFound)
	_, err = suite.env.projects.RenameProject(intruder.ID, suite.scope.ProjectID, "Mine now")
	suite.ErrorIs(err, ErrProjectNotFound)

	_, err = suite.env.tasks.GetTask(foreign, task.ID)
	suite.ErrorIs(err, ErrProjectNotFound)
	_, _, err = suite.env.tasks.ListTasks(foreign, ListTasksInput{})
	suite.ErrorIs(err, ErrProjectNotFound)
	_, err = suite.env.tasks.SetStatus(foreign, task.ID, "done")
	suite.ErrorIs(err, ErrProjectNotFound)
	suite.ErrorIs(suite.env.tasks.DeleteTask(foreign, task.ID), ErrProjectNotFound)

	// a task id from another project is not found inside the caller's own project
	own := suite.env.project(suite.T(), intruder, "Intruder board")
	_, err = suite.env.tasks.GetTask(own, task.ID)
	suite.ErrorIs(err, ErrTaskNotFound)

	reloaded, err := suite.env.tasks.GetTask(suite.scope, task.ID)
	suite.Require().NoError(err)
	suite.Equal(board.KeyToDo, reloaded.Status)
}

func TestTaskServiceTestSuite(t *testing.T) {
	suite.Run(t, new(TaskServiceTestSuite))
}
