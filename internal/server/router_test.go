package server

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/BuzzLyutic/todo-list/internal/handler"
	"github.com/BuzzLyutic/todo-list/internal/model"
	"github.com/BuzzLyutic/todo-list/internal/repo"
	"github.com/BuzzLyutic/todo-list/internal/service"
	"github.com/BuzzLyutic/todo-list/internal/taskclient"
	"github.com/BuzzLyutic/todo-list/internal/testutil"
	"github.com/BuzzLyutic/todo-list/internal/todolist"
)

func setupServer(t *testing.T, taskRepo repo.TaskRepository) (*httptest.Server, *taskclient.Client) {
	t.Helper()
	logger := zap.NewNop()
	h := handler.NewTaskHandler(service.NewTaskService(taskRepo), logger)

	srv := httptest.NewServer(NewRouter(h, logger))
	t.Cleanup(srv.Close)

	client, err := taskclient.New(srv.URL+TasksPath+"/", taskclient.WithHTTPClient(srv.Client()))
	require.NoError(t, err)
	return srv, client
}

func setupSQLiteServer(t *testing.T) (*httptest.Server, *taskclient.Client) {
	t.Helper()
	sqliteRepo, err := repo.OpenSQLite(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqliteRepo.Close() })
	return setupServer(t, sqliteRepo)
}

func do(t *testing.T, method, url, body string) (*http.Response, string) {
	t.Helper()
	req, err := http.NewRequest(method, url, strings.NewReader(body))
	require.NoError(t, err)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, string(raw)
}

func TestRouter_Health(t *testing.T) {
	srv, _ := setupSQLiteServer(t)

	resp, body := do(t, http.MethodGet, srv.URL+"/health", "")

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"status":"ok"}`, body)
}

func TestRouter_ItemPaths(t *testing.T) {
	srv, _ := setupSQLiteServer(t)
	base := srv.URL + TasksPath

	resp, body := do(t, http.MethodPost, base+"/", `{"title":"a","completed":false}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.JSONEq(t, `{"id":1,"title":"a","completed":false}`, body)
	assert.Equal(t, TasksPath+"/1/", resp.Header.Get("Location"))

	for _, path := range []string{"/1", "/1/"} {
		t.Run(path, func(t *testing.T) {
			resp, body := do(t, http.MethodGet, base+path, "")
			assert.Equal(t, http.StatusOK, resp.StatusCode)
			assert.JSONEq(t, `{"id":1,"title":"a","completed":false}`, body)

			resp, body = do(t, http.MethodPut, base+path, `{"id":1,"title":"a","completed":true}`)
			assert.Equal(t, http.StatusOK, resp.StatusCode)
			assert.JSONEq(t, `{"id":1,"title":"a","completed":true}`, body)
		})
	}

	resp, _ = do(t, http.MethodDelete, base+"/1/", "")
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp, body = do(t, http.MethodGet, base+"/1/", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.JSONEq(t, `{"error":"not found"}`, body)
}

func TestRouter_MethodNotAllowed(t *testing.T) {
	srv, _ := setupSQLiteServer(t)

	resp, _ := do(t, http.MethodPatch, srv.URL+TasksPath+"/1/", `{}`)

	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}

// runClientWorkflow exercises every collection operation through the client.
func runClientWorkflow(t *testing.T, client *taskclient.Client) {
	ctx := context.Background()

	tasks, err := client.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, tasks)

	first, err := client.Create(ctx, model.Task{Title: "write report"}, "key-1")
	require.NoError(t, err)
	assert.NotZero(t, first.ID)

	// a retried create with the same key is not duplicated
	again, err := client.Create(ctx, model.Task{Title: "write report"}, "key-1")
	require.NoError(t, err)
	assert.Equal(t, first, again)

	second, err := client.Create(ctx, model.Task{Title: "call mom"}, "")
	require.NoError(t, err)

	updated, err := client.Replace(ctx, model.Task{ID: second.ID, Title: "call mom", Completed: true})
	require.NoError(t, err)
	assert.True(t, updated.Completed)

	tasks, err = client.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []model.Task{first, updated}, tasks)

	_, err = client.Create(ctx, model.Task{Title: "  "}, "")
	var rf *taskclient.RequestFailedError
	require.ErrorAs(t, err, &rf)
	assert.Equal(t, http.StatusBadRequest, rf.StatusCode)

	require.NoError(t, client.Delete(ctx, first.ID))
	err = client.Delete(ctx, first.ID)
	require.ErrorAs(t, err, &rf)
	assert.Equal(t, http.StatusNotFound, rf.StatusCode)

	require.NoError(t, client.DeleteAll(ctx))
	tasks, err = client.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, tasks)
}

func TestClientWorkflow_SQLite(t *testing.T) {
	_, client := setupSQLiteServer(t)

	runClientWorkflow(t, client)
}

func TestClientWorkflow_Postgres(t *testing.T) {
	pool, cleanup := testutil.SetupTestDB(t)
	defer cleanup()
	require.NoError(t, repo.MigratePostgres(pool))
	testutil.TruncateTables(t, pool)

	_, client := setupServer(t, repo.NewTaskRepo(pool))

	runClientWorkflow(t, client)
}

// run executes cmd on the test goroutine and applies every resulting
// message to c.
func run(c *todolist.Controller, cmd tea.Cmd) {
	if cmd == nil {
		return
	}
	switch msg := cmd().(type) {
	case tea.BatchMsg:
		for _, sub := range msg {
			run(c, sub)
		}
	default:
		c.Update(msg)
	}
}

func TestController_AgainstServer(t *testing.T) {
	_, client := setupSQLiteServer(t)
	ctx := context.Background()
	_, err := client.Create(ctx, model.Task{Title: "existing"}, "")
	require.NoError(t, err)

	c := todolist.New(client)
	run(c, c.Load())
	require.Len(t, c.Tasks(), 1)

	c.SetInput("buy milk")
	run(c, c.Add("buy milk"))
	assert.Equal(t, "", c.Input())
	require.Len(t, c.Tasks(), 2)
	assert.Equal(t, "buy milk", c.Tasks()[1].Title)

	run(c, c.ToggleComplete(1))
	c.SetFilter(model.FilterCompleted)
	rows := c.View().Rows
	require.Len(t, rows, 1)
	assert.Equal(t, "buy milk", rows[0].Task.Title)

	c.StartEdit(0, rows[0].Task.Title)
	c.SetDraft("buy oat milk")
	run(c, c.SaveEdit(0))
	_, editing := c.Edit()
	assert.False(t, editing)

	c.SetFilter(model.FilterAll)
	run(c, c.Remove(0))

	stored, err := client.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []model.Task{{ID: 2, Title: "buy oat milk", Completed: true}}, stored)
	assert.Equal(t, stored, c.Tasks())

	run(c, c.ToggleSelectAll())
	assert.False(t, c.Tasks()[0].Completed)
	run(c, c.DeleteAll())

	stored, err = client.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, stored)
	assert.True(t, c.View().Empty)
	assert.False(t, c.SelectAll())
}

func TestController_ServerDown(t *testing.T) {
	srv, client := setupSQLiteServer(t)
	c := todolist.New(client)
	run(c, c.Load())
	srv.Close()

	run(c, c.Add("buy milk"))

	assert.Equal(t, todolist.AddFailedAlert, c.Alert())
	assert.Empty(t, c.Tasks())
}
