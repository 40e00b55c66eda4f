package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/just-nibble/versioncontrol/internal/domain"
	"github.com/just-nibble/versioncontrol/internal/service"
	"github.com/just-nibble/versioncontrol/internal/storage"
	"github.com/just-nibble/versioncontrol/pkg/config"
)

type envelope struct {
	Status  string          `json:"status"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
}

type api struct {
	t      *testing.T
	router http.Handler
}

func setupAPI(t *testing.T) *api {
	t.Helper()

	db, err := storage.InitDB(config.DatabaseConfig{
		Driver:     "sqlite",
		SQLitePath: fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString()),
	}, zerolog.Nop())
	require.NoError(t, err)
	require.NoError(t, storage.Migrate(db))
	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	svc := service.New(db, service.Options{DefaultBackend: "git"}, zerolog.Nop())
	return &api{t: t, router: svc.Router()}
}

func (a *api) do(method, path, body string) (int, envelope) {
	a.t.Helper()

	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	rec := httptest.NewRecorder()
	a.router.ServeHTTP(rec, req)

	var env envelope
	if rec.Body.Len() > 0 && rec.Header().Get("Content-Type") == "application/json" {
		require.NoError(a.t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	}
	return rec.Code, env
}

func decode[T any](t *testing.T, env envelope) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(env.Data, &v), string(env.Data))
	return v
}

func (a *api) createRepository(name string, extra string) domain.Repository {
	a.t.Helper()
	code, env := a.do(http.MethodPost, "/repositories", fmt.Sprintf(`{"name": %q%s}`, name, extra))
	require.Equal(a.t, http.StatusCreated, code, env.Message)
	return decode[domain.Repository](a.t, env)
}

type operationBody struct {
	domain.Operation
	CommitURL string `json:"commit_url"`
}

func (a *api) createOperation(repoID uint, body string) operationBody {
	a.t.Helper()
	code, env := a.do(http.MethodPost, fmt.Sprintf("/repositories/%d/operations", repoID), body)
	require.Equal(a.t, http.StatusCreated, code, env.Message)
	return decode[operationBody](a.t, env)
}

func (a *api) getOperation(id uint) operationBody {
	a.t.Helper()
	code, env := a.do(http.MethodGet, fmt.Sprintf("/operations/%d", id), "")
	require.Equal(a.t, http.StatusOK, code, env.Message)
	return decode[operationBody](a.t, env)
}

func TestRepositoryHandler_Lifecycle(t *testing.T) {
	a := setupAPI(t)

	repo := a.createRepository("drupal", `, "urls": {"commit_view": "https://example.org/commit/%revision"}`)
	assert.NotZero(t, repo.ID)
	assert.Equal(t, "git", repo.VCS)
	assert.Equal(t, domain.DefaultAuthorizationMethod, repo.AuthorizationMethod)

	a.createRepository("svn-project", `, "vcs": "svn"`)

	code, env := a.do(http.MethodGet, "/repositories?vcs=git", "")
	require.Equal(t, http.StatusOK, code)
	list := decode[struct {
		Items []domain.Repository `json:"items"`
	}](t, env)
	require.Len(t, list.Items, 1)
	assert.Equal(t, "drupal", list.Items[0].Name)

	code, env = a.do(http.MethodPut, fmt.Sprintf("/repositories/%d", repo.ID), `{"name": "drupal-core", "allow_unauthorized_access": true}`)
	require.Equal(t, http.StatusOK, code, env.Message)
	updated := decode[domain.Repository](t, env)
	assert.Equal(t, "drupal-core", updated.Name)
	assert.True(t, updated.AllowUnauthorizedAccess)
	assert.Equal(t, "git", updated.VCS)

	code, env = a.do(http.MethodGet, fmt.Sprintf("/repositories/%d", repo.ID), "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "drupal-core", decode[domain.Repository](t, env).Name)

	code, _ = a.do(http.MethodDelete, fmt.Sprintf("/repositories/%d", repo.ID), "")
	assert.Equal(t, http.StatusOK, code)

	code, env = a.do(http.MethodGet, fmt.Sprintf("/repositories/%d", repo.ID), "")
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "error", env.Status)
}

func TestRepositoryHandler_BadRequests(t *testing.T) {
	a := setupAPI(t)

	code, _ := a.do(http.MethodGet, "/repositories/abc", "")
	assert.Equal(t, http.StatusBadRequest, code)

	code, _ = a.do(http.MethodPost, "/repositories", `{"name": "x", "owner": "someone"}`)
	assert.Equal(t, http.StatusBadRequest, code)

	code, _ = a.do(http.MethodPost, "/repositories", `{"vcs": "git"}`)
	assert.Equal(t, http.StatusBadRequest, code)

	code, _ = a.do(http.MethodPost, "/repositories", `{"name": "x", "vcs": "hg"}`)
	assert.Equal(t, http.StatusBadRequest, code)

	code, _ = a.do(http.MethodGet, "/repositories?sort=password", "")
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestAccountHandler_RemapsAttribution(t *testing.T) {
	a := setupAPI(t)
	repo := a.createRepository("drupal", "")

	op := a.createOperation(repo.ID, `{"type": 1, "revision": "abc", "author": "alice", "committer": "alice"}`)
	assert.Zero(t, op.AuthorUID)

	accounts := fmt.Sprintf("/repositories/%d/accounts", repo.ID)
	code, env := a.do(http.MethodPost, accounts, `{"uid": 2, "vcs_username": "alice"}`)
	require.Equal(t, http.StatusCreated, code, env.Message)
	account := decode[domain.Account](t, env)
	assert.Equal(t, repo.ID, account.RepoID)

	reloaded := a.getOperation(op.ID)
	assert.Equal(t, uint(2), reloaded.AuthorUID)
	assert.Equal(t, uint(2), reloaded.CommitterUID)

	code, _ = a.do(http.MethodPost, accounts, `{"uid": 2, "vcs_username": "alice2"}`)
	assert.Equal(t, http.StatusConflict, code)

	code, _ = a.do(http.MethodPost, accounts, `{"uid": 3, "vcs_username": "not valid!"}`)
	assert.Equal(t, http.StatusBadRequest, code)

	code, _ = a.do(http.MethodPost, accounts, fmt.Sprintf(`{"repo_id": %d, "uid": 4, "vcs_username": "bob"}`, repo.ID+1))
	assert.Equal(t, http.StatusBadRequest, code)

	code, env = a.do(http.MethodGet, accounts+"?uid=2", "")
	require.Equal(t, http.StatusOK, code)
	list := decode[struct {
		Items []domain.Account `json:"items"`
	}](t, env)
	require.Len(t, list.Items, 1)
	assert.Equal(t, "alice", list.Items[0].VCSUsername)

	code, env = a.do(http.MethodPut, accounts+"/2", `{"vcs_username": "alicia"}`)
	require.Equal(t, http.StatusOK, code, env.Message)
	assert.Equal(t, "alicia", decode[domain.Account](t, env).VCSUsername)
	assert.Zero(t, a.getOperation(op.ID).AuthorUID)

	code, env = a.do(http.MethodPut, accounts+"/2", `{"vcs_username": "alice"}`)
	require.Equal(t, http.StatusOK, code, env.Message)
	assert.Equal(t, uint(2), a.getOperation(op.ID).AuthorUID)

	code, _ = a.do(http.MethodDelete, accounts+"/2", "")
	require.Equal(t, http.StatusOK, code)
	assert.Zero(t, a.getOperation(op.ID).AuthorUID)

	code, _ = a.do(http.MethodDelete, accounts+"/2", "")
	assert.Equal(t, http.StatusNotFound, code)
}

func TestOperationHandler(t *testing.T) {
	a := setupAPI(t)
	repo := a.createRepository("drupal", `, "urls": {"commit_view": "https://example.org/commit/%revision"}`)

	op := a.createOperation(repo.ID, `{
		"type": 1,
		"revision": "0123456789abcdef",
		"author": "alice",
		"message": "Fix the frobnicator",
		"labels": [{"name": "main", "type": 1}],
		"item_revisions": [{"path": "core/frob.go", "revision": "0123456789abcdef", "type": 1, "action": 2}]
	}`)
	assert.Equal(t, "https://example.org/commit/0123456789abcdef", op.CommitURL)

	loaded := a.getOperation(op.ID)
	require.Len(t, loaded.Labels, 1)
	assert.Equal(t, domain.DefaultLabelAction, loaded.Labels[0].Action)
	require.Len(t, loaded.ItemRevisions, 1)
	assert.Equal(t, "core/frob.go", loaded.ItemRevisions[0].Path)

	code, env := a.do(http.MethodGet, fmt.Sprintf("/operations/%d/revision?format=short", op.ID), "")
	require.Equal(t, http.StatusOK, code, env.Message)
	assert.JSONEq(t, fmt.Sprintf(`{"operation_id": %d, "format": "short", "revision": "0123456"}`, op.ID), string(env.Data))

	code, env = a.do(http.MethodGet, fmt.Sprintf("/operations/%d/revision", op.ID), "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "0123456789abcdef", decode[map[string]any](t, env)["revision"])

	code, _ = a.do(http.MethodGet, fmt.Sprintf("/operations/%d/revision?format=tiny", op.ID), "")
	assert.Equal(t, http.StatusBadRequest, code)

	code, env = a.do(http.MethodPut, fmt.Sprintf("/operations/%d/labels", op.ID), `{"labels": [{"name": "7.x", "type": 1, "action": 1}, {"name": "7.x-1.0", "type": 2}]}`)
	require.Equal(t, http.StatusOK, code, env.Message)
	loaded = a.getOperation(op.ID)
	require.Len(t, loaded.Labels, 2)
	assert.Equal(t, "7.x", loaded.Labels[0].Name)
	assert.Equal(t, domain.ActionAdded, loaded.Labels[0].Action)

	code, env = a.do(http.MethodGet, fmt.Sprintf("/repositories/%d/operations?type=1&author=alice", repo.ID), "")
	require.Equal(t, http.StatusOK, code)
	list := decode[struct {
		Items    []operationBody `json:"items"`
		PageInfo struct {
			Count int `json:"count"`
		} `json:"page_info"`
	}](t, env)
	assert.Equal(t, 1, list.PageInfo.Count)

	code, _ = a.do(http.MethodGet, fmt.Sprintf("/repositories/%d/operations?type=9", repo.ID), "")
	assert.Equal(t, http.StatusBadRequest, code)

	code, _ = a.do(http.MethodDelete, fmt.Sprintf("/operations/%d", op.ID), "")
	require.Equal(t, http.StatusOK, code)
	code, _ = a.do(http.MethodGet, fmt.Sprintf("/operations/%d", op.ID), "")
	assert.Equal(t, http.StatusNotFound, code)
}

func TestOperationHandler_RevisionlessOperation(t *testing.T) {
	a := setupAPI(t)
	repo := a.createRepository("drupal", "")

	op := a.createOperation(repo.ID, `{"type": 2, "labels": [{"name": "feature", "type": 1, "action": 1}]}`)
	assert.Empty(t, op.CommitURL)

	code, env := a.do(http.MethodGet, fmt.Sprintf("/operations/%d/revision?format=short", op.ID), "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, fmt.Sprintf("#%d", op.ID), decode[map[string]any](t, env)["revision"])
}

func TestAccessHandler(t *testing.T) {
	a := setupAPI(t)
	repo := a.createRepository("closed", "")
	check := fmt.Sprintf("/repositories/%d/access-check", repo.ID)

	code, env := a.do(http.MethodPost, check, `{"type": 1, "username": "mallory", "message": "hello"}`)
	require.Equal(t, http.StatusOK, code, env.Message)
	result := decode[domain.AccessResult](t, env)
	assert.False(t, result.Permitted)
	assert.Equal(t, []string{`The user "mallory" does not have an approved account in the closed repository.`}, result.Reasons)

	code, _ = a.do(http.MethodPost, fmt.Sprintf("/repositories/%d/accounts", repo.ID), `{"uid": 5, "vcs_username": "mallory"}`)
	require.Equal(t, http.StatusCreated, code)

	code, env = a.do(http.MethodPost, check, `{"type": 1, "username": "mallory", "message": "hello"}`)
	require.Equal(t, http.StatusOK, code)
	assert.True(t, decode[domain.AccessResult](t, env).Permitted)

	code, env = a.do(http.MethodPost, check, `{"type": 1, "username": "mallory", "message": "  "}`)
	require.Equal(t, http.StatusOK, code)
	result = decode[domain.AccessResult](t, env)
	assert.False(t, result.Permitted)
	assert.Equal(t, []string{"You have to provide a log message."}, result.Reasons)

	code, _ = a.do(http.MethodPost, check, `{"type": 7, "username": "mallory"}`)
	assert.Equal(t, http.StatusBadRequest, code)

	code, _ = a.do(http.MethodPost, "/repositories/999/access-check", `{"type": 1, "username": "mallory"}`)
	assert.Equal(t, http.StatusBadRequest, code)
}
