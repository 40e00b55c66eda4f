package service

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/just-nibble/versioncontrol/internal/domain"
	"github.com/just-nibble/versioncontrol/internal/hooks"
	"github.com/just-nibble/versioncontrol/internal/policy"
	"github.com/just-nibble/versioncontrol/internal/storage"
	"github.com/just-nibble/versioncontrol/pkg/config"
)

func setupDB(t *testing.T) *gorm.DB {
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
	return db
}

type recordingPublisher struct {
	subjects []string
}

func (p *recordingPublisher) Publish(subject string, _ []byte) error {
	p.subjects = append(p.subjects, subject)
	return nil
}

func TestNew_WiresObserversAndPolicies(t *testing.T) {
	pub := &recordingPublisher{}
	deny := policy.Func{
		PolicyName: "frozen",
		Fn: func(context.Context, *domain.Operation, []domain.ItemRevision) (policy.Outcome, error) {
			return policy.Deny("The repository is frozen."), nil
		},
	}

	svc := New(setupDB(t), Options{
		DefaultBackend: "svn",
		Observers:      []hooks.Observer{hooks.NewNATSObserver(pub, "vc")},
		Policies:       []policy.WriteAccessPolicy{deny},
	}, zerolog.Nop())

	ctx := context.Background()
	repo := &domain.Repository{Name: "legacy", AllowUnauthorizedAccess: true}
	require.NoError(t, svc.Repositories.Insert(ctx, repo))
	assert.Equal(t, "svn", repo.VCS)
	assert.Equal(t, []string{"vc.repo.insert"}, pub.subjects)

	msg := "fix"
	result, err := svc.Access.Evaluate(ctx, domain.AccessRequest{Type: domain.OperationCommit, RepoID: repo.ID, Message: &msg})
	require.NoError(t, err)
	assert.False(t, result.Permitted)
	assert.Equal(t, []string{"The repository is frozen."}, result.Reasons)
}

func TestRouter_ServesMetrics(t *testing.T) {
	svc := New(setupDB(t), Options{DefaultBackend: "git"}, zerolog.Nop())
	router := svc.Router()

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/repositories", strings.NewReader(`{"name": "drupal"}`)))
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "versioncontrol_entity_events_total")

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPatch, "/repositories", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
