package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/just-nibble/versioncontrol/internal/backend"
	"github.com/just-nibble/versioncontrol/internal/domain"
	"github.com/just-nibble/versioncontrol/internal/http/dtos"
	"github.com/just-nibble/versioncontrol/internal/usecases"
	"github.com/just-nibble/versioncontrol/pkg/errcodes"
	"github.com/just-nibble/versioncontrol/pkg/response"
)

type OperationHandler struct {
	repositoryUsecase usecases.RepositoryUsecase
	operationUsecase  usecases.OperationUsecase
	backends          *backend.Registry
}

func NewOperationHandler(repositoryUsecase usecases.RepositoryUsecase, operationUsecase usecases.OperationUsecase, backends *backend.Registry) *OperationHandler {
	return &OperationHandler{
		repositoryUsecase: repositoryUsecase,
		operationUsecase:  operationUsecase,
		backends:          backends,
	}
}

func (oh OperationHandler) FetchOperations(w http.ResponseWriter, r *http.Request) {
	repo, ok := repositoryFromPath(w, r, oh.repositoryUsecase)
	if !ok {
		return
	}

	paging := getPagingInfo(r)
	conditions := map[string]any{}
	for _, field := range []string{"author", "committer", "revision"} {
		if v := r.URL.Query().Get(field); v != "" {
			conditions[field] = v
		}
	}
	if v := r.URL.Query().Get("type"); v != "" {
		typ, err := strconv.Atoi(v)
		if err != nil || !domain.OperationType(typ).Valid() {
			response.ErrorResponse(w, http.StatusBadRequest, "type must be 1 (commit), 2 (branch) or 3 (tag)")
			return
		}
		conditions["type"] = typ
	}

	ops, err := oh.operationUsecase.GetAll(r.Context(), repo.ID, paging.Query(conditions))
	if err != nil {
		fail(w, r, err)
		return
	}

	out := make([]dtos.OperationResponse, 0, len(ops))
	for i := range ops {
		out = append(out, dtos.NewOperationResponse(&ops[i], repo.URLs))
	}
	response.SuccessResponse(w, http.StatusOK, dtos.NewListResponse(out, paging))
}

// AddOperation stores the operation with its labels and item revisions.
func (oh OperationHandler) AddOperation(w http.ResponseWriter, r *http.Request) {
	repo, ok := repositoryFromPath(w, r, oh.repositoryUsecase)
	if !ok {
		return
	}

	body, err := readBody(w, r)
	if err != nil {
		fail(w, r, err)
		return
	}

	store, err := oh.backends.Store(repo.VCS)
	if err != nil {
		fail(w, r, err)
		return
	}
	entity, err := store.BuildRepositoryEntity(r.Context(), repo, domain.KindOperation, body)
	if err != nil {
		fail(w, r, err)
		return
	}

	op := entity.(*domain.Operation)
	forgetLabelIDs(op.Labels)
	if err := oh.operationUsecase.Insert(r.Context(), op, usecases.WriteOptions{Nested: true}); err != nil {
		fail(w, r, err)
		return
	}

	response.SuccessResponse(w, http.StatusCreated, dtos.NewOperationResponse(op, repo.URLs))
}

func (oh OperationHandler) FetchOperation(w http.ResponseWriter, r *http.Request) {
	op, repo, ok := oh.operation(w, r)
	if !ok {
		return
	}

	response.SuccessResponse(w, http.StatusOK, dtos.NewOperationResponse(op, repo.URLs))
}

func (oh OperationHandler) DeleteOperation(w http.ResponseWriter, r *http.Request) {
	op, _, ok := oh.operation(w, r)
	if !ok {
		return
	}

	if err := oh.operationUsecase.Delete(r.Context(), op, usecases.WriteOptions{Nested: true}); err != nil {
		fail(w, r, err)
		return
	}

	response.SuccessResponse(w, http.StatusOK, "operation deleted")
}

func (oh OperationHandler) UpdateLabels(w http.ResponseWriter, r *http.Request) {
	op, repo, ok := oh.operation(w, r)
	if !ok {
		return
	}

	var req dtos.LabelsInput
	if err := decodeJSON(w, r, &req); err != nil {
		fail(w, r, err)
		return
	}

	op.Labels = req.Labels
	forgetLabelIDs(op.Labels)
	if err := oh.operationUsecase.UpdateLabels(r.Context(), op); err != nil {
		fail(w, r, err)
		return
	}

	response.SuccessResponse(w, http.StatusOK, dtos.NewOperationResponse(op, repo.URLs))
}

func (oh OperationHandler) FormatRevision(w http.ResponseWriter, r *http.Request) {
	format := domain.RevisionFormat(r.URL.Query().Get("format"))
	switch format {
	case "":
		format = domain.RevisionFull
	case domain.RevisionFull, domain.RevisionShort:
	default:
		fail(w, r, fmt.Errorf("%w: unknown revision format %q", errcodes.ErrInvalidCondition, format))
		return
	}

	op, _, ok := oh.operation(w, r)
	if !ok {
		return
	}

	revision, err := oh.operationUsecase.FormatRevisionIdentifier(r.Context(), op, format)
	if err != nil {
		fail(w, r, err)
		return
	}

	response.SuccessResponse(w, http.StatusOK, dtos.RevisionResponse{
		OperationID: op.ID,
		Format:      format,
		Revision:    revision,
	})
}

// operation loads the operation named by the path along with its repository.
func (oh OperationHandler) operation(w http.ResponseWriter, r *http.Request) (*domain.Operation, *domain.Repository, bool) {
	id, err := pathID(r, "id")
	if err != nil {
		fail(w, r, err)
		return nil, nil, false
	}

	op, err := oh.operationUsecase.GetByID(r.Context(), id)
	if err != nil {
		fail(w, r, err)
		return nil, nil, false
	}
	repo, err := oh.repositoryUsecase.GetByID(r.Context(), op.RepoID)
	if err != nil {
		fail(w, r, err)
		return nil, nil, false
	}
	op.AttachRepository(repo)
	return op, repo, true
}

// forgetLabelIDs makes labels resolve by repository, type and name instead
// of trusting ids sent by the client.
func forgetLabelIDs(labels []domain.Label) {
	for i := range labels {
		labels[i].ID = 0
	}
}
