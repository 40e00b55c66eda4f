package handlers

import (
	"net/http"

	"github.com/just-nibble/versioncontrol/internal/domain"
	"github.com/just-nibble/versioncontrol/internal/http/dtos"
	"github.com/just-nibble/versioncontrol/internal/usecases"
	"github.com/just-nibble/versioncontrol/pkg/response"
)

type RepositoryHandler struct {
	repositoryUsecase usecases.RepositoryUsecase
}

func NewRepositoryHandler(repositoryUsecase usecases.RepositoryUsecase) *RepositoryHandler {
	return &RepositoryHandler{
		repositoryUsecase: repositoryUsecase,
	}
}

func (rh RepositoryHandler) AddRepository(w http.ResponseWriter, r *http.Request) {
	var req dtos.RepositoryInput
	if err := decodeJSON(w, r, &req); err != nil {
		fail(w, r, err)
		return
	}

	repo := req.ToDomain()
	if err := rh.repositoryUsecase.Insert(r.Context(), repo); err != nil {
		fail(w, r, err)
		return
	}

	response.SuccessResponse(w, http.StatusCreated, repo)
}

func (rh RepositoryHandler) FetchAllRepositories(w http.ResponseWriter, r *http.Request) {
	paging := getPagingInfo(r)

	conditions := map[string]any{}
	for _, field := range []string{"vcs", "name"} {
		if v := r.URL.Query().Get(field); v != "" {
			conditions[field] = v
		}
	}

	repos, err := rh.repositoryUsecase.GetAll(r.Context(), paging.Query(conditions))
	if err != nil {
		fail(w, r, err)
		return
	}

	response.SuccessResponse(w, http.StatusOK, dtos.NewListResponse(repos, paging))
}

func (rh RepositoryHandler) FetchRepository(w http.ResponseWriter, r *http.Request) {
	repo, ok := rh.repository(w, r)
	if !ok {
		return
	}

	response.SuccessResponse(w, http.StatusOK, repo)
}

func (rh RepositoryHandler) UpdateRepository(w http.ResponseWriter, r *http.Request) {
	repo, ok := rh.repository(w, r)
	if !ok {
		return
	}

	var req dtos.RepositoryInput
	if err := decodeJSON(w, r, &req); err != nil {
		fail(w, r, err)
		return
	}

	req.Apply(repo)
	if err := rh.repositoryUsecase.Update(r.Context(), repo); err != nil {
		fail(w, r, err)
		return
	}

	response.SuccessResponse(w, http.StatusOK, repo)
}

func (rh RepositoryHandler) DeleteRepository(w http.ResponseWriter, r *http.Request) {
	repo, ok := rh.repository(w, r)
	if !ok {
		return
	}

	if err := rh.repositoryUsecase.Delete(r.Context(), repo); err != nil {
		fail(w, r, err)
		return
	}

	response.SuccessResponse(w, http.StatusOK, "repository deleted")
}

func (rh RepositoryHandler) repository(w http.ResponseWriter, r *http.Request) (*domain.Repository, bool) {
	return repositoryFromPath(w, r, rh.repositoryUsecase)
}
