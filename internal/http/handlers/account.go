package handlers

import (
	"net/http"
	"strconv"

	"github.com/just-nibble/versioncontrol/internal/backend"
	"github.com/just-nibble/versioncontrol/internal/domain"
	"github.com/just-nibble/versioncontrol/internal/http/dtos"
	"github.com/just-nibble/versioncontrol/internal/usecases"
	"github.com/just-nibble/versioncontrol/pkg/response"
)

type AccountHandler struct {
	repositoryUsecase usecases.RepositoryUsecase
	accountUsecase    usecases.AccountUsecase
	backends          *backend.Registry
}

func NewAccountHandler(repositoryUsecase usecases.RepositoryUsecase, accountUsecase usecases.AccountUsecase, backends *backend.Registry) *AccountHandler {
	return &AccountHandler{
		repositoryUsecase: repositoryUsecase,
		accountUsecase:    accountUsecase,
		backends:          backends,
	}
}

func (ah AccountHandler) FetchAccounts(w http.ResponseWriter, r *http.Request) {
	repo, ok := repositoryFromPath(w, r, ah.repositoryUsecase)
	if !ok {
		return
	}

	paging := getPagingInfo(r)
	conditions := map[string]any{}
	if v := r.URL.Query().Get("vcs_username"); v != "" {
		conditions["vcs_username"] = v
	}
	if v := r.URL.Query().Get("uid"); v != "" {
		uid, err := strconv.ParseUint(v, 10, 0)
		if err != nil {
			response.ErrorResponse(w, http.StatusBadRequest, "uid must be a positive number")
			return
		}
		conditions["uid"] = uint(uid)
	}

	accounts, err := ah.accountUsecase.GetAll(r.Context(), repo.ID, paging.Query(conditions))
	if err != nil {
		fail(w, r, err)
		return
	}

	response.SuccessResponse(w, http.StatusOK, dtos.NewListResponse(accounts, paging))
}

// AddAccount builds the account through the repository's backend, so the
// body is decoded the same way as any other entity of that backend.
func (ah AccountHandler) AddAccount(w http.ResponseWriter, r *http.Request) {
	repo, ok := repositoryFromPath(w, r, ah.repositoryUsecase)
	if !ok {
		return
	}

	body, err := readBody(w, r)
	if err != nil {
		fail(w, r, err)
		return
	}

	store, err := ah.backends.Store(repo.VCS)
	if err != nil {
		fail(w, r, err)
		return
	}
	entity, err := store.BuildRepositoryEntity(r.Context(), repo, domain.KindAccount, body)
	if err != nil {
		fail(w, r, err)
		return
	}

	account := entity.(*domain.Account)
	if err := ah.accountUsecase.Insert(r.Context(), account); err != nil {
		fail(w, r, err)
		return
	}

	response.SuccessResponse(w, http.StatusCreated, account)
}

func (ah AccountHandler) RenameAccount(w http.ResponseWriter, r *http.Request) {
	account, ok := ah.account(w, r)
	if !ok {
		return
	}

	var req dtos.RenameAccountInput
	if err := decodeJSON(w, r, &req); err != nil {
		fail(w, r, err)
		return
	}

	if err := ah.accountUsecase.Update(r.Context(), account, req.VCSUsername); err != nil {
		fail(w, r, err)
		return
	}

	response.SuccessResponse(w, http.StatusOK, account)
}

func (ah AccountHandler) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	account, ok := ah.account(w, r)
	if !ok {
		return
	}

	if err := ah.accountUsecase.Delete(r.Context(), account); err != nil {
		fail(w, r, err)
		return
	}

	response.SuccessResponse(w, http.StatusOK, "account deleted")
}

func (ah AccountHandler) account(w http.ResponseWriter, r *http.Request) (*domain.Account, bool) {
	repo, ok := repositoryFromPath(w, r, ah.repositoryUsecase)
	if !ok {
		return nil, false
	}
	uid, err := pathID(r, "uid")
	if err != nil {
		fail(w, r, err)
		return nil, false
	}

	account, err := ah.accountUsecase.Get(r.Context(), repo.ID, uid)
	if err != nil {
		fail(w, r, err)
		return nil, false
	}
	account.AttachRepository(repo)
	return account, true
}
