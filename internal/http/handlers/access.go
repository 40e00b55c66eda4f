package handlers

import (
	"net/http"

	"github.com/just-nibble/versioncontrol/internal/http/dtos"
	"github.com/just-nibble/versioncontrol/internal/usecases"
	"github.com/just-nibble/versioncontrol/pkg/response"
)

type AccessHandler struct {
	accessUsecase usecases.AccessUsecase
}

func NewAccessHandler(accessUsecase usecases.AccessUsecase) *AccessHandler {
	return &AccessHandler{accessUsecase: accessUsecase}
}

// CheckAccess evaluates a pending write. A denial is a successful response
// that carries the reasons.
func (ah AccessHandler) CheckAccess(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		fail(w, r, err)
		return
	}

	var req dtos.AccessCheckInput
	if err := decodeJSON(w, r, &req); err != nil {
		fail(w, r, err)
		return
	}

	result, err := ah.accessUsecase.Evaluate(r.Context(), req.ToDomain(id))
	if err != nil {
		fail(w, r, err)
		return
	}

	response.SuccessResponse(w, http.StatusOK, result)
}
