package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/just-nibble/versioncontrol/internal/domain"
	"github.com/just-nibble/versioncontrol/internal/http/dtos"
	"github.com/just-nibble/versioncontrol/internal/usecases"
	"github.com/just-nibble/versioncontrol/pkg/errcodes"
	"github.com/just-nibble/versioncontrol/pkg/response"
	"github.com/just-nibble/versioncontrol/pkg/validator"
)

const maxBodyBytes = 1 << 20

var errInvalidPathID = errors.New("invalid id in path")

func getPagingInfo(r *http.Request) dtos.APIPagingDto {
	var paging dtos.APIPagingDto

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
	sort := r.URL.Query().Get("sort")
	direction := r.URL.Query().Get("direction")

	paging.Limit = max(limit, 0)
	paging.Offset = max(offset, 0)
	paging.Sort = sort
	paging.Direction = direction

	return paging
}

func pathID(r *http.Request, name string) (uint, error) {
	id, err := strconv.ParseUint(r.PathValue(name), 10, 0)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("%w: %s=%q", errInvalidPathID, name, r.PathValue(name))
	}
	return uint(id), nil
}

func readBody(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errcodes.ErrInvalidEntityData, err)
	}
	return body, nil
}

// decodeJSON rejects unknown fields and runs the struct's validation tags.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	body, err := readBody(w, r)
	if err != nil {
		return err
	}

	dec := json.NewDecoder(bytes.NewReader(body))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("%w: %v", errcodes.ErrInvalidEntityData, err)
	}
	if err := validator.Struct(v); err != nil {
		return fmt.Errorf("%w: %s", errcodes.ErrInvalidEntityData, validator.Message(err))
	}
	return nil
}

// fail reports err to the client and logs anything that is not the client's fault.
func fail(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, errInvalidPathID) {
		response.ErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}
	if response.StatusFor(err) == http.StatusInternalServerError {
		zerolog.Ctx(r.Context()).Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
	}
	response.Error(w, err)
}

// repositoryFromPath loads the repository named by the {id} path segment.
func repositoryFromPath(w http.ResponseWriter, r *http.Request, uc usecases.RepositoryUsecase) (*domain.Repository, bool) {
	id, err := pathID(r, "id")
	if err != nil {
		fail(w, r, err)
		return nil, false
	}

	repo, err := uc.GetByID(r.Context(), id)
	if err != nil {
		fail(w, r, err)
		return nil, false
	}
	return repo, true
}
