package dtos

import "github.com/just-nibble/versioncontrol/internal/domain"

// AccessCheckInput describes the operation a client is about to write.
// Message is left out for operation types that carry none.
type AccessCheckInput struct {
	Type     domain.OperationType  `json:"type" validate:"required,gte=1,lte=3"`
	UID      uint                  `json:"uid"`
	Username string                `json:"username" validate:"max=64"`
	Message  *string               `json:"message"`
	Labels   []domain.Label        `json:"labels" validate:"dive"`
	Items    []domain.ItemRevision `json:"items" validate:"dive"`
}

func (in AccessCheckInput) ToDomain(repoID uint) domain.AccessRequest {
	return domain.AccessRequest{
		Type:         in.Type,
		RepoID:       repoID,
		CommitterUID: in.UID,
		Committer:    in.Username,
		Message:      in.Message,
		Labels:       in.Labels,
		Items:        in.Items,
	}
}
