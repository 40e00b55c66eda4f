package domain

// AccessRequest describes an operation that is about to happen, before it
// has been written anywhere.
type AccessRequest struct {
	Type OperationType `json:"type" validate:"required,gte=1,lte=3"`
	// Either RepoID or Repository identifies the target repository.
	RepoID     uint        `json:"repo_id"`
	Repository *Repository `json:"-"`
	// CommitterUID is resolved from Committer when left at 0.
	CommitterUID uint   `json:"uid"`
	Committer    string `json:"username"`
	// Message is nil when the VCS has no message for this operation type.
	Message *string        `json:"message"`
	Labels  []Label        `json:"labels,omitempty"`
	Items   []ItemRevision `json:"items,omitempty"`
}

// Operation returns the operation the request would produce.
func (r AccessRequest) Operation() *Operation {
	op := &Operation{
		RepoID:        r.RepoID,
		Type:          r.Type,
		Committer:     r.Committer,
		CommitterUID:  r.CommitterUID,
		Labels:        r.Labels,
		ItemRevisions: r.Items,
		Repository:    r.Repository,
	}
	if r.Message != nil {
		op.Message = *r.Message
	}
	if r.Repository != nil {
		op.RepoID = r.Repository.ID
	}
	return op
}

// AccessResult is the outcome of a write access evaluation. Reasons is
// empty when Permitted is true.
type AccessResult struct {
	Permitted bool     `json:"permitted"`
	Reasons   []string `json:"reasons,omitempty"`
}

func Permit() AccessResult {
	return AccessResult{Permitted: true}
}

func Deny(reasons ...string) AccessResult {
	return AccessResult{Reasons: reasons}
}
