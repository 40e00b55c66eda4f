package dtos

import (
	"regexp"
	"strconv"

	"github.com/just-nibble/versioncontrol/internal/domain"
)

// LabelsInput replaces the branches and tags of an operation.
type LabelsInput struct {
	Labels []domain.Label `json:"labels" validate:"dive"`
}

type RevisionResponse struct {
	OperationID uint                  `json:"operation_id"`
	Format      domain.RevisionFormat `json:"format"`
	Revision    string                `json:"revision"`
}

var issueReference = regexp.MustCompile(`#(\d+)\b`)

// OperationResponse adds the repository viewer links to an operation.
type OperationResponse struct {
	*domain.Operation
	CommitURL     string                 `json:"commit_url,omitempty"`
	IssueURLs     []string               `json:"issue_urls,omitempty"`
	ItemRevisions []ItemRevisionResponse `json:"item_revisions,omitempty"`
}

type ItemRevisionResponse struct {
	domain.ItemRevision
	ViewURL string `json:"view_url,omitempty"`
	LogURL  string `json:"log_url,omitempty"`
}

func NewOperationResponse(op *domain.Operation, urls domain.RepositoryURLs) OperationResponse {
	resp := OperationResponse{Operation: op, CommitURL: urls.CommitViewURL(op.Revision)}

	if urls.Tracker != "" {
		for _, m := range issueReference.FindAllStringSubmatch(op.Message, -1) {
			id, err := strconv.Atoi(m[1])
			if err != nil {
				continue
			}
			resp.IssueURLs = append(resp.IssueURLs, urls.TrackerURL(id))
		}
	}

	// items are shown on the first branch the operation touched
	branch := ""
	for _, l := range op.Labels {
		if l.Type == domain.LabelBranch {
			branch = l.Name
			break
		}
	}
	for _, item := range op.ItemRevisions {
		resp.ItemRevisions = append(resp.ItemRevisions, ItemRevisionResponse{
			ItemRevision: item,
			ViewURL:      urls.ItemViewURL(item, branch),
			LogURL:       urls.ItemLogViewURL(item, branch),
		})
	}
	return resp
}
