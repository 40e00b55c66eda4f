package dtos

type RenameAccountInput struct {
	VCSUsername string `json:"vcs_username" validate:"required,max=64"`
}
