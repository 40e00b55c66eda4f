package domain

import (
	"strconv"
	"strings"
)

// RepositoryURLs holds repository viewer URL templates.
type RepositoryURLs struct {
	// CommitView uses %revision.
	CommitView string `json:"commit_view,omitempty"`
	// FileLogView, FileView and DirectoryView use %path, %revision and %branch.
	FileLogView   string `json:"file_log_view,omitempty"`
	FileView      string `json:"file_view,omitempty"`
	DirectoryView string `json:"directory_view,omitempty"`
	// Diff uses %path, %new-revision, %old-path, %old-revision and %branch.
	Diff string `json:"diff,omitempty"`
	// Tracker uses %d for the issue id.
	Tracker string `json:"tracker,omitempty"`
}

// CommitViewURL returns "" when no template is set or revision is empty.
func (u RepositoryURLs) CommitViewURL(revision string) string {
	if revision == "" || u.CommitView == "" {
		return ""
	}
	return strings.NewReplacer("%revision", revision).Replace(u.CommitView)
}

// ItemLogViewURL only supports files; directories yield "".
func (u RepositoryURLs) ItemLogViewURL(item ItemRevision, branch string) string {
	if u.FileLogView == "" || !item.IsFile() {
		return ""
	}
	return itemReplacer(item, branch).Replace(u.FileLogView)
}

func (u RepositoryURLs) ItemViewURL(item ItemRevision, branch string) string {
	tmpl := u.DirectoryView
	if item.IsFile() {
		tmpl = u.FileView
	}
	if tmpl == "" {
		return ""
	}
	return itemReplacer(item, branch).Replace(tmpl)
}

func (u RepositoryURLs) DiffURL(newItem, oldItem ItemRevision, branch string) string {
	if u.Diff == "" {
		return ""
	}
	return strings.NewReplacer(
		"%new-revision", newItem.Revision,
		"%old-revision", oldItem.Revision,
		"%old-path", oldItem.Path,
		"%path", newItem.Path,
		"%branch", branch,
	).Replace(u.Diff)
}

func (u RepositoryURLs) TrackerURL(issueID int) string {
	if u.Tracker == "" {
		return ""
	}
	return strings.ReplaceAll(u.Tracker, "%d", strconv.Itoa(issueID))
}

func itemReplacer(item ItemRevision, branch string) *strings.Replacer {
	return strings.NewReplacer(
		"%path", item.Path,
		"%revision", item.Revision,
		"%branch", branch,
	)
}
