package domain

// DefaultAuthorizationMethod is assigned to repositories created without one.
const DefaultAuthorizationMethod = "versioncontrol_admin"

// Plugin slots a repository can assign.
const (
	PluginAuthorMapper    = "author_mapper"
	PluginCommitterMapper = "committer_mapper"
	PluginAuthHandler     = "auth_handler"
)

// Repository contains fundamental information about a version control repository.
type Repository struct {
	ID                      uint              `json:"id"`
	Name                    string            `json:"name" validate:"required,max=255"`
	VCS                     string            `json:"vcs" validate:"required,max=8"`
	Root                    string            `json:"root" validate:"max=255"`
	AuthorizationMethod     string            `json:"authorization_method" validate:"max=64"`
	UpdateMethod            int               `json:"update_method" validate:"gte=0"`
	AllowUnauthorizedAccess bool              `json:"allow_unauthorized_access"`
	Locked                  int64             `json:"locked"`
	Updated                 int64             `json:"updated"`
	Settings                map[string]any    `json:"settings,omitempty"`
	Plugins                 map[string]string `json:"plugins,omitempty"`
	URLs                    RepositoryURLs    `json:"urls"`
}

func (r *Repository) Kind() EntityKind { return KindRepository }

func (r *Repository) EntityID() uint { return r.ID }

// IsLocked reports whether a log fetch currently holds the repository.
func (r *Repository) IsLocked() bool { return r.Locked != 0 }

// Plugin returns the plugin name assigned to slot, or "" if none.
func (r *Repository) Plugin(slot string) string {
	if r.Plugins == nil {
		return ""
	}
	return r.Plugins[slot]
}
