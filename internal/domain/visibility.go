package domain

// Status is the publication state shared by profiles, projects and blog posts.
type Status string

const (
	StatusDraft     Status = "draft"
	StatusPublished Status = "published"
)

func (s Status) Valid() bool {
	return s == StatusDraft || s == StatusPublished
}

// StatusFilter restricts which rows a caller may see.
type StatusFilter string

const (
	FilterPublishedOnly StatusFilter = "published-only"
	FilterNone          StatusFilter = "none"
)

// Visibility is the outcome of resolving a caller against a resource owner.
type Visibility struct {
	IsOwner bool
	Filter  StatusFilter
}

// ResolveVisibility decides what callerID may see of ownerID's resources.
// An empty callerID is an anonymous caller.
func ResolveVisibility(ownerID, callerID string) Visibility {
	if callerID != "" && callerID == ownerID {
		return Visibility{IsOwner: true, Filter: FilterNone}
	}
	return Visibility{IsOwner: false, Filter: FilterPublishedOnly}
}

// PublishedOnly reports whether draft rows must be excluded.
func (v Visibility) PublishedOnly() bool {
	return v.Filter == FilterPublishedOnly
}

// Allows reports whether a row with the given status is visible.
func (v Visibility) Allows(s Status) bool {
	return !v.PublishedOnly() || s == StatusPublished
}
