// Package permissions decides who may do what. Every check is a pure
// function of the requester (nil for anonymous), the verb class of the
// request, and optionally the target object's owner. Handlers pass the
// requester in explicitly; nothing here reads ambient request state.
package permissions

import (
	"net/http"

	"reviewhub/internal/models"
)

// Capability names a concrete thing a role is allowed to do.
type Capability int

const (
	// CapModerateContent allows editing and deleting other users' reviews
	// and comments.
	CapModerateContent Capability = iota
	// CapManageCatalog allows writing titles, categories and genres.
	CapManageCatalog
	// CapManageUsers allows full user administration.
	CapManageUsers
)

// roleCapabilities is the single source of truth for role-based access.
var roleCapabilities = map[models.Role]map[Capability]bool{
	models.RoleUser: {},
	models.RoleModerator: {
		CapModerateContent: true,
	},
	models.RoleAdmin: {
		CapModerateContent: true,
		CapManageCatalog:   true,
		CapManageUsers:     true,
	},
}

// Has reports whether the user holds the capability. Superusers hold every
// capability regardless of role; anonymous users hold none.
func Has(u *models.User, c Capability) bool {
	if u == nil {
		return false
	}
	if u.IsSuperuser {
		return true
	}
	return roleCapabilities[u.Role][c]
}

// Verb collapses HTTP methods into the two classes the evaluators care about.
type Verb int

const (
	VerbRead Verb = iota
	VerbWrite
)

func VerbOf(method string) Verb {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return VerbRead
	}
	return VerbWrite
}

// Policy is the request-level check shared by all evaluators.
type Policy interface {
	Allow(u *models.User, v Verb) bool
}

// AuthorOrStaffOrReadOnly guards user-generated content: anyone may read,
// authenticated users may write, and only the author or a moderator/admin
// may touch an existing object.
type AuthorOrStaffOrReadOnly struct{}

func (AuthorOrStaffOrReadOnly) Allow(u *models.User, v Verb) bool {
	return v == VerbRead || u != nil
}

func (AuthorOrStaffOrReadOnly) AllowObject(u *models.User, v Verb, authorID int64) bool {
	if v == VerbRead {
		return true
	}
	if u == nil {
		return false
	}
	return u.ID == authorID || Has(u, CapModerateContent)
}

// AdminOnly rejects everyone without user administration rights, anonymous
// requesters outright.
type AdminOnly struct{}

func (AdminOnly) Allow(u *models.User, _ Verb) bool {
	return Has(u, CapManageUsers)
}

// AdminOrReadOnly guards admin-curated content that everyone may read.
type AdminOrReadOnly struct{}

func (AdminOrReadOnly) Allow(u *models.User, v Verb) bool {
	return v == VerbRead || Has(u, CapManageCatalog)
}

func (AdminOrReadOnly) AllowObject(u *models.User, v Verb) bool {
	return v == VerbRead || Has(u, CapManageCatalog)
}

// IsSelf lets authenticated users manage their own account data.
type IsSelf struct{}

func (IsSelf) Allow(u *models.User, _ Verb) bool {
	return u != nil
}

func (IsSelf) AllowObject(u *models.User, target *models.User) bool {
	return u != nil && target != nil && u.ID == target.ID
}
