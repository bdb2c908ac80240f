// Package policy decides whether an actor may perform an action on a resource.
// It is a pure predicate: callers load the resource (and so its owner) first
// and surface a denial as errs.ErrUnauthorized or errs.ErrForbidden.
package policy

import (
	"reviewhub/proj/internal/domain/errs"
	"reviewhub/proj/internal/domain/models"
)

type Action int

const (
	Read Action = iota
	Create
	Update
	Delete
)

func (a Action) String() string {
	switch a {
	case Read:
		return "read"
	case Create:
		return "create"
	case Update:
		return "update"
	case Delete:
		return "delete"
	}
	return "unknown"
}

func (a Action) IsWrite() bool {
	return a != Read
}

type ResourceKind int

const (
	// Owned resources (reviews, comments) may be changed by their author.
	Owned ResourceKind = iota
	// Administrative resources (titles, categories, genres) belong to admins.
	Administrative
	// Account is another user's record managed through the users endpoints.
	Account
)

type Resource struct {
	Kind    ResourceKind
	OwnerID int64
}

func OwnedBy(ownerID int64) Resource {
	return Resource{Kind: Owned, OwnerID: ownerID}
}

var (
	AdminResource   = Resource{Kind: Administrative}
	AccountResource = Resource{Kind: Account}
)

// Authorize returns nil when the action is allowed.
func Authorize(actor *models.User, action Action, res Resource) error {
	if !action.IsWrite() && res.Kind != Account {
		return nil
	}
	if actor.IsAnonymous() {
		return errs.ErrUnauthorized
	}
	switch res.Kind {
	case Owned:
		if action == Create {
			return nil
		}
		if actor.ID == res.OwnerID || actor.IsModerator() || actor.IsAdmin() {
			return nil
		}
	case Administrative, Account:
		if actor.IsAdmin() {
			return nil
		}
	}
	return errs.ErrForbidden
}
