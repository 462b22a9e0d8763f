package service

import (
	domainerrors "github.com/keepupapp/keepup-server/internal/errors"
)

// Ownership is the outcome of checking a caller against a resource owner.
type Ownership int

const (
	// OwnershipGranted means the resource exists and belongs to the caller.
	OwnershipGranted Ownership = iota
	// OwnershipMissing means no resource has that id.
	OwnershipMissing
	// OwnershipForeign means the resource belongs to someone else.
	OwnershipForeign
)

func (o Ownership) String() string {
	switch o {
	case OwnershipGranted:
		return "granted"
	case OwnershipMissing:
		return "missing"
	case OwnershipForeign:
		return "foreign"
	default:
		return "unknown"
	}
}

// checkOwnership is the single ownership predicate for tasks and media.
func checkOwnership(found bool, ownerID, callerID int64) Ownership {
	switch {
	case !found:
		return OwnershipMissing
	case ownerID != callerID:
		return OwnershipForeign
	default:
		return OwnershipGranted
	}
}

// ownershipError maps a failed check to a domain error. Someone else's
// resource is reported exactly like a missing one unless revealForbidden is
// set, so ids cannot be probed.
func ownershipError(result Ownership, revealForbidden bool, resource string) error {
	switch result {
	case OwnershipGranted:
		return nil
	case OwnershipForeign:
		if revealForbidden {
			return domainerrors.Forbidden(resource + " belongs to another user")
		}
		return domainerrors.NotFound(resource + " not found")
	default:
		return domainerrors.NotFound(resource + " not found")
	}
}

// OwnershipPolicy carries the 404/403 switch into the resource services.
type OwnershipPolicy struct {
	RevealForbidden bool
}

func (p OwnershipPolicy) check(found bool, ownerID, callerID int64, resource string) error {
	return ownershipError(checkOwnership(found, ownerID, callerID), p.RevealForbidden, resource)
}
