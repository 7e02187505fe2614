package auth

import (
	"errors"

	"fabcatalogue/store"
)

var (
	// ErrUnauthenticated means no valid token identified a user.
	ErrUnauthenticated = errors.New("unauthenticated")
	// ErrForbidden means the caller is known but lacks the role or ownership.
	ErrForbidden = errors.New("forbidden")
)

func IsAdmin(caller *store.User) bool {
	return caller != nil && caller.IsAdmin
}

// IsOwner reports whether caller is the user returned by ownerID.
func IsOwner(caller *store.User, ownerID func() int64) bool {
	return caller != nil && ownerID != nil && caller.ID == ownerID()
}

func RequireAdmin(caller *store.User) error {
	if caller == nil {
		return ErrUnauthenticated
	}
	if !IsAdmin(caller) {
		return ErrForbidden
	}
	return nil
}

// RequireOwnerOrAdmin passes admins and the owner of a resource. ownerID is
// the resource's owner accessor, e.g. (*store.Comment).OwnerID.
func RequireOwnerOrAdmin(caller *store.User, ownerID func() int64) error {
	if caller == nil {
		return ErrUnauthenticated
	}
	if IsAdmin(caller) || IsOwner(caller, ownerID) {
		return nil
	}
	return ErrForbidden
}
