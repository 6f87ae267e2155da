package service

import (
	"github.com/google/uuid"

	"github.com/counselbook/reserve/internal/apperr"
	"github.com/counselbook/reserve/internal/model"
)

// authorizeOwner is the single ownership policy: admins may act on any
// counselor's resource, counselors only on their own.
func authorizeOwner(ident model.Identity, ownerID uuid.UUID) error {
	if ident.IsAdmin() {
		return nil
	}
	if ident.UserID == ownerID {
		return nil
	}
	return apperr.Forbidden("you may only act on your own slots")
}
