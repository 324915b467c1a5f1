package commands

import "github.com/avelis/habitdo/internal/models"

// Authorize checks that the acting user may operate on todos belonging to
// ownerID. Admins may act on anyone's todos. The check is pure and runs
// before any repository write and before any read data is returned.
func Authorize(actor models.User, ownerID string) error {
	if actor.ID == ownerID || actor.IsAdmin() {
		return nil
	}
	return ErrUnauthorized
}
