// Package auth holds the single authorization check wrapped around every
// admin-only operation.
package auth

import "giftmarket-bot/internal/models"

type Guard struct {
	adminID int64
}

// NewGuard builds a guard for the configured admin. A zero adminID disables
// admin access entirely.
func NewGuard(adminID int64) *Guard {
	return &Guard{adminID: adminID}
}

func (g *Guard) IsAdmin(userID int64) bool {
	return g.adminID != 0 && userID == g.adminID
}

// Require returns ErrUnauthorized unless actor is the admin.
func (g *Guard) Require(actor int64) error {
	if !g.IsAdmin(actor) {
		return models.ErrUnauthorized
	}
	return nil
}
