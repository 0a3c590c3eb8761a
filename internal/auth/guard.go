package auth

import (
	"playlist-hub/internal/apperr"
)

// RequireOwner allows the request only when the caller is an enabled account
// whose name matches the owner named in the request path.
func RequireOwner(c *Claims, owner string) error {
	if c == nil || c.Disabled {
		return apperr.Unauthorized()
	}
	if owner == "" || c.Name != owner {
		return apperr.Unauthorized()
	}
	return nil
}

// RequireAdmin is RequireOwner for admin-only operations.
func RequireAdmin(c *Claims, admin string) error {
	if err := RequireOwner(c, admin); err != nil {
		return err
	}
	if !c.Admin {
		return apperr.Unauthorized()
	}
	return nil
}
