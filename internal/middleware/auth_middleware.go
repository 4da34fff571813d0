package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"gesso-pos/internal/apperror"
	"gesso-pos/internal/repository"
	"gesso-pos/pkg/jwt"
)

// Locals keys set by RequireAuth.
const (
	LocalUserID         = "user_id"
	LocalUserEmail      = "user_email"
	LocalUserName       = "user_name"
	LocalUserPrivileges = "user_privileges"
)

// RequireAuth validates the bearer token and checks it against the operator's current session.
func RequireAuth(issuer *jwt.Issuer, users repository.UserRepository) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get(fiber.HeaderAuthorization)
		if authHeader == "" {
			return apperror.NewUnauthorized("missing authorization token")
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			return apperror.NewUnauthorized("invalid authorization format, use: Bearer <token>")
		}

		claims, err := issuer.ValidateToken(parts[1])
		if err != nil {
			return apperror.NewUnauthorized("invalid or expired token")
		}

		user, err := users.FindByID(c.UserContext(), claims.UserID)
		if err != nil {
			if apperror.IsNotFound(err) {
				return apperror.NewUnauthorized("user not found")
			}
			return err
		}
		if !user.IsActive {
			return apperror.NewForbidden("user account is inactive")
		}
		if user.TokenVersion != claims.TokenVersion {
			return apperror.NewUnauthorized("session expired (logged in on another device)")
		}

		c.Locals(LocalUserID, claims.UserID.String())
		c.Locals(LocalUserEmail, claims.Email)
		c.Locals(LocalUserName, claims.Name)
		c.Locals(LocalUserPrivileges, claims.Privileges)

		return c.Next()
	}
}

// RequirePrivilege checks if the authenticated operator has the required privilege
func RequirePrivilege(requiredPrivilege string) fiber.Handler {
	return RequireAnyPrivilege(requiredPrivilege)
}

// RequireAnyPrivilege checks if the operator has at least one of the specified privileges
func RequireAnyPrivilege(requiredPrivileges ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		privileges, ok := c.Locals(LocalUserPrivileges).([]string)
		if !ok {
			return apperror.NewForbidden("no privileges found")
		}

		for _, userPriv := range privileges {
			for _, reqPriv := range requiredPrivileges {
				if userPriv == reqPriv {
					return c.Next()
				}
			}
		}

		return apperror.NewForbidden("requires one of: "+strings.Join(requiredPrivileges, ", ")).
			WithDetail("required", requiredPrivileges)
	}
}
