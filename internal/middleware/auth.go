package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/learnhub/backend/internal/apperrors"
	"github.com/learnhub/backend/internal/models"
	"github.com/learnhub/backend/internal/repository"
	"github.com/learnhub/backend/internal/utils"
)

const (
	LocalsUserID = "user_id"
	LocalsRole   = "role"
)

type Auth struct {
	jwt        *utils.JWTManager
	users      repository.UserRepository
	cookieName string
}

func NewAuth(jwt *utils.JWTManager, users repository.UserRepository, cookieName string) *Auth {
	return &Auth{jwt: jwt, users: users, cookieName: cookieName}
}

// Required authenticates via the access-token cookie (or a Bearer header as
// fallback) and rejects banned accounts. Claims land in Locals.
func (a *Auth) Required() fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := c.Cookies(a.cookieName)
		if token == "" {
			auth := c.Get(fiber.HeaderAuthorization)
			if parts := strings.SplitN(auth, " ", 2); len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
				token = parts[1]
			}
		}
		if token == "" {
			return apperrors.ErrUnauthorized
		}

		claims, err := a.jwt.ParseAccess(token)
		if err != nil {
			return apperrors.ErrUnauthorized
		}
		uid, err := primitive.ObjectIDFromHex(claims.UserID)
		if err != nil {
			return apperrors.ErrUnauthorized
		}

		// Status is re-checked per request so a ban bites immediately,
		// not at token expiry.
		u, err := a.users.FindByID(c.Context(), uid)
		if err != nil {
			return apperrors.ErrUnauthorized
		}
		if u.Status == models.UserBanned {
			return apperrors.ErrBanned
		}

		c.Locals(LocalsUserID, uid)
		c.Locals(LocalsRole, u.Role)
		return c.Next()
	}
}

// Optional authenticates when a token is present and falls through anonymously
// when it is not. Used on public reads whose response depends on the viewer,
// such as draft courses visible only to their owner.
func (a *Auth) Optional() fiber.Handler {
	required := a.Required()
	return func(c *fiber.Ctx) error {
		if c.Cookies(a.cookieName) == "" && c.Get(fiber.HeaderAuthorization) == "" {
			return c.Next()
		}
		return required(c)
	}
}

// RequireRoles gates a route to the given roles. Mount after Required.
func RequireRoles(roles ...models.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		role, ok := c.Locals(LocalsRole).(models.Role)
		if !ok {
			return apperrors.ErrUnauthorized
		}
		for _, r := range roles {
			if role == r {
				return c.Next()
			}
		}
		return apperrors.ErrForbidden
	}
}

// UserID pulls the authenticated user's id out of Locals.
func UserID(c *fiber.Ctx) primitive.ObjectID {
	if id, ok := c.Locals(LocalsUserID).(primitive.ObjectID); ok {
		return id
	}
	return primitive.NilObjectID
}

func Role(c *fiber.Ctx) models.Role {
	if r, ok := c.Locals(LocalsRole).(models.Role); ok {
		return r
	}
	return ""
}
