package middleware

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/learnhub/backend/internal/apperrors"
	"github.com/learnhub/backend/internal/models"
	"github.com/learnhub/backend/internal/utils"
)

type stubUserRepo struct {
	users map[primitive.ObjectID]*models.User
}

func (r *stubUserRepo) Create(context.Context, *models.User) error { return nil }

func (r *stubUserRepo) FindByID(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return u, nil
}

func (r *stubUserRepo) FindByEmail(context.Context, string) (*models.User, error) {
	return nil, apperrors.ErrNotFound
}

func (r *stubUserRepo) FindByRoles(context.Context, []models.Role, primitive.ObjectID) ([]models.User, error) {
	return nil, nil
}

func (r *stubUserRepo) List(context.Context, int64, int64) ([]models.User, int64, error) {
	return nil, 0, nil
}

func (r *stubUserRepo) SetVerified(context.Context, primitive.ObjectID) error { return nil }

func (r *stubUserRepo) SetRole(context.Context, primitive.ObjectID, models.Role) error { return nil }

func (r *stubUserRepo) SetStatus(context.Context, primitive.ObjectID, models.UserStatus) error {
	return nil
}

func (r *stubUserRepo) SetInstructorRequest(context.Context, primitive.ObjectID, models.InstructorRequest) error {
	return nil
}

func (r *stubUserRepo) Delete(context.Context, primitive.ObjectID) error { return nil }

func newAuthFixture(t *testing.T) (*fiber.App, *utils.JWTManager, *models.User, *stubUserRepo) {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	jwtMgr := utils.NewJWTManagerFromKeys(key, &key.PublicKey, 30, 7)

	user := &models.User{
		ID:     primitive.NewObjectID(),
		Role:   models.RoleStudent,
		Status: models.UserActive,
	}
	repo := &stubUserRepo{users: map[primitive.ObjectID]*models.User{user.ID: user}}

	app := fiber.New(fiber.Config{ErrorHandler: apperrors.ErrorHandler})
	auth := NewAuth(jwtMgr, repo, "access_token")
	app.Get("/me", auth.Required(), func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"id": UserID(c).Hex(), "role": Role(c)})
	})
	app.Get("/admin", auth.Required(), RequireRoles(models.RoleAdmin, models.RoleSuperadmin), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})
	return app, jwtMgr, user, repo
}

func authedRequest(t *testing.T, jwtMgr *utils.JWTManager, user *models.User, path string) *http.Request {
	t.Helper()
	token, _, err := jwtMgr.GenerateAccessToken(user.ID.Hex(), string(user.Role))
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodGet, path, nil)
	req.AddCookie(&http.Cookie{Name: "access_token", Value: token})
	return req
}

func TestRequiredAcceptsCookie(t *testing.T) {
	app, jwtMgr, user, _ := newAuthFixture(t)

	resp, err := app.Test(authedRequest(t, jwtMgr, user, "/me"))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestRequiredAcceptsBearerFallback(t *testing.T) {
	app, jwtMgr, user, _ := newAuthFixture(t)
	token, _, err := jwtMgr.GenerateAccessToken(user.ID.Hex(), string(user.Role))
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestRequiredRejectsMissingToken(t *testing.T) {
	app, _, _, _ := newAuthFixture(t)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/me", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestRequiredRejectsBannedUser(t *testing.T) {
	app, jwtMgr, user, _ := newAuthFixture(t)
	user.Status = models.UserBanned

	resp, err := app.Test(authedRequest(t, jwtMgr, user, "/me"))
	require.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestRequiredRejectsDeletedUser(t *testing.T) {
	app, jwtMgr, user, repo := newAuthFixture(t)
	delete(repo.users, user.ID)

	resp, err := app.Test(authedRequest(t, jwtMgr, user, "/me"))
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestRequireRoles(t *testing.T) {
	app, jwtMgr, user, _ := newAuthFixture(t)

	resp, err := app.Test(authedRequest(t, jwtMgr, user, "/admin"))
	require.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	// The per-request status lookup also refreshes the role.
	user.Role = models.RoleAdmin
	resp, err = app.Test(authedRequest(t, jwtMgr, user, "/admin"))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
