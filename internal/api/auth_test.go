package api

import (
	"net/http"
	"smart_condominium/internal/domain"
	"smart_condominium/internal/testutil"
	"smart_condominium/internal/utils"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type tokenResponse struct {
	Access  string      `json:"access"`
	Refresh string      `json:"refresh"`
	User    domain.User `json:"user"`
}

func TestRegisterLoginRefresh(t *testing.T) {
	env := newTestEnv(t, envOptions{})

	w := env.do(http.MethodPost, "/api/auth/register", nil, map[string]any{
		"username":     "Maria",
		"password":     "password123",
		"email":        "maria@condo.test",
		"dni":          "1234567",
		"phone_number": "+59171234567",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	reg := decode[tokenResponse](t, w)
	assert.Equal(t, "maria", reg.User.Username)
	assert.Equal(t, domain.UserTypeResident, reg.User.UserType)
	assert.NotEmpty(t, reg.Access)
	assert.NotContains(t, w.Body.String(), "password123")

	w = env.do(http.MethodPost, "/api/auth/login", nil, map[string]string{"username": "MARIA", "password": "password123"})
	require.Equal(t, http.StatusOK, w.Code)
	login := decode[tokenResponse](t, w)
	assert.Equal(t, reg.User.ID, login.User.ID)

	claims, err := utils.ParseJWT(login.Refresh, utils.RefreshToken, env.cfg.JWTSecret)
	require.NoError(t, err)
	assert.Equal(t, reg.User.ID, claims.UserID)

	w = env.do(http.MethodPost, "/api/auth/refresh", nil, map[string]string{"refresh": login.Refresh})
	require.Equal(t, http.StatusOK, w.Code)
	refreshed := decode[tokenResponse](t, w)
	_, err = utils.ParseJWT(refreshed.Access, utils.AccessToken, env.cfg.JWTSecret)
	assert.NoError(t, err)

	// An access token is not a refresh token
	w = env.do(http.MethodPost, "/api/auth/refresh", nil, map[string]string{"refresh": login.Access})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRegister_Rejections(t *testing.T) {
	env := newTestEnv(t, envOptions{})
	testutil.CreateUser(t, env.db, "taken", domain.UserTypeResident)

	t.Run("duplicate username", func(t *testing.T) {
		w := env.do(http.MethodPost, "/api/auth/register", nil, map[string]any{
			"username": "taken", "password": "password123", "dni": "999",
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "already exists")
	})

	t.Run("validation details", func(t *testing.T) {
		w := env.do(http.MethodPost, "/api/auth/register", nil, map[string]any{
			"username": "new", "password": "short", "phone_number": "abc",
		})
		require.Equal(t, http.StatusBadRequest, w.Code)
		body := decode[struct {
			Error   string `json:"error"`
			Details []struct {
				Field string `json:"field"`
			} `json:"details"`
		}](t, w)
		assert.Equal(t, "Invalid request", body.Error)
		var fields []string
		for _, d := range body.Details {
			fields = append(fields, d.Field)
		}
		assert.ElementsMatch(t, []string{"password", "dni", "phone_number"}, fields)
	})
}

func TestLogin_Failures(t *testing.T) {
	env := newTestEnv(t, envOptions{})
	user := testutil.CreateUser(t, env.db, "ana", domain.UserTypeResident)

	w := env.do(http.MethodPost, "/api/auth/login", nil, map[string]string{"username": "ana", "password": "wrong-password"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = env.do(http.MethodPost, "/api/auth/login", nil, map[string]string{"username": "nobody", "password": "password"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	require.NoError(t, env.db.Model(user).Update("is_active", false).Error)
	w = env.do(http.MethodPost, "/api/auth/login", nil, map[string]string{"username": "ana", "password": testutil.Password})
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	env := newTestEnv(t, envOptions{})
	w := env.do(http.MethodGet, "/api/units", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestHealth(t *testing.T) {
	env := newTestEnv(t, envOptions{})
	w := env.do(http.MethodGet, "/api/health", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := decode[map[string]string](t, w)
	assert.Equal(t, "ok", body["database"])
	assert.Equal(t, "disabled", body["cache"])
}
