package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"smart_condominium/internal/domain"
	"smart_condominium/internal/testutil"
	"smart_condominium/internal/utils"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func init() {
	gin.SetMode(gin.TestMode)
}

func bearer(t *testing.T, userID uint, tokenType string) string {
	t.Helper()
	token, err := utils.GenerateJWT(userID, tokenType, testSecret, time.Minute)
	require.NoError(t, err)
	return "Bearer " + token
}

func TestJWTAuthMiddleware(t *testing.T) {
	router := gin.New()
	router.GET("/me", JWTAuthMiddleware(testSecret), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user_id": c.GetUint(UserIDKey)})
	})

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"not bearer", "Token abc", http.StatusUnauthorized},
		{"garbage token", "Bearer abc", http.StatusUnauthorized},
		{"refresh token", bearer(t, 7, utils.RefreshToken), http.StatusUnauthorized},
		{"access token", bearer(t, 7, utils.AccessToken), http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)
			assert.Equal(t, tt.want, w.Code)
		})
	}
}

func TestRequireUserType(t *testing.T) {
	gdb := testutil.NewDB(t)
	admin := testutil.CreateUser(t, gdb, "admin", domain.UserTypeAdmin)
	guard := testutil.CreateUser(t, gdb, "guard", domain.UserTypeSecurity)
	resident := testutil.CreateUser(t, gdb, "resident", domain.UserTypeResident)
	disabled := testutil.CreateUser(t, gdb, "disabled", domain.UserTypeAdmin)
	require.NoError(t, gdb.Model(disabled).Update("is_active", false).Error)

	router := gin.New()
	api := router.Group("/", JWTAuthMiddleware(testSecret), RequireUserType(gdb))
	api.GET("/any", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"username": CurrentUser(c).Username})
	})
	api.GET("/staff", RequireUserType(gdb, domain.UserTypeAdmin, domain.UserTypeSecurity), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
	api.GET("/admin", AdminOnlyMiddleware(gdb), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})

	tests := []struct {
		name   string
		userID uint
		path   string
		want   int
	}{
		{"resident any", resident.ID, "/any", http.StatusOK},
		{"resident staff", resident.ID, "/staff", http.StatusForbidden},
		{"guard staff", guard.ID, "/staff", http.StatusNoContent},
		{"guard admin", guard.ID, "/admin", http.StatusForbidden},
		{"admin admin", admin.ID, "/admin", http.StatusNoContent},
		{"disabled admin", disabled.ID, "/admin", http.StatusForbidden},
		{"deleted user", 9999, "/any", http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			req.Header.Set("Authorization", bearer(t, tt.userID, utils.AccessToken))
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)
			assert.Equal(t, tt.want, w.Code)
		})
	}
}

func TestHandleValidationError(t *testing.T) {
	SetupValidator()

	type request struct {
		Phone string `json:"phone_number" binding:"omitempty,phone"`
		Start string `json:"start_time" binding:"required,hhmm"`
		Date  string `json:"date" binding:"required,date"`
	}
	router := gin.New()
	router.POST("/test", func(c *gin.Context) {
		var req request
		if err := c.ShouldBindJSON(&req); err != nil {
			HandleValidationError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	})

	post := func(body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/test", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	t.Run("field errors use json names", func(t *testing.T) {
		w := post(`{"phone_number": "12", "start_time": "25:99", "date": "2025-13-01"}`)
		require.Equal(t, http.StatusBadRequest, w.Code)

		var resp struct {
			Error   string             `json:"error"`
			Details []ValidationDetail `json:"details"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "Invalid request", resp.Error)
		fields := map[string]string{}
		for _, d := range resp.Details {
			fields[d.Field] = d.Message
		}
		assert.Contains(t, fields, "phone_number")
		assert.Contains(t, fields, "start_time")
		assert.Contains(t, fields, "date")
	})

	t.Run("malformed body has no details", func(t *testing.T) {
		w := post(`{`)
		require.Equal(t, http.StatusBadRequest, w.Code)
		assert.NotContains(t, w.Body.String(), "details")
	})

	t.Run("valid body", func(t *testing.T) {
		w := post(`{"phone_number": "+59171234567", "start_time": "09:30", "date": "2025-03-01"}`)
		assert.Equal(t, http.StatusNoContent, w.Code)
	})

	t.Run("clock needs a two-digit hour", func(t *testing.T) {
		for _, clock := range []string{"9:30", "09:3", "24:00", " 09:30"} {
			w := post(`{"start_time": "` + clock + `", "date": "2025-03-01"}`)
			assert.Equal(t, http.StatusBadRequest, w.Code, clock)
		}
		assert.Equal(t, http.StatusNoContent, post(`{"start_time": "23:59", "date": "2025-03-01"}`).Code)
	})
}

func TestRequestLogger_PassesThrough(t *testing.T) {
	router := gin.New()
	router.Use(RequestLogger())
	router.GET("/ping", func(c *gin.Context) { c.String(http.StatusTeapot, "pong") })

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping?x=1", nil))
	assert.Equal(t, http.StatusTeapot, w.Code)
	assert.Equal(t, "pong", w.Body.String())
}

func TestBodyLimit(t *testing.T) {
	router := gin.New()
	router.POST("/upload", BodyLimit(16), func(c *gin.Context) {
		var body map[string]string
		if err := c.ShouldBindJSON(&body); err != nil {
			if IsBodyTooLarge(err) {
				c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "Request body too large"})
				return
			}
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		c.Status(http.StatusNoContent)
	})

	post := func(body string, chunked bool) int {
		req := httptest.NewRequest(http.MethodPost, "/upload", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		if chunked {
			req.ContentLength = -1 // Length unknown up front
		}
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w.Code
	}

	assert.Equal(t, http.StatusNoContent, post(`{"a":"b"}`, false))
	assert.Equal(t, http.StatusRequestEntityTooLarge, post(`{"image":"aaaaaaaaaaaaaaaa"}`, false))
	assert.Equal(t, http.StatusRequestEntityTooLarge, post(`{"image":"aaaaaaaaaaaaaaaa"}`, true))
}
