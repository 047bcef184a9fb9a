package controllers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/yeremiapane/orderdesk-app/middlewares"
	"github.com/yeremiapane/orderdesk-app/models"
	"github.com/yeremiapane/orderdesk-app/utils"
)

var userTestSeq int

func setupAuthRouter(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()

	gin.SetMode(gin.TestMode)
	utils.InitLogger()

	userTestSeq++
	dsn := fmt.Sprintf("file:users%d?mode=memory&cache=shared", userTestSeq)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	assert.NoError(t, err)
	assert.NoError(t, db.AutoMigrate(&models.User{}))

	ctrl := NewUserController(db)
	r := gin.New()
	r.POST("/api/auth/register", ctrl.Register)
	r.POST("/api/auth/login", ctrl.Login)
	r.POST("/api/auth/logout", middlewares.AuthMiddleware(), ctrl.Logout)
	r.GET("/api/profile", middlewares.AuthMiddleware(), ctrl.GetProfile)
	return r, db
}

func postJSON(r *gin.Engine, path string, body gin.H, headers map[string]string) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	json.NewEncoder(&buf).Encode(body)
	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRegisterAndLogin(t *testing.T) {
	r, _ := setupAuthRouter(t)

	w := postJSON(r, "/api/auth/register", gin.H{
		"name":     "Ops Admin",
		"email":    "admin@example.com",
		"password": "secret123",
		"role":     models.RoleAdmin,
	}, nil)
	assert.Equal(t, http.StatusCreated, w.Code)

	w = postJSON(r, "/api/auth/login", gin.H{
		"email":    "admin@example.com",
		"password": "secret123",
	}, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data struct {
			Token    string `json:"token"`
			UserRole string `json:"user_role"`
		} `json:"data"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.Data.Token)
	assert.Equal(t, models.RoleAdmin, resp.Data.UserRole)
}

func TestLoginWrongPassword(t *testing.T) {
	r, _ := setupAuthRouter(t)

	postJSON(r, "/api/auth/register", gin.H{
		"name":     "Vendor User",
		"email":    "vendor@example.com",
		"password": "secret123",
		"role":     models.RoleVendor,
		"vendor_id": "v1",
	}, nil)

	w := postJSON(r, "/api/auth/login", gin.H{
		"email":    "vendor@example.com",
		"password": "wrong",
	}, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRegisterVendorWithoutVendorID(t *testing.T) {
	r, _ := setupAuthRouter(t)

	w := postJSON(r, "/api/auth/register", gin.H{
		"name":     "Vendor User",
		"email":    "vendor@example.com",
		"password": "secret123",
		"role":     models.RoleVendor,
	}, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRegisterUnknownRole(t *testing.T) {
	r, _ := setupAuthRouter(t)

	w := postJSON(r, "/api/auth/register", gin.H{
		"name":     "Someone",
		"email":    "x@example.com",
		"password": "secret123",
		"role":     "superuser",
	}, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLogoutBlacklistsToken(t *testing.T) {
	r, _ := setupAuthRouter(t)

	postJSON(r, "/api/auth/register", gin.H{
		"name":     "Ops Admin",
		"email":    "admin2@example.com",
		"password": "secret123",
		"role":     models.RoleAdmin,
	}, nil)
	w := postJSON(r, "/api/auth/login", gin.H{
		"email":    "admin2@example.com",
		"password": "secret123",
	}, nil)

	var resp struct {
		Data struct {
			Token string `json:"token"`
		} `json:"data"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	auth := map[string]string{"Authorization": "Bearer " + resp.Data.Token}

	// profile works while the token is live
	req := httptest.NewRequest(http.MethodGet, "/api/profile", nil)
	req.Header.Set("Authorization", auth["Authorization"])
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	w = postJSON(r, "/api/auth/logout", nil, auth)
	assert.Equal(t, http.StatusOK, w.Code)

	// and is refused afterwards
	req = httptest.NewRequest(http.MethodGet, "/api/profile", nil)
	req.Header.Set("Authorization", auth["Authorization"])
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestProfileWithoutToken(t *testing.T) {
	r, _ := setupAuthRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/profile", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
