package auth

import (
	"context"
	"net/http"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"campus-connect-backend/internal/database"
	"campus-connect-backend/internal/model"
	"campus-connect-backend/internal/utilities"
)

var testDB *database.DBinstanceStruct

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	var err error
	var teardown func(context.Context) error
	teardown, testDB, err = database.GetTestDB()
	if err != nil {
		os.Exit(1)
	}
	m.Run()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if teardown != nil {
		_ = teardown(ctx)
	}
}

func TestLocalRegisterHandler_CreatesStudentWithProfile(t *testing.T) {
	handler := NewLocalAuthHandler(testDB)
	rec, resp, err := utilities.SimulateAPICall(handler.LocalRegisterHandler, "/register", http.MethodPost, map[string]string{
		"username": "fresh_student",
		"password": "Password42!",
		"email":    "fresh@example.com",
	})
	assert.NoError(t, err)
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.NotEmpty(t, resp["access_token"])

	var user model.User
	assert.NoError(t, testDB.Where("username = ?", "fresh_student").First(&user).Error)
	assert.Equal(t, model.RoleStudent, user.Role)

	var profile model.Profile
	assert.NoError(t, testDB.Where("user_id = ?", user.ID).First(&profile).Error)
	assert.Equal(t, "fresh@example.com", profile.Email)
}

func TestLocalRegisterHandler_DuplicateUsername(t *testing.T) {
	handler := NewLocalAuthHandler(testDB)
	rec, resp, err := utilities.SimulateAPICall(handler.LocalRegisterHandler, "/register", http.MethodPost, map[string]string{
		"username": database.TestUserStudent1.Username,
		"password": "Password42!",
		"email":    "other@example.com",
	})
	assert.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, resp["error"], "already exist")
}

func TestLocalRegisterHandler_ShortPassword(t *testing.T) {
	handler := NewLocalAuthHandler(testDB)
	rec, _, err := utilities.SimulateAPICall(handler.LocalRegisterHandler, "/register", http.MethodPost, map[string]string{
		"username": "short_pwd_student",
		"password": "short",
		"email":    "short@example.com",
	})
	assert.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLocalLoginHandler_Success(t *testing.T) {
	token, err := GetAccessToken(t, testDB, database.TestUserStudent1.Username, database.TestSeedPassword)
	assert.NoError(t, err)
	assert.NotEmpty(t, token)

	parsed, err := ValidatedToken(token)
	assert.NoError(t, err)
	assert.True(t, parsed.Valid)
}

func TestLocalLoginHandler_WrongPassword(t *testing.T) {
	handler := NewLocalAuthHandler(testDB)
	rec, _, err := utilities.SimulateAPICall(handler.LocalLoginHandler, "/login", http.MethodPost, map[string]string{
		"username": database.TestUserStudent1.Username,
		"password": "not-the-password",
	})
	assert.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
