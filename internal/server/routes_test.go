package server

import (
	"context"
	"log"
	"net/http"
	"os"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"campus-connect-backend/internal/auth"
	"campus-connect-backend/internal/database"
	"campus-connect-backend/internal/realtime"
	"campus-connect-backend/internal/testutil"
)

var (
	testDB *database.DBinstanceStruct
	router *gin.Engine
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	if err := os.Setenv("ALLOW_ORIGIN", "http://localhost:3000"); err != nil {
		log.Fatalf("could not set env: %v", err)
	}

	teardown, db, err := database.GetTestDB()
	if err != nil {
		log.Fatalf("could not start test database: %v", err)
	}
	testDB = db

	s := New(testDB, nil, realtime.NewHub(zap.NewNop()), auth.NewInMemoryBlacklistStore())
	router = s.RegisterRoutes().(*gin.Engine)

	code := m.Run()

	if teardown != nil {
		if err := teardown(context.Background()); err != nil {
			log.Printf("could not teardown test database: %v", err)
		}
	}
	os.Exit(code)
}

func studentToken(t *testing.T) string {
	t.Helper()
	token, err := auth.GetAccessToken(t, testDB, database.TestUserStudent1.Username, database.TestSeedPassword)
	require.NoError(t, err)
	return token
}

func adminToken(t *testing.T) string {
	t.Helper()
	token, err := auth.GetAccessToken(t, testDB, database.TestAdminUser.Username, database.TestSeedPassword)
	require.NoError(t, err)
	return token
}

func TestHealthEndpoint(t *testing.T) {
	rec, resp := testutil.MakeJSONRequest(nil, "", router, "/health", http.MethodGet)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "up", resp["status"])
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", rec.Header().Get("X-Frame-Options"))
}

func TestLogoutRevokesToken(t *testing.T) {
	// dedicated account so the revoked token cannot collide with the
	// seeded users other tests sign in as
	rec, resp := testutil.MakeJSONRequest(gin.H{
		"username": "logout_router_user",
		"password": "SomePassword123!",
		"email":    "logout_router_user@example.com",
	}, "", router, "/api/v1/auth/register", http.MethodPost)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	token, ok := resp["access_token"].(string)
	require.True(t, ok)

	rec, _ = testutil.MakeJSONRequest(nil, token, router, "/api/v1/profile", http.MethodGet)
	require.Equal(t, http.StatusOK, rec.Code)

	rec, resp = testutil.MakeJSONRequest(nil, token, router, "/api/v1/auth/logout", http.MethodPost)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "Successfully logged out", resp["message"])

	rec, resp = testutil.MakeJSONRequest(nil, token, router, "/api/v1/profile", http.MethodGet)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Token has been revoked", resp["error"])

	// unrelated sessions keep working
	rec, _ = testutil.MakeJSONRequest(nil, studentToken(t), router, "/api/v1/profile", http.MethodGet)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestProtectedRoutesRejectAnonymous(t *testing.T) {
	for _, endpoint := range []string{
		"/api/v1/application",
		"/api/v1/admissions",
		"/api/v1/fees/deadlines",
		"/api/v1/profile",
		"/api/v1/admin/applications",
	} {
		// an empty bearer header is rejected before token validation
		rec, _ := testutil.MakeJSONRequest(nil, "", router, endpoint, http.MethodGet)
		assert.Equal(t, http.StatusBadRequest, rec.Code, endpoint)

		rec, _ = testutil.MakeJSONRequest(nil, "not-a-real-token", router, endpoint, http.MethodGet)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, endpoint)
	}
}

func TestLoginThroughRouter(t *testing.T) {
	rec, resp := testutil.MakeJSONRequest(gin.H{
		"username": database.TestUserStudent1.Username,
		"password": database.TestSeedPassword,
	}, "", router, "/api/v1/auth/login", http.MethodPost)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.NotEmpty(t, resp["access_token"])
}

func TestStudentCanReadCatalog(t *testing.T) {
	token := studentToken(t)

	rec, _ := testutil.MakeJSONRequest(nil, token, router, "/api/v1/admissions", http.MethodGet)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, _ = testutil.MakeJSONRequest(nil, token, router, "/api/v1/fees/deadlines", http.MethodGet)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, _ = testutil.MakeJSONRequest(nil, token, router, "/api/v1/profile", http.MethodGet)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestStudentCannotReachAdminRoutes(t *testing.T) {
	token := studentToken(t)

	rec, _ := testutil.MakeJSONRequest(nil, token, router, "/api/v1/admin/applications", http.MethodGet)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestAdminCannotUseStudentRoutes(t *testing.T) {
	token := adminToken(t)

	rec, _ := testutil.MakeJSONRequest(nil, token, router, "/api/v1/application", http.MethodGet)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec, _ = testutil.MakeJSONRequest(nil, token, router, "/api/v1/admin/applications", http.MethodGet)
	assert.Equal(t, http.StatusOK, rec.Code)
}
