package profile

import (
	"bytes"
	"context"
	"encoding/json"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"campus-connect-backend/internal/database"
	"campus-connect-backend/internal/model"
	"campus-connect-backend/internal/testutil"
)

var testDB *database.DBinstanceStruct

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)

	teardown, db, err := database.GetTestDB()
	if err != nil {
		log.Fatalf("could not start test database: %v", err)
	}
	testDB = db

	code := m.Run()

	if teardown != nil {
		if err := teardown(context.Background()); err != nil {
			log.Printf("could not teardown test database: %v", err)
		}
	}
	os.Exit(code)
}

func getProfile(user model.User, ctrl *Controller) (*httptest.ResponseRecorder, model.Profile) {
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/profile", nil)
	c.Set("user", user)

	ctrl.GetHandler(c)

	profile := model.Profile{}
	_ = json.Unmarshal(rec.Body.Bytes(), &profile)
	return rec, profile
}

func TestGetProfile(t *testing.T) {
	ctrl := NewController(testDB)

	rec, profile := getProfile(database.TestUserStudent1, ctrl)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, database.TestUserStudent1.ID, profile.UserID)
	assert.Equal(t, "Alice Nguyen", *profile.FullName)
}

func TestGetProfileNotFound(t *testing.T) {
	ctrl := NewController(testDB)

	user := model.User{Username: "no_profile_user", Role: model.RoleStudent, Password: "not-used-here"}
	require.NoError(t, testDB.Create(&user).Error)

	rec, _ := getProfile(user, ctrl)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUpdateProfileMergesFields(t *testing.T) {
	ctrl := NewController(testDB)

	semester := 4
	body, _ := json.Marshal(model.EditableProfileInfo{
		Phone:    testutil.StringPtr("9999900000"),
		Semester: &semester,
	})
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodPatch, "/profile", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Set("user", database.TestUserStudent2)

	ctrl.UpdateHandler(c)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	stored := model.Profile{}
	require.NoError(t, testDB.Where("user_id = ?", database.TestUserStudent2.ID).First(&stored).Error)
	assert.Equal(t, "9999900000", *stored.Phone)
	assert.Equal(t, 4, *stored.Semester)

	// fields absent from the patch keep their stored values
	assert.Equal(t, "Bob Somsak", *stored.FullName)
	assert.Equal(t, "Computer Science", *stored.Department)
}

func TestUpdateProfileRejectsBadBody(t *testing.T) {
	ctrl := NewController(testDB)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodPatch, "/profile", bytes.NewReader([]byte("{not json")))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Set("user", database.TestUserStudent1)

	ctrl.UpdateHandler(c)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
