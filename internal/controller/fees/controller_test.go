package fees

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"campus-connect-backend/internal/database"
	"campus-connect-backend/internal/model"
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

func TestDeadlinesWithDueLabels(t *testing.T) {
	ctrl := NewController(testDB)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/fees/deadlines", nil)

	ctrl.DeadlinesHandler(c)
	require.Equal(t, http.StatusOK, rec.Code)

	entries := []map[string]interface{}{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &entries))
	require.GreaterOrEqual(t, len(entries), 2)

	byTitle := map[string]map[string]interface{}{}
	for _, entry := range entries {
		byTitle[entry["title"].(string)] = entry
	}

	// seeded 5 days out and ~6 weeks out respectively
	assert.Equal(t, model.DueLabelDueSoon, byTitle["Semester Tuition Fee"]["due_label"])
	assert.Equal(t, model.DueLabelUpcoming, byTitle["Examination Fee"]["due_label"])
}

func TestDeadlinesOrderedAndLabelled(t *testing.T) {
	ctrl := NewController(testDB)
	ctrl.now = func() time.Time { return time.Now().AddDate(0, 6, 0) }

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/fees/deadlines", nil)

	ctrl.DeadlinesHandler(c)
	require.Equal(t, http.StatusOK, rec.Code)

	entries := []map[string]interface{}{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &entries))
	require.GreaterOrEqual(t, len(entries), 2)

	var lastDue time.Time
	for i, entry := range entries {
		// every seeded deadline lies in the past from six months out
		assert.Equal(t, model.DueLabelOverdue, entry["due_label"])
		assert.Negative(t, entry["days_until_due"].(float64))

		due, err := time.Parse(time.RFC3339, entry["due_date"].(string))
		require.NoError(t, err)
		if i > 0 {
			assert.False(t, due.Before(lastDue), "deadlines must be ordered by due date")
		}
		lastDue = due
	}
}

func TestPaymentsOnlyOwn(t *testing.T) {
	ctrl := NewController(testDB)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/fees/payments", nil)
	c.Set("user", database.TestUserStudent1)

	ctrl.PaymentsHandler(c)
	require.Equal(t, http.StatusOK, rec.Code)

	payments := []model.FeePayment{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payments))
	require.Len(t, payments, 1)
	assert.Equal(t, "TXN-0001", *payments[0].TransactionID)
	assert.Equal(t, database.TestUserStudent1.ID, *payments[0].StudentID)

	// a student with no payments gets an empty list, not an error
	rec = httptest.NewRecorder()
	c, _ = gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/fees/payments", nil)
	c.Set("user", database.TestUserStudent2)

	ctrl.PaymentsHandler(c)
	require.Equal(t, http.StatusOK, rec.Code)
	payments = []model.FeePayment{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payments))
	assert.Empty(t, payments)
}

func TestPaymentsRequireUser(t *testing.T) {
	ctrl := NewController(testDB)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/fees/payments", nil)

	ctrl.PaymentsHandler(c)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
