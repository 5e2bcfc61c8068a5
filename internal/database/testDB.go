package database

import (
	"context"
	"fmt"
	"time"

	"github.com/docker/go-connections/nat"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	// Load env
	_ "github.com/joho/godotenv/autoload"

	m "campus-connect-backend/internal/model"
	"campus-connect-backend/internal/utilities"
)

var testDBInstance *DBinstanceStruct
var teardown func(context.Context) error

// Exported test users & fixtures
var (
	TestAdminUser    m.User
	TestUserStudent1 m.User
	TestUserStudent2 m.User
	TestProfile1     m.Profile
	TestProfile2     m.Profile

	// Add exported plain password
	TestSeedPassword = "SeedPass123!"

	// Exported seeded catalog rows
	TestProgram1     m.AdmissionsInfo
	TestProgram2     m.AdmissionsInfo
	TestFeeDeadline1 m.FeeDeadline
	TestFeeDeadline2 m.FeeDeadline
)

// GetTestDB starts a PostgreSQL test container and returns a teardown function,
// the DB instance, and any error encountered during setup.
func GetTestDB() (func(context.Context) error, *DBinstanceStruct, error) {

	if testDBInstance != nil && teardown != nil {
		return teardown, testDBInstance, nil
	}

	// Database configuration
	var (
		dbName = "database"
		dbPwd  = "password"
		dbUser = "user"
	)

	dbContainer, err := postgres.Run(
		context.Background(),
		"postgres:latest",
		postgres.WithDatabase(dbName),
		postgres.WithUsername(dbUser),
		postgres.WithPassword(dbPwd),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(5*time.Second)),
	)
	if err != nil {
		return nil, nil, err
	}

	dbHost, err := dbContainer.Host(context.Background())
	if err != nil {
		return dbContainer.Terminate, nil, err
	}

	dbPort, err := dbContainer.MappedPort(context.Background(), nat.Port("5432/tcp"))
	if err != nil {
		return dbContainer.Terminate, nil, err
	}

	config := &DBConfig{
		useConstr: true,
		Constr:    fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable", dbUser, dbPwd, dbHost, dbPort.Port(), dbName),
	}

	db, err := NewDBInstance(config)
	if err != nil {
		return dbContainer.Terminate, nil, err
	}

	// Seed sample students and catalog data
	if err := seedTestData(db); err != nil {
		_ = dbContainer.Terminate(context.Background())
		return nil, nil, err
	}

	testDBInstance = db
	teardown = dbContainer.Terminate

	return dbContainer.Terminate, db, nil
}

// seedTestData inserts sample student accounts, profiles, admissions
// programs and fee deadlines if the database is empty.
func seedTestData(db *DBinstanceStruct) error {
	var userCount int64
	if err := db.Model(&m.User{}).Count(&userCount).Error; err != nil {
		return err
	}

	// Ignore admin user that got create during NewDBInstance
	if userCount > 1 {
		return loadTestData(db)
	}

	emails := []*string{ptr("student1@example.com"), ptr("student2@example.com"), ptr("admin@example.com")}
	userSpecs := []struct {
		username string
		email    *string
		role     string
	}{
		{"student_1", emails[0], m.RoleStudent},
		{"student_2", emails[1], m.RoleStudent},
		{"admin_user", emails[2], m.RoleAdmin},
	}

	// Pre-hash shared password for all seeded users
	hashedPwd, errHash := utilities.HashPassword(TestSeedPassword)
	if errHash != nil {
		return errHash
	}

	users := make([]m.User, 0, len(userSpecs))
	for _, s := range userSpecs {
		users = append(users, m.User{
			ID:       uuid.New(),
			Username: s.username,
			Email:    s.email,
			Role:     s.role,
			Password: hashedPwd,
		})
	}

	if err := db.Create(&users).Error; err != nil {
		return err
	}

	for _, u := range users {
		switch u.Username {
		case "student_1":
			TestUserStudent1 = u
		case "student_2":
			TestUserStudent2 = u
		case "admin_user":
			TestAdminUser = u
		}
	}

	sem3, sem1 := 3, 1
	profiles := []m.Profile{
		{
			UserID: TestUserStudent1.ID,
			Email:  *TestUserStudent1.Email,
			EditableProfileInfo: m.EditableProfileInfo{
				FullName:   ptr("Alice Nguyen"),
				Phone:      ptr("9876500001"),
				Department: ptr("Physics"),
				Semester:   &sem3,
				StudentID:  ptr("STU-2023-001"),
			},
		},
		{
			UserID: TestUserStudent2.ID,
			Email:  *TestUserStudent2.Email,
			EditableProfileInfo: m.EditableProfileInfo{
				FullName:   ptr("Bob Somsak"),
				Phone:      ptr("9876500002"),
				Department: ptr("Computer Science"),
				Semester:   &sem1,
				StudentID:  ptr("STU-2025-042"),
			},
		},
	}
	if err := db.Create(&profiles).Error; err != nil {
		return err
	}
	TestProfile1 = profiles[0]
	TestProfile2 = profiles[1]

	seats1, seats2 := 120, 60
	deadline := time.Now().AddDate(0, 2, 0)
	programs := []m.AdmissionsInfo{
		{
			ProgramName:         "Bachelor of Science (B.Sc.)",
			Description:         ptr("Three year undergraduate science program"),
			Eligibility:         "10+2 with science stream, minimum 50%",
			Duration:            "3 years",
			FeeStructure:        "INR 45,000 per year",
			SeatsAvailable:      &seats1,
			Requirements:        pq.StringArray{"10th marksheet", "12th marksheet", "ID proof"},
			ApplicationDeadline: &deadline,
		},
		{
			ProgramName:         "Master of Technology (M.Tech.)",
			Description:         ptr("Two year postgraduate engineering program"),
			Eligibility:         "B.Tech/B.E. with minimum 60%",
			Duration:            "2 years",
			FeeStructure:        "INR 95,000 per year",
			SeatsAvailable:      &seats2,
			Requirements:        pq.StringArray{"Degree certificate", "GATE scorecard", "ID proof"},
			ApplicationDeadline: &deadline,
		},
	}
	if err := db.Create(&programs).Error; err != nil {
		return err
	}
	TestProgram1 = programs[0]
	TestProgram2 = programs[1]

	lateFee := 500.0
	deadlines := []m.FeeDeadline{
		{
			Title:        "Semester Tuition Fee",
			Description:  ptr("Tuition fee for the current semester"),
			Amount:       22500,
			LateFee:      &lateFee,
			DueDate:      time.Now().AddDate(0, 0, 5),
			ApplicableTo: pq.StringArray{"all"},
		},
		{
			Title:        "Examination Fee",
			Amount:       1500,
			DueDate:      time.Now().AddDate(0, 1, 15),
			ApplicableTo: pq.StringArray{"all"},
		},
	}
	if err := db.Create(&deadlines).Error; err != nil {
		return err
	}
	TestFeeDeadline1 = deadlines[0]
	TestFeeDeadline2 = deadlines[1]

	completed := "completed"
	payment := m.FeePayment{
		StudentID:     &TestUserStudent1.ID,
		FeeDeadlineID: &TestFeeDeadline1.ID,
		AmountPaid:    22500,
		PaymentDate:   time.Now().AddDate(0, 0, -2),
		PaymentMethod: ptr("upi"),
		TransactionID: ptr("TXN-0001"),
		Status:        completed,
	}
	return db.Create(&payment).Error
}

// loadTestData re-reads the seeded fixtures into the exported variables
// when the container is reused across test packages.
func loadTestData(db *DBinstanceStruct) error {
	if err := db.Where("username = ?", "student_1").First(&TestUserStudent1).Error; err != nil {
		return err
	}
	if err := db.Where("username = ?", "student_2").First(&TestUserStudent2).Error; err != nil {
		return err
	}
	if err := db.Where("username = ?", "admin_user").First(&TestAdminUser).Error; err != nil {
		return err
	}
	if err := db.Where("user_id = ?", TestUserStudent1.ID).First(&TestProfile1).Error; err != nil {
		return err
	}
	if err := db.Where("user_id = ?", TestUserStudent2.ID).First(&TestProfile2).Error; err != nil {
		return err
	}
	if err := db.Where("program_name = ?", "Bachelor of Science (B.Sc.)").First(&TestProgram1).Error; err != nil {
		return err
	}
	if err := db.Where("program_name = ?", "Master of Technology (M.Tech.)").First(&TestProgram2).Error; err != nil {
		return err
	}
	if err := db.Where("title = ?", "Semester Tuition Fee").First(&TestFeeDeadline1).Error; err != nil {
		return err
	}
	return db.Where("title = ?", "Examination Fee").First(&TestFeeDeadline2).Error
}

func ptr(s string) *string {
	return &s
}
