package handlers

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/fitsync/fitsync/internal/constants"
	"github.com/fitsync/fitsync/internal/database"
	"github.com/fitsync/fitsync/internal/models"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// newTestDB opens an in-memory SQLite database with the full schema and
// installs it as the package-wide database.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&models.User{},
		&models.Connection{},
		&models.Workout{},
		&models.Exercise{},
		&models.WorkoutPartner{},
	)
	require.NoError(t, err)

	database.SetDB(db)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	return db
}

func createTestUser(t *testing.T, db *gorm.DB, name, email, gym, style string) *models.User {
	t.Helper()

	user := &models.User{
		Name:          name,
		Email:         email,
		PasswordHash:  "hashedpassword",
		Gym:           gym,
		TrainingStyle: style,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func createTestConnection(t *testing.T, db *gorm.DB, owner, linked *models.User, autoAdded bool) *models.Connection {
	t.Helper()

	conn := &models.Connection{
		UserID:        owner.ID,
		LinkedUserID:  linked.ID,
		Partner:       models.PartnerSnapshot{Name: linked.Name, Email: linked.Email},
		Gym:           owner.Gym,
		TrainingStyle: owner.TrainingStyle,
		AddedByUserID: owner.ID,
		AddedBy:       models.PartnerSnapshot{Name: owner.Name, Email: owner.Email},
		AutoAdded:     autoAdded,
	}
	require.NoError(t, db.Create(conn).Error)
	return conn
}

func createTestWorkout(t *testing.T, db *gorm.DB, owner *models.User, date time.Time, muscleGroup, workoutType string, connectionIDs ...uint64) *models.Workout {
	t.Helper()

	workout := &models.Workout{
		UserID:          owner.ID,
		Date:            date,
		MuscleGroup:     muscleGroup,
		Type:            workoutType,
		DurationMinutes: 60,
	}
	for i, id := range connectionIDs {
		workout.Partners = append(workout.Partners, models.WorkoutPartner{
			ConnectionID: id,
			Position:     i,
		})
	}
	require.NoError(t, db.Create(workout).Error)
	return workout
}

// authContext builds a gin context carrying an authenticated user, the way
// RequireAuth leaves it.
func authContext(method, url string, body []byte, userID uint64) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	var req *http.Request
	if body != nil {
		req = httptest.NewRequest(method, url, bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, url, nil)
	}

	c, _ := gin.CreateTestContext(w)
	c.Request = req
	if userID != 0 {
		c.Set(constants.SessionKeyUserID, userID)
	}

	return c, w
}

// setIDParam simulates the :id route parameter.
func setIDParam(c *gin.Context, id uint64) {
	c.Params = gin.Params{{Key: "id", Value: strconv.FormatUint(id, 10)}}
}
