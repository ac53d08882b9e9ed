package handlers

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/fitsync/fitsync/internal/models"
	"github.com/fitsync/fitsync/internal/repository"
	"github.com/fitsync/fitsync/internal/services"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"
)

// ConnectionHandlerTestSuite defines the test suite for ConnectionHandler
type ConnectionHandlerTestSuite struct {
	suite.Suite
	db      *gorm.DB
	handler *ConnectionHandler
}

// SetupTest runs before each test
func (suite *ConnectionHandlerTestSuite) SetupTest() {
	suite.db = newTestDB(suite.T())

	connRepo := repository.NewConnectionRepository(suite.db)
	userRepo := repository.NewUserRepository(suite.db)
	workoutRepo := repository.NewWorkoutRepository(suite.db)
	suite.handler = NewConnectionHandler(services.NewConnectionService(connRepo, userRepo, workoutRepo))

	gin.SetMode(gin.TestMode)
}

func (suite *ConnectionHandlerTestSuite) createUsers() (*models.User, *models.User) {
	alice := createTestUser(suite.T(), suite.db, "Alice", "alice@example.com", "Iron Temple", "powerlifting")
	bob := createTestUser(suite.T(), suite.db, "Bob", "bob@example.com", "City Gym", "bodybuilding")
	return alice, bob
}

// TestCreateConnection_Success tests adding a connection and its mirror
func (suite *ConnectionHandlerTestSuite) TestCreateConnection_Success() {
	alice, bob := suite.createUsers()

	requestBody := map[string]interface{}{
		"email":          "bob@example.com",
		"gym":            "Iron Temple",
		"training_style": "powerlifting",
		"how_met":        "gym",
	}
	body, _ := json.Marshal(requestBody)

	c, w := authContext("POST", "/api/connections", body, alice.ID)

	suite.handler.CreateConnection(c)

	assert.Equal(suite.T(), http.StatusCreated, w.Code)

	var response map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), "Bob", response["name"])
	assert.Equal(suite.T(), "bob@example.com", response["email"])

	// Alice's own record points at Bob
	var aliceSide models.Connection
	err = suite.db.Where("user_id = ? AND linked_user_id = ?", alice.ID, bob.ID).First(&aliceSide).Error
	assert.NoError(suite.T(), err)
	assert.False(suite.T(), aliceSide.AutoAdded)
	assert.Equal(suite.T(), alice.ID, aliceSide.AddedByUserID)

	// The mirror lives on Bob's side with Bob's own profile defaults
	var bobSide models.Connection
	err = suite.db.Where("user_id = ? AND linked_user_id = ?", bob.ID, alice.ID).First(&bobSide).Error
	assert.NoError(suite.T(), err)
	assert.True(suite.T(), bobSide.AutoAdded)
	assert.Equal(suite.T(), "Alice", bobSide.Partner.Name)
	assert.Equal(suite.T(), "City Gym", bobSide.Gym)
	assert.Equal(suite.T(), "bodybuilding", bobSide.TrainingStyle)
	assert.Equal(suite.T(), alice.ID, bobSide.AddedByUserID)
}

// TestCreateConnection_MirrorKeepsExistingRecord tests that a pre-existing
// reverse record is left alone
func (suite *ConnectionHandlerTestSuite) TestCreateConnection_MirrorKeepsExistingRecord() {
	alice, bob := suite.createUsers()

	existing := createTestConnection(suite.T(), suite.db, bob, alice, false)
	suite.db.Model(existing).Update("notes", "my training notes")

	requestBody := map[string]interface{}{
		"email":          "bob@example.com",
		"gym":            "Iron Temple",
		"training_style": "powerlifting",
	}
	body, _ := json.Marshal(requestBody)

	c, w := authContext("POST", "/api/connections", body, alice.ID)

	suite.handler.CreateConnection(c)

	assert.Equal(suite.T(), http.StatusCreated, w.Code)

	var bobSide []models.Connection
	suite.db.Where("user_id = ?", bob.ID).Find(&bobSide)
	assert.Len(suite.T(), bobSide, 1)
	assert.Equal(suite.T(), "my training notes", bobSide[0].Notes)
	assert.False(suite.T(), bobSide[0].AutoAdded)
}

// TestCreateConnection_Self tests connecting to yourself
func (suite *ConnectionHandlerTestSuite) TestCreateConnection_Self() {
	alice, _ := suite.createUsers()

	requestBody := map[string]interface{}{
		"email":          "alice@example.com",
		"gym":            "Iron Temple",
		"training_style": "powerlifting",
	}
	body, _ := json.Marshal(requestBody)

	c, w := authContext("POST", "/api/connections", body, alice.ID)

	suite.handler.CreateConnection(c)

	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)

	var response map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), "INVALID_OPERATION", response["code"])
}

// TestCreateConnection_Duplicate tests adding the same partner twice
func (suite *ConnectionHandlerTestSuite) TestCreateConnection_Duplicate() {
	alice, bob := suite.createUsers()
	createTestConnection(suite.T(), suite.db, alice, bob, false)

	requestBody := map[string]interface{}{
		"email":          "bob@example.com",
		"gym":            "Iron Temple",
		"training_style": "powerlifting",
	}
	body, _ := json.Marshal(requestBody)

	c, w := authContext("POST", "/api/connections", body, alice.ID)

	suite.handler.CreateConnection(c)

	assert.Equal(suite.T(), http.StatusConflict, w.Code)
}

// TestCreateConnection_UnknownEmail tests adding a non-registered partner
func (suite *ConnectionHandlerTestSuite) TestCreateConnection_UnknownEmail() {
	alice, _ := suite.createUsers()

	requestBody := map[string]interface{}{
		"email":          "nobody@example.com",
		"gym":            "Iron Temple",
		"training_style": "powerlifting",
	}
	body, _ := json.Marshal(requestBody)

	c, w := authContext("POST", "/api/connections", body, alice.ID)

	suite.handler.CreateConnection(c)

	assert.Equal(suite.T(), http.StatusNotFound, w.Code)
}

// TestCreateConnection_MissingFields tests creation with missing required fields
func (suite *ConnectionHandlerTestSuite) TestCreateConnection_MissingFields() {
	alice, _ := suite.createUsers()

	requestBody := map[string]interface{}{
		"email": "bob@example.com",
	}
	body, _ := json.Marshal(requestBody)

	c, w := authContext("POST", "/api/connections", body, alice.ID)

	suite.handler.CreateConnection(c)

	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)
}

// TestListConnections_Filters tests filtered listing
func (suite *ConnectionHandlerTestSuite) TestListConnections_Filters() {
	alice, bob := suite.createUsers()
	carol := createTestUser(suite.T(), suite.db, "Carol", "carol@example.com", "Iron Temple", "crossfit")
	createTestConnection(suite.T(), suite.db, alice, bob, false)
	conn := createTestConnection(suite.T(), suite.db, alice, carol, false)
	suite.db.Model(conn).Updates(map[string]interface{}{"gym": "Dockside Barbell", "training_style": "crossfit"})

	c, w := authContext("GET", "/api/connections", nil, alice.ID)
	c.Request.URL.RawQuery = "training_style=crossfit"

	suite.handler.ListConnections(c)

	assert.Equal(suite.T(), http.StatusOK, w.Code)

	var response map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(suite.T(), err)

	conns := response["connections"].([]interface{})
	assert.Len(suite.T(), conns, 1)
	first := conns[0].(map[string]interface{})
	assert.Equal(suite.T(), "Carol", first["name"])
}

// TestListConnections_Search tests free-text search across the ledger columns
func (suite *ConnectionHandlerTestSuite) TestListConnections_Search() {
	alice, bob := suite.createUsers()
	carol := createTestUser(suite.T(), suite.db, "Carol", "carol@example.com", "Iron Temple", "crossfit")
	createTestConnection(suite.T(), suite.db, alice, bob, false)
	conn := createTestConnection(suite.T(), suite.db, alice, carol, false)
	suite.db.Model(conn).Update("notes", "met at the Deadlift Open")

	// Partner name, case-insensitively
	c, w := authContext("GET", "/api/connections", nil, alice.ID)
	c.Request.URL.RawQuery = "search=BOB"

	suite.handler.ListConnections(c)

	assert.Equal(suite.T(), http.StatusOK, w.Code)

	var response map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(suite.T(), err)

	conns := response["connections"].([]interface{})
	assert.Len(suite.T(), conns, 1)
	assert.Equal(suite.T(), "Bob", conns[0].(map[string]interface{})["name"])

	// Notes
	c, w = authContext("GET", "/api/connections", nil, alice.ID)
	c.Request.URL.RawQuery = "search=deadlift"

	suite.handler.ListConnections(c)

	assert.Equal(suite.T(), http.StatusOK, w.Code)

	err = json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(suite.T(), err)

	conns = response["connections"].([]interface{})
	assert.Len(suite.T(), conns, 1)
	assert.Equal(suite.T(), "Carol", conns[0].(map[string]interface{})["name"])
}

// TestUpdateConnection_AnnotationsOnly tests that updates touch only the
// caller's annotations, never the partner identity
func (suite *ConnectionHandlerTestSuite) TestUpdateConnection_AnnotationsOnly() {
	alice, bob := suite.createUsers()
	conn := createTestConnection(suite.T(), suite.db, alice, bob, false)

	requestBody := map[string]interface{}{
		"notes":   "prefers morning sessions",
		"how_met": "competition",
	}
	body, _ := json.Marshal(requestBody)

	c, w := authContext("PUT", "/api/connections/1", body, alice.ID)
	setIDParam(c, conn.ID)

	suite.handler.UpdateConnection(c)

	assert.Equal(suite.T(), http.StatusOK, w.Code)

	var updated models.Connection
	suite.db.First(&updated, conn.ID)
	assert.Equal(suite.T(), "prefers morning sessions", updated.Notes)
	assert.Equal(suite.T(), "competition", updated.HowMet)
	assert.Equal(suite.T(), "Bob", updated.Partner.Name)
	assert.Equal(suite.T(), bob.ID, updated.LinkedUserID)
}

// TestUpdateConnection_NotOwned tests updating someone else's record
func (suite *ConnectionHandlerTestSuite) TestUpdateConnection_NotOwned() {
	alice, bob := suite.createUsers()
	conn := createTestConnection(suite.T(), suite.db, bob, alice, false)

	requestBody := map[string]interface{}{"notes": "sneaky"}
	body, _ := json.Marshal(requestBody)

	c, w := authContext("PUT", "/api/connections/1", body, alice.ID)
	setIDParam(c, conn.ID)

	suite.handler.UpdateConnection(c)

	assert.Equal(suite.T(), http.StatusNotFound, w.Code)
}

// TestDeleteConnection_RemovesBothSides tests the two-sided removal
func (suite *ConnectionHandlerTestSuite) TestDeleteConnection_RemovesBothSides() {
	alice, bob := suite.createUsers()
	conn := createTestConnection(suite.T(), suite.db, alice, bob, false)
	createTestConnection(suite.T(), suite.db, bob, alice, true)

	c, w := authContext("DELETE", "/api/connections/1", nil, alice.ID)
	setIDParam(c, conn.ID)

	suite.handler.DeleteConnection(c)

	assert.Equal(suite.T(), http.StatusOK, w.Code)

	var count int64
	suite.db.Model(&models.Connection{}).Count(&count)
	assert.Equal(suite.T(), int64(0), count)
}

// TestDeleteConnection_NotOwned tests deleting a record the caller does not own
func (suite *ConnectionHandlerTestSuite) TestDeleteConnection_NotOwned() {
	alice, bob := suite.createUsers()
	conn := createTestConnection(suite.T(), suite.db, bob, alice, false)

	c, w := authContext("DELETE", "/api/connections/1", nil, alice.ID)
	setIDParam(c, conn.ID)

	suite.handler.DeleteConnection(c)

	assert.Equal(suite.T(), http.StatusNotFound, w.Code)

	var count int64
	suite.db.Model(&models.Connection{}).Count(&count)
	assert.Equal(suite.T(), int64(1), count)
}

// TestGetConnection_WithWorkouts tests the detail view including tagged workouts
func (suite *ConnectionHandlerTestSuite) TestGetConnection_WithWorkouts() {
	alice, bob := suite.createUsers()
	conn := createTestConnection(suite.T(), suite.db, alice, bob, false)
	createTestWorkout(suite.T(), suite.db, alice, time.Date(2024, 1, 8, 0, 0, 0, 0, time.UTC), "chest", "strength", conn.ID)

	c, w := authContext("GET", "/api/connections/1", nil, alice.ID)
	setIDParam(c, conn.ID)

	suite.handler.GetConnection(c)

	assert.Equal(suite.T(), http.StatusOK, w.Code)

	var response map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(suite.T(), err)
	assert.Contains(suite.T(), response, "connection")

	workouts := response["workouts"].([]interface{})
	assert.Len(suite.T(), workouts, 1)
}

// TestLookupUser_Success tests the pre-add lookup
func (suite *ConnectionHandlerTestSuite) TestLookupUser_Success() {
	alice, _ := suite.createUsers()

	c, w := authContext("GET", "/api/connections/lookup", nil, alice.ID)
	c.Request.URL.RawQuery = "email=bob@example.com"

	suite.handler.LookupUser(c)

	assert.Equal(suite.T(), http.StatusOK, w.Code)

	var response map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), "Bob", response["name"])
}

// TestLookupUser_AlreadyConnected tests lookup of an existing partner
func (suite *ConnectionHandlerTestSuite) TestLookupUser_AlreadyConnected() {
	alice, bob := suite.createUsers()
	createTestConnection(suite.T(), suite.db, alice, bob, false)

	c, w := authContext("GET", "/api/connections/lookup", nil, alice.ID)
	c.Request.URL.RawQuery = "email=bob@example.com"

	suite.handler.LookupUser(c)

	assert.Equal(suite.T(), http.StatusConflict, w.Code)
}

// TestLookupUser_MissingEmail tests lookup without the email parameter
func (suite *ConnectionHandlerTestSuite) TestLookupUser_MissingEmail() {
	alice, _ := suite.createUsers()

	c, w := authContext("GET", "/api/connections/lookup", nil, alice.ID)

	suite.handler.LookupUser(c)

	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)
}

// TestConnectionStats tests grouped counts over the ledger
func (suite *ConnectionHandlerTestSuite) TestConnectionStats() {
	alice, bob := suite.createUsers()
	carol := createTestUser(suite.T(), suite.db, "Carol", "carol@example.com", "Iron Temple", "crossfit")
	createTestConnection(suite.T(), suite.db, alice, bob, false)
	createTestConnection(suite.T(), suite.db, alice, carol, false)

	c, w := authContext("GET", "/api/connections/stats", nil, alice.ID)

	suite.handler.ConnectionStats(c)

	assert.Equal(suite.T(), http.StatusOK, w.Code)

	var response map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), float64(2), response["total"])
	assert.Contains(suite.T(), response, "by_gym")
	assert.Contains(suite.T(), response, "by_style")
}

// TestListConnections_Unauthorized tests listing without authentication
func (suite *ConnectionHandlerTestSuite) TestListConnections_Unauthorized() {
	c, w := authContext("GET", "/api/connections", nil, 0)

	suite.handler.ListConnections(c)

	assert.Equal(suite.T(), http.StatusUnauthorized, w.Code)
}

func TestConnectionHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(ConnectionHandlerTestSuite))
}
