package integration

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"fintrack/internal/google"
	"fintrack/internal/handlers"
	"fintrack/internal/logger"
	"fintrack/internal/middleware"
	"fintrack/internal/models"
	"fintrack/internal/services"
	"fintrack/internal/validator"
)

// testApp holds the full application stack for integration tests.
type testApp struct {
	DB     *gorm.DB
	Router *gin.Engine
}

// dbCounter ensures each test gets a unique in-memory database.
var dbCounter atomic.Int64

func init() {
	gin.SetMode(gin.TestMode)
	logger.Init("test")
	validator.Register()
}

// setupIsolatedDB creates an isolated in-memory SQLite database for a single test.
func setupIsolatedDB(t *testing.T) *gorm.DB {
	t.Helper()

	n := dbCounter.Add(1)
	dsn := fmt.Sprintf("file:integrationdb%d?mode=memory&cache=shared", n)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	allModels := []interface{}{
		&models.User{},
		&models.UserProfile{},
		&models.Transaction{},
		&models.Badge{},
		&models.AuditLog{},
	}
	if err := db.AutoMigrate(allModels...); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return db
}

// setupApp creates a full application stack backed by an isolated in-memory
// SQLite, with Google token verification pointed at the given endpoint. An
// empty verifierURL wires a verifier that cannot succeed, which is fine for
// tests that never exercise Google sign-in.
func setupApp(t *testing.T, verifierURL string) *testApp {
	t.Helper()

	db := setupIsolatedDB(t)

	// Services
	userService := services.NewUserService(db)
	profileService := services.NewProfileService(db)
	transactionService := services.NewTransactionService(db)
	badgeService := services.NewBadgeService(db)
	auditService := services.NewAuditService(db)
	verifier := google.NewVerifier(verifierURL, time.Second)

	// Handlers
	authHandler := handlers.NewAuthHandler(userService, auditService, verifier)
	profileHandler := handlers.NewProfileHandler(profileService, auditService)
	transactionHandler := handlers.NewTransactionHandler(transactionService, auditService)
	badgeHandler := handlers.NewBadgeHandler(badgeService, auditService)

	// Router mirrors the production route table.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.ErrorHandler())

	router.POST("/register/", authHandler.Register)
	router.POST("/login/", authHandler.Login)
	router.POST("/google/", authHandler.GoogleLogin)
	router.POST("/refresh/", authHandler.Refresh)

	protected := router.Group("/")
	protected.Use(middleware.AuthMiddleware())

	protected.GET("/me/", authHandler.Me)

	protected.GET("/profile/", profileHandler.GetProfile)
	protected.PATCH("/profile/", profileHandler.UpdateProfile)

	protected.GET("/transactions/", transactionHandler.GetUserTransactions)
	protected.POST("/transactions/", transactionHandler.CreateTransaction)
	protected.GET("/transactions/summary/", transactionHandler.GetSummary)
	protected.GET("/transactions/:id/", transactionHandler.GetTransactionByID)
	protected.PUT("/transactions/:id/", transactionHandler.UpdateTransaction)
	protected.PATCH("/transactions/:id/", transactionHandler.PatchTransaction)
	protected.DELETE("/transactions/:id/", transactionHandler.DeleteTransaction)

	protected.GET("/badges/", badgeHandler.GetUserBadges)
	protected.POST("/badges/", badgeHandler.CreateBadge)
	protected.GET("/badges/:id/", badgeHandler.GetBadgeByID)
	protected.PUT("/badges/:id/", badgeHandler.UpdateBadge)
	protected.PATCH("/badges/:id/", badgeHandler.UpdateBadge)
	protected.DELETE("/badges/:id/", badgeHandler.DeleteBadge)

	return &testApp{DB: db, Router: router}
}

// request makes an HTTP request to the test router and returns the recorder.
func (app *testApp) request(method, path, body, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	app.Router.ServeHTTP(rec, req)
	return rec
}

// parseJSON parses the response body into a map.
func parseJSON(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var result map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse JSON: %v\nbody: %s", err, rec.Body.String())
	}
	return result
}

// errorCode extracts the error code from an error response body.
func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	result := parseJSON(t, rec)
	errObj, ok := result["error"].(map[string]interface{})
	if !ok {
		t.Fatalf("expected error object in body: %s", rec.Body.String())
	}
	code, _ := errObj["code"].(string)
	return code
}

// registerUser registers a new user and returns the user ID.
func (app *testApp) registerUser(t *testing.T, username, password string) (userID string) {
	t.Helper()
	body := fmt.Sprintf(`{"username":%q,"email":"%s@test.com","password":%q,"first_name":"Test","last_name":"User"}`,
		username, username, password)
	rec := app.request("POST", "/register/", body, "")
	if rec.Code != http.StatusCreated {
		t.Fatalf("register failed: %d %s", rec.Code, rec.Body.String())
	}
	result := parseJSON(t, rec)
	user := result["user"].(map[string]interface{})
	return user["id"].(string)
}

// loginUser logs in and returns the access and refresh tokens.
func (app *testApp) loginUser(t *testing.T, username, password string) (accessToken, refreshToken string) {
	t.Helper()
	body := fmt.Sprintf(`{"username":%q,"password":%q}`, username, password)
	rec := app.request("POST", "/login/", body, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("login failed: %d %s", rec.Code, rec.Body.String())
	}
	result := parseJSON(t, rec)
	return result["access"].(string), result["refresh"].(string)
}

// registerAndLogin registers a user and returns an access token for them.
func (app *testApp) registerAndLogin(t *testing.T, username string) (accessToken string) {
	t.Helper()
	app.registerUser(t, username, "password123")
	access, _ := app.loginUser(t, username, "password123")
	return access
}
