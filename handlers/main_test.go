package handlers

import (
	"bytes"
	"encoding/json"
	"fintrack-backend/config"
	"fintrack-backend/database"
	"fintrack-backend/middleware"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type testServer struct {
	t      *testing.T
	router *gin.Engine
	token  string
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)
	config.AppConfig = &config.Config{
		JWTSecret:       "test-secret",
		AccessTokenTTL:  time.Minute,
		RefreshTokenTTL: time.Hour,
		AppName:         "FinTrack",
	}

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })
	require.NoError(t, database.Migrate(db))
	database.DB = db

	r := gin.New()
	auth := r.Group("/auth")
	auth.POST("/register", Register)
	auth.POST("/login", Login)
	auth.POST("/refresh", Refresh)

	api := r.Group("/api", middleware.AuthRequired())
	api.GET("/users/me", GetProfile)
	api.PUT("/users/me/fcm-token", UpdateFCMToken)
	api.POST("/debts", CreateDebt)
	api.GET("/debts", GetDebts)
	api.GET("/debts/pending", GetPendingDebts)
	api.GET("/debts/summary", GetDebtSummary)
	api.GET("/debts/:id", GetDebt)
	api.PUT("/debts/:id", UpdateDebt)
	api.POST("/debts/:id/settle", SettleDebt)
	api.POST("/emis", CreateEMI)
	api.GET("/installments", GetInstallments)
	api.POST("/installments/:id/mark_paid", MarkInstallmentPaid)
	api.POST("/categories", CreateCategory)
	api.POST("/items", CreateItem)
	api.POST("/daily-expenses", CreateDailyExpense)
	api.GET("/daily-expenses/tabular_report", GetTabularReport)
	api.GET("/daily-expenses/:date", GetDailyExpense)
	api.POST("/daily-expenses/:date/add_item", AddExpenseItem)
	api.GET("/activity", GetActivity)

	return &testServer{t: t, router: r}
}

func (s *testServer) do(method, path string, body interface{}) (int, envelope) {
	s.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(s.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if s.token != "" {
		req.Header.Set("Authorization", "Bearer "+s.token)
	}

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	var env envelope
	require.NoError(s.t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return w.Code, env
}

// login registers a user and authenticates subsequent requests as them.
func (s *testServer) login(username string) {
	s.t.Helper()
	code, _ := s.do(http.MethodPost, "/auth/register", gin.H{
		"username": username,
		"email":    username + "@example.com",
		"password": "secret123",
	})
	require.Equal(s.t, http.StatusCreated, code)

	code, env := s.do(http.MethodPost, "/auth/login", gin.H{"username": username, "password": "secret123"})
	require.Equal(s.t, http.StatusOK, code)
	var tokens AuthResponse
	require.NoError(s.t, json.Unmarshal(env.Data, &tokens))
	s.token = tokens.Access
}

func decode(t *testing.T, env envelope, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(env.Data, v))
}

