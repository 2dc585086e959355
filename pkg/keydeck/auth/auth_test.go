package auth

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/keydeck/keydeck/pkg/keydeck/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}
	models.AutoMigrate(db)
	return db
}

func newTestTokens() *TokenService {
	return NewTokenService("test-secret", DefaultTokenTTL)
}

func setupTestRouter(db *gorm.DB, tokens *TokenService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handler := NewHandler(db, tokens)
	handler.RegisterRoutes(r.Group("/api/auth"))
	return r
}

func postJSON(router *gin.Engine, path string, body interface{}) *httptest.ResponseRecorder {
	jsonBody, _ := json.Marshal(body)
	req, _ := http.NewRequest("POST", path, bytes.NewBuffer(jsonBody))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	return resp
}

func registerUser(t *testing.T, router *gin.Engine, username, email, password string) string {
	resp := postJSON(router, "/api/auth/register", RegisterRequest{
		Username: username,
		Email:    email,
		Password: password,
	})
	if resp.Code != http.StatusOK {
		t.Fatalf("Failed to register user: %d %s", resp.Code, resp.Body.String())
	}

	var body TokenResponse
	json.Unmarshal(resp.Body.Bytes(), &body)
	return body.Token
}

func TestPasswordHashing(t *testing.T) {
	password := "testpassword123"

	hash, err := HashPassword(password)
	if err != nil {
		t.Fatalf("HashPassword failed: %v", err)
	}

	if hash == password {
		t.Error("Hash should not equal plain password")
	}

	if !CheckPassword(password, hash) {
		t.Error("CheckPassword should return true for correct password")
	}

	if CheckPassword("wrongpassword", hash) {
		t.Error("CheckPassword should return false for incorrect password")
	}
}

func TestIssueAndVerify(t *testing.T) {
	tokens := newTestTokens()

	token, err := tokens.Issue("user-123")
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	userID, err := tokens.Verify(token)
	if err != nil {
		t.Fatalf("Verify failed: %v", err)
	}

	if userID != "user-123" {
		t.Errorf("Expected user ID user-123, got %s", userID)
	}
}

func TestVerifyWrongSecret(t *testing.T) {
	token, err := newTestTokens().Issue("user-123")
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	other := NewTokenService("a-different-secret", DefaultTokenTTL)
	if _, err := other.Verify(token); err != ErrInvalidToken {
		t.Errorf("Expected ErrInvalidToken for wrong secret, got %v", err)
	}
}

func TestVerifyExpiredToken(t *testing.T) {
	expired := NewTokenService("test-secret", -time.Second)

	token, err := expired.Issue("user-123")
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	if _, err := expired.Verify(token); err != ErrExpiredToken {
		t.Errorf("Expected ErrExpiredToken, got %v", err)
	}
}

func TestVerifyMalformedToken(t *testing.T) {
	if _, err := newTestTokens().Verify("invalid-token"); err != ErrInvalidToken {
		t.Errorf("Expected ErrInvalidToken, got %v", err)
	}
}

func TestRegister(t *testing.T) {
	db := setupTestDB(t)
	tokens := newTestTokens()
	router := setupTestRouter(db, tokens)

	token := registerUser(t, router, "alice", "alice@example.com", "password123")
	if token == "" {
		t.Fatal("Expected a token in the register response")
	}

	// The issued token must resolve to the stored user
	userID, err := tokens.Verify(token)
	if err != nil {
		t.Fatalf("Issued token failed verification: %v", err)
	}

	var user models.User
	if err := db.First(&user, "id = ?", userID).Error; err != nil {
		t.Fatalf("Registered user not found in store: %v", err)
	}

	if user.Username != "alice" {
		t.Errorf("Expected username alice, got %s", user.Username)
	}

	if user.PasswordHash == "password123" {
		t.Error("Password must not be stored in plaintext")
	}
}

func TestRegisterValidation(t *testing.T) {
	db := setupTestDB(t)
	router := setupTestRouter(db, newTestTokens())

	cases := []struct {
		name string
		req  RegisterRequest
	}{
		{"short username", RegisterRequest{Username: "ab", Email: "ab@example.com", Password: "password123"}},
		{"malformed email", RegisterRequest{Username: "alice", Email: "not-an-email", Password: "password123"}},
		{"short password", RegisterRequest{Username: "alice", Email: "alice@example.com", Password: "12345"}},
	}

	for _, tc := range cases {
		resp := postJSON(router, "/api/auth/register", tc.req)
		if resp.Code != http.StatusBadRequest {
			t.Errorf("%s: expected status 400, got %d", tc.name, resp.Code)
		}
	}
}

func TestRegisterDuplicate(t *testing.T) {
	db := setupTestDB(t)
	router := setupTestRouter(db, newTestTokens())

	registerUser(t, router, "alice", "alice@example.com", "password123")

	// Same username, different email
	resp := postJSON(router, "/api/auth/register", RegisterRequest{
		Username: "alice", Email: "other@example.com", Password: "password123",
	})
	if resp.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400 for duplicate username, got %d", resp.Code)
	}

	// Same email, different username
	resp = postJSON(router, "/api/auth/register", RegisterRequest{
		Username: "bob", Email: "alice@example.com", Password: "password123",
	})
	if resp.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400 for duplicate email, got %d", resp.Code)
	}
}

func TestLogin(t *testing.T) {
	db := setupTestDB(t)
	tokens := newTestTokens()
	router := setupTestRouter(db, tokens)

	registerUser(t, router, "alice", "alice@example.com", "password123")

	resp := postJSON(router, "/api/auth/login", LoginRequest{Username: "alice", Password: "password123"})
	if resp.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", resp.Code, resp.Body.String())
	}

	var body TokenResponse
	json.Unmarshal(resp.Body.Bytes(), &body)
	if _, err := tokens.Verify(body.Token); err != nil {
		t.Errorf("Login token failed verification: %v", err)
	}
}

func TestLoginFailuresAreIndistinguishable(t *testing.T) {
	db := setupTestDB(t)
	router := setupTestRouter(db, newTestTokens())

	registerUser(t, router, "alice", "alice@example.com", "password123")

	wrongPassword := postJSON(router, "/api/auth/login", LoginRequest{Username: "alice", Password: "wrongpassword"})
	unknownUser := postJSON(router, "/api/auth/login", LoginRequest{Username: "nobody", Password: "password123"})

	if wrongPassword.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400 for wrong password, got %d", wrongPassword.Code)
	}
	if unknownUser.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400 for unknown username, got %d", unknownUser.Code)
	}

	// No signal may distinguish an unknown username from a wrong password
	if wrongPassword.Body.String() != unknownUser.Body.String() {
		t.Errorf("Login failure responses differ: %s vs %s",
			wrongPassword.Body.String(), unknownUser.Body.String())
	}
}

func TestMe(t *testing.T) {
	db := setupTestDB(t)
	router := setupTestRouter(db, newTestTokens())

	token := registerUser(t, router, "alice", "alice@example.com", "password123")

	req, _ := http.NewRequest("GET", "/api/auth/me", nil)
	req.Header.Set(TokenHeader, token)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", resp.Code, resp.Body.String())
	}

	var body map[string]interface{}
	json.Unmarshal(resp.Body.Bytes(), &body)

	if body["username"] != "alice" {
		t.Errorf("Expected username alice, got %v", body["username"])
	}

	// The password hash must never appear in the response
	if _, ok := body["passwordHash"]; ok {
		t.Error("Response must not contain the password hash")
	}
	if _, ok := body["password"]; ok {
		t.Error("Response must not contain a password field")
	}
}

func TestMeUnauthorized(t *testing.T) {
	db := setupTestDB(t)
	router := setupTestRouter(db, newTestTokens())

	// No token at all
	req, _ := http.NewRequest("GET", "/api/auth/me", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Errorf("Expected status 401 without token, got %d", resp.Code)
	}

	// Garbage token
	req, _ = http.NewRequest("GET", "/api/auth/me", nil)
	req.Header.Set(TokenHeader, "not-a-token")
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Errorf("Expected status 401 with invalid token, got %d", resp.Code)
	}
}
