package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"reviewhub/internal/dto"
	"reviewhub/internal/models"
	"reviewhub/internal/service"
)

// MockAuthService mocks the AuthService interface
type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Signup(ctx context.Context, username, email string) (*models.User, error) {
	args := m.Called(ctx, username, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockAuthService) IssueToken(ctx context.Context, username, code string) (string, error) {
	args := m.Called(ctx, username, code)
	return args.String(0), args.Error(1)
}

func (m *MockAuthService) ValidateToken(tokenString string) (int64, error) {
	args := m.Called(tokenString)
	return args.Get(0).(int64), args.Error(1)
}

func setupRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	return gin.New()
}

func postJSON(router *gin.Engine, path string, payload any) *httptest.ResponseRecorder {
	body, _ := json.Marshal(payload)
	req, _ := http.NewRequest(http.MethodPost, path, bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestSignup_Success(t *testing.T) {
	mockAuth := new(MockAuthService)
	router := setupRouter()
	NewAuthHandler(mockAuth).RegisterRoutes(router.Group("/api/v1"))

	user := &models.User{ID: 1, Username: "testuser", Email: "test@example.com"}
	mockAuth.On("Signup", mock.Anything, "testuser", "test@example.com").Return(user, nil)

	w := postJSON(router, "/api/v1/auth/signup", dto.SignupRequest{
		Username: "testuser",
		Email:    "test@example.com",
	})

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]string
	json.Unmarshal(w.Body.Bytes(), &response)
	assert.Equal(t, "testuser", response["username"])
	assert.Equal(t, "test@example.com", response["email"])
	mockAuth.AssertExpectations(t)
}

func TestSignup_MissingEmail(t *testing.T) {
	mockAuth := new(MockAuthService)
	router := setupRouter()
	NewAuthHandler(mockAuth).RegisterRoutes(router.Group("/api/v1"))

	w := postJSON(router, "/api/v1/auth/signup", map[string]string{"username": "testuser"})

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var response struct {
		Errors map[string]string `json:"errors"`
	}
	json.Unmarshal(w.Body.Bytes(), &response)
	assert.Contains(t, response.Errors, "email")
	mockAuth.AssertNotCalled(t, "Signup")
}

func TestSignup_MalformedBody(t *testing.T) {
	mockAuth := new(MockAuthService)
	router := setupRouter()
	NewAuthHandler(mockAuth).RegisterRoutes(router.Group("/api/v1"))

	req, _ := http.NewRequest(http.MethodPost, "/api/v1/auth/signup", bytes.NewBufferString("{not json"))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	// the response never echoes the request body
	assert.NotContains(t, w.Body.String(), "not json")
}

func TestSignup_UsernameTaken(t *testing.T) {
	mockAuth := new(MockAuthService)
	router := setupRouter()
	NewAuthHandler(mockAuth).RegisterRoutes(router.Group("/api/v1"))

	mockAuth.On("Signup", mock.Anything, "testuser", "test@example.com").
		Return(nil, service.ErrUsernameTaken)

	w := postJSON(router, "/api/v1/auth/signup", dto.SignupRequest{
		Username: "testuser",
		Email:    "test@example.com",
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var response struct {
		Errors map[string]string `json:"errors"`
	}
	json.Unmarshal(w.Body.Bytes(), &response)
	assert.Contains(t, response.Errors, "username")
}

func TestToken_Success(t *testing.T) {
	mockAuth := new(MockAuthService)
	router := setupRouter()
	NewAuthHandler(mockAuth).RegisterRoutes(router.Group("/api/v1"))

	mockAuth.On("IssueToken", mock.Anything, "testuser", "the-code").Return("signed.jwt.token", nil)

	w := postJSON(router, "/api/v1/auth/token", dto.TokenRequest{
		Username:         "testuser",
		ConfirmationCode: "the-code",
	})

	assert.Equal(t, http.StatusOK, w.Code)

	var response dto.TokenResponse
	json.Unmarshal(w.Body.Bytes(), &response)
	assert.Equal(t, "signed.jwt.token", response.Token)
}

func TestToken_UnknownUser(t *testing.T) {
	mockAuth := new(MockAuthService)
	router := setupRouter()
	NewAuthHandler(mockAuth).RegisterRoutes(router.Group("/api/v1"))

	mockAuth.On("IssueToken", mock.Anything, "ghost", "any").Return("", service.ErrUserNotFound)

	w := postJSON(router, "/api/v1/auth/token", dto.TokenRequest{
		Username:         "ghost",
		ConfirmationCode: "any",
	})

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestToken_WrongCode(t *testing.T) {
	mockAuth := new(MockAuthService)
	router := setupRouter()
	NewAuthHandler(mockAuth).RegisterRoutes(router.Group("/api/v1"))

	mockAuth.On("IssueToken", mock.Anything, "testuser", "wrong").Return("", service.ErrInvalidCode)

	w := postJSON(router, "/api/v1/auth/token", dto.TokenRequest{
		Username:         "testuser",
		ConfirmationCode: "wrong",
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var response struct {
		Errors map[string]string `json:"errors"`
	}
	json.Unmarshal(w.Body.Bytes(), &response)
	assert.Contains(t, response.Errors, "confirmation_code")
}
