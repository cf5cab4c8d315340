package controllers

import (
	"context"
	"net/http/httptest"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"

	"shortkey/internal/entities"
	"shortkey/internal/middleware"
	"shortkey/internal/models"
	"shortkey/internal/service"
	"shortkey/internal/workers"
)

func newTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	return gin.New()
}

// asUser simulates the identity middleware for an authenticated caller.
func asUser(id int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.UserIDKey, id)
	}
}

func performJSON(router *gin.Engine, method, target, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

type stubURLService struct {
	shortenResp *models.ShortenResponse
	shortenErr  error
	resolveURL  string
	resolveErr  error
	list        []*models.URLInfoResponse
	info        *models.URLInfoResponse
	infoErr     error
	deleteErr   error

	gotURL  string
	gotTTL  *int64
	gotUser int64
	gotCode string
}

func (s *stubURLService) Shorten(ctx context.Context, originalURL string, ttlSeconds *int64, userID int64) (*models.ShortenResponse, error) {
	s.gotURL, s.gotTTL, s.gotUser = originalURL, ttlSeconds, userID
	return s.shortenResp, s.shortenErr
}

func (s *stubURLService) Resolve(ctx context.Context, code string) (string, error) {
	s.gotCode = code
	return s.resolveURL, s.resolveErr
}

func (s *stubURLService) ListByUser(ctx context.Context, userID int64) ([]*models.URLInfoResponse, error) {
	s.gotUser = userID
	return s.list, nil
}

func (s *stubURLService) Info(ctx context.Context, code string) (*models.URLInfoResponse, error) {
	s.gotCode = code
	return s.info, s.infoErr
}

func (s *stubURLService) Delete(ctx context.Context, code string, userID int64) error {
	s.gotCode, s.gotUser = code, userID
	return s.deleteErr
}

type stubAuthService struct {
	registerResp *models.AuthResponse
	registerErr  error
	loginResp    *models.AuthResponse
	loginErr     error
	users        map[int64]*entities.User
}

func (s *stubAuthService) Register(ctx context.Context, req *models.RegisterRequest) (*models.AuthResponse, error) {
	return s.registerResp, s.registerErr
}

func (s *stubAuthService) Login(ctx context.Context, req *models.LoginRequest) (*models.AuthResponse, error) {
	return s.loginResp, s.loginErr
}

func (s *stubAuthService) GetUser(ctx context.Context, id int64) (*entities.User, error) {
	if user, ok := s.users[id]; ok {
		return user, nil
	}
	return nil, service.ErrNotFound
}

// authWithRoles builds a stub auth service backed by the given id-to-role map.
func authWithRoles(roles map[int64]string) *stubAuthService {
	users := make(map[int64]*entities.User, len(roles))
	for id, role := range roles {
		users[id] = &entities.User{ID: id, Role: role}
	}
	return &stubAuthService{users: users}
}

type stubAdminService struct {
	users     []*models.UserResponse
	deleteErr error

	gotCaller int64
	gotTarget int64
}

func (s *stubAdminService) ListUsers(ctx context.Context) ([]*models.UserResponse, error) {
	return s.users, nil
}

func (s *stubAdminService) DeleteUser(ctx context.Context, callerID, targetID int64) error {
	s.gotCaller, s.gotTarget = callerID, targetID
	return s.deleteErr
}

type stubAnalyticsService struct {
	summary *models.AnalyticsSummaryResponse
}

func (s *stubAnalyticsService) Summary(ctx context.Context) (*models.AnalyticsSummaryResponse, error) {
	return s.summary, nil
}

type stubTokenService struct {
	created *models.TokenResponse
	list    []*models.TokenResponse

	gotUser  int64
	gotLabel string
}

func (s *stubTokenService) Create(ctx context.Context, userID int64, label string) (*models.TokenResponse, error) {
	s.gotUser, s.gotLabel = userID, label
	return s.created, nil
}

func (s *stubTokenService) List(ctx context.Context, userID int64) ([]*models.TokenResponse, error) {
	s.gotUser = userID
	return s.list, nil
}

type stubRecorder struct {
	mu     sync.Mutex
	clicks []workers.Click
	drop   bool
}

func (r *stubRecorder) Record(click workers.Click) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.drop {
		return false
	}
	r.clicks = append(r.clicks, click)
	return true
}

func (r *stubRecorder) recorded() []workers.Click {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]workers.Click(nil), r.clicks...)
}
