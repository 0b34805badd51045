package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/lodymel/heartpass/internal/dto"
	"github.com/lodymel/heartpass/internal/events"
	"github.com/lodymel/heartpass/internal/lifecycle"
	"github.com/lodymel/heartpass/internal/service"
	pkgerrors "github.com/lodymel/heartpass/pkg/errors"
	"github.com/lodymel/heartpass/pkg/jwt"
	"github.com/lodymel/heartpass/pkg/response"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// ═══════════════════════════════════════════════════════════
// Mock Services
// ═══════════════════════════════════════════════════════════

// ── Mock AuthService ──

type mockAuthService struct {
	registerResult   *dto.TokenResponse
	registerErr      error
	loginResult      *dto.TokenResponse
	loginErr         error
	refreshResult    *dto.TokenResponse
	refreshErr       error
	logoutErr        error
	logoutClaims     *jwt.Claims
	logoutRefresh    string
	getCurrentResult *dto.UserResponse
	getCurrentErr    error
}

func (m *mockAuthService) Register(_ context.Context, _ *dto.RegisterRequest) (*dto.TokenResponse, error) {
	return m.registerResult, m.registerErr
}
func (m *mockAuthService) Login(_ context.Context, _ *dto.LoginRequest) (*dto.TokenResponse, error) {
	return m.loginResult, m.loginErr
}
func (m *mockAuthService) Refresh(_ context.Context, _ string) (*dto.TokenResponse, error) {
	return m.refreshResult, m.refreshErr
}
func (m *mockAuthService) Logout(_ context.Context, access *jwt.Claims, refreshToken string) error {
	m.logoutClaims = access
	m.logoutRefresh = refreshToken
	return m.logoutErr
}
func (m *mockAuthService) GetCurrentUser(_ context.Context, _ string) (*dto.UserResponse, error) {
	return m.getCurrentResult, m.getCurrentErr
}

// ── Mock PassService ──

type mockPassService struct {
	result    *dto.PassResponse
	mutation  *dto.PassMutationResult
	list      []dto.PassResponse
	total     int64
	summary   *dto.PassSummaryResponse
	public    *dto.PublicPassResponse
	err       error
	lastActor lifecycle.Actor
	lastList  *dto.PassListRequest
	calls     int
}

func (m *mockPassService) Create(_ context.Context, actor lifecycle.Actor, _ *dto.CreatePassRequest) (*dto.PassMutationResult, error) {
	m.lastActor = actor
	return m.mutation, m.err
}
func (m *mockPassService) Get(_ context.Context, actor lifecycle.Actor, _ string) (*dto.PassResponse, error) {
	m.calls++
	m.lastActor = actor
	return m.result, m.err
}
func (m *mockPassService) ListSent(_ context.Context, _ lifecycle.Actor, req *dto.PassListRequest) ([]dto.PassResponse, int64, error) {
	m.lastList = req
	return m.list, m.total, m.err
}
func (m *mockPassService) ListReceived(_ context.Context, _ lifecycle.Actor, req *dto.PassListRequest) ([]dto.PassResponse, int64, error) {
	m.lastList = req
	return m.list, m.total, m.err
}
func (m *mockPassService) ReceivedSummary(_ context.Context, _ lifecycle.Actor) (*dto.PassSummaryResponse, error) {
	return m.summary, m.err
}
func (m *mockPassService) Notifications(_ context.Context, _ lifecycle.Actor) ([]dto.PassResponse, error) {
	return m.list, m.err
}
func (m *mockPassService) Update(_ context.Context, _ lifecycle.Actor, _ string, _ *dto.UpdatePassRequest) (*dto.PassResponse, error) {
	m.calls++
	return m.result, m.err
}
func (m *mockPassService) Send(_ context.Context, _ lifecycle.Actor, _ string, _ *dto.SendPassRequest) (*dto.PassMutationResult, error) {
	m.calls++
	return m.mutation, m.err
}
func (m *mockPassService) Accept(_ context.Context, actor lifecycle.Actor, _ string) (*dto.PassResponse, error) {
	m.calls++
	m.lastActor = actor
	return m.result, m.err
}
func (m *mockPassService) Decline(_ context.Context, _ lifecycle.Actor, _ string) (*dto.PassResponse, error) {
	m.calls++
	return m.result, m.err
}
func (m *mockPassService) MarkUsed(_ context.Context, _ lifecycle.Actor, _ string) (*dto.PassResponse, error) {
	m.calls++
	return m.result, m.err
}
func (m *mockPassService) RegenerateMessage(_ context.Context, _ lifecycle.Actor, _ string, _ *dto.RegenerateMessageRequest) (*dto.PassMutationResult, error) {
	m.calls++
	return m.mutation, m.err
}
func (m *mockPassService) Delete(_ context.Context, _ lifecycle.Actor, _ string) error {
	m.calls++
	return m.err
}
func (m *mockPassService) PublicView(_ context.Context, _ string) (*dto.PublicPassResponse, error) {
	m.calls++
	return m.public, m.err
}

// ── Mock MessageGenerator ──

type mockGenerator struct {
	result service.GeneratedMessage
	last   service.MessageRequest
}

func (m *mockGenerator) Generate(_ context.Context, req service.MessageRequest) service.GeneratedMessage {
	m.last = req
	return m.result
}

// ── Mock ContactService ──

type mockContactService struct {
	err   error
	calls int
}

func (m *mockContactService) Submit(_ context.Context, _ *dto.ContactRequest) error {
	m.calls++
	return m.err
}

// ── Mock ExportService ──

type mockExportService struct {
	buf      *bytes.Buffer
	filename string
	ics      []byte
	err      error
}

func (m *mockExportService) ExportSent(_ context.Context, _ string) (*bytes.Buffer, string, error) {
	return m.buf, m.filename, m.err
}
func (m *mockExportService) ReceivedCalendar(_ context.Context, _ lifecycle.Actor) ([]byte, error) {
	return m.ics, m.err
}

// ── Stub Broker ──

// stubBroker 订阅时交出预先准备的通道
type stubBroker struct {
	ch           chan events.Event
	subscribeErr error
	cancelled    bool
}

func (b *stubBroker) Publish(_ context.Context, _ events.Event) error { return nil }
func (b *stubBroker) Subscribe(_ context.Context) (<-chan events.Event, func(), error) {
	if b.subscribeErr != nil {
		return nil, nil, b.subscribeErr
	}
	return b.ch, func() { b.cancelled = true }, nil
}
func (b *stubBroker) Close() error { return nil }

// ═══════════════════════════════════════════════════════════
// Helpers
// ═══════════════════════════════════════════════════════════

const (
	testUserID = "test-user-id"
	testEmail  = "alice@example.com"
	testPassID = "5b0e7c1a-3f2d-4c8e-9a61-2d7f0b4e8c13"
)

func setupGin() (*gin.Engine, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	return gin.New(), w
}

// withAuth 模拟 JWT 中间件注入身份
func withAuth(c *gin.Context) {
	c.Set("user_id", testUserID)
	c.Set("email", testEmail)
	c.Next()
}

func jsonBody(v interface{}) io.Reader {
	b, _ := json.Marshal(v)
	return bytes.NewReader(b)
}

func jsonRequest(method, path string, v interface{}) *http.Request {
	req := httptest.NewRequest(method, path, jsonBody(v))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func parseResponse(w *httptest.ResponseRecorder) response.Response {
	var resp response.Response
	json.Unmarshal(w.Body.Bytes(), &resp)
	return resp
}

// ═══════════════════════════════════════════════════════════
// AuthHandler Tests
// ═══════════════════════════════════════════════════════════

func TestAuthHandler_Register_Success(t *testing.T) {
	mock := &mockAuthService{
		registerResult: &dto.TokenResponse{AccessToken: "a", RefreshToken: "r", ExpiresIn: 900},
	}
	h := NewAuthHandler(mock)

	r, w := setupGin()
	r.POST("/auth/register", h.Register)
	r.ServeHTTP(w, jsonRequest("POST", "/auth/register", dto.RegisterRequest{
		Email: "alice@example.com", Password: "Secret123", DisplayName: "Alice",
	}))

	if w.Code != http.StatusCreated {
		t.Errorf("期望 201，实际: %d", w.Code)
	}
}

func TestAuthHandler_Register_EmailTaken(t *testing.T) {
	h := NewAuthHandler(&mockAuthService{registerErr: service.ErrEmailTaken})

	r, w := setupGin()
	r.POST("/auth/register", h.Register)
	r.ServeHTTP(w, jsonRequest("POST", "/auth/register", dto.RegisterRequest{
		Email: "alice@example.com", Password: "Secret123", DisplayName: "Alice",
	}))

	if w.Code != http.StatusConflict || parseResponse(w).Code != 11002 {
		t.Errorf("期望 409/11002，实际: %d/%d", w.Code, parseResponse(w).Code)
	}
}

func TestAuthHandler_Register_ShortPassword(t *testing.T) {
	h := NewAuthHandler(&mockAuthService{})

	r, w := setupGin()
	r.POST("/auth/register", h.Register)
	r.ServeHTTP(w, jsonRequest("POST", "/auth/register", dto.RegisterRequest{
		Email: "alice@example.com", Password: "short", DisplayName: "Alice",
	}))

	if w.Code != http.StatusBadRequest || parseResponse(w).Code != 10001 {
		t.Errorf("期望 400/10001，实际: %d/%d", w.Code, parseResponse(w).Code)
	}
}

func TestAuthHandler_Login_BadJSON(t *testing.T) {
	h := NewAuthHandler(&mockAuthService{})

	r, w := setupGin()
	req := httptest.NewRequest("POST", "/auth/login", bytes.NewReader([]byte("invalid json")))
	req.Header.Set("Content-Type", "application/json")
	r.POST("/auth/login", h.Login)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("期望 400，实际: %d", w.Code)
	}
}

func TestAuthHandler_Login_InvalidCredentials(t *testing.T) {
	h := NewAuthHandler(&mockAuthService{loginErr: service.ErrInvalidCredentials})

	r, w := setupGin()
	r.POST("/auth/login", h.Login)
	r.ServeHTTP(w, jsonRequest("POST", "/auth/login", dto.LoginRequest{Email: "alice@example.com", Password: "wrong"}))

	if w.Code != http.StatusUnauthorized {
		t.Errorf("期望 401，实际: %d", w.Code)
	}
	if resp := parseResponse(w); resp.Code != 11001 {
		t.Errorf("期望错误码 11001，实际: %d", resp.Code)
	}
}

func TestAuthHandler_RefreshToken_Invalid(t *testing.T) {
	h := NewAuthHandler(&mockAuthService{refreshErr: service.ErrInvalidRefreshToken})

	r, w := setupGin()
	r.POST("/auth/refresh", h.RefreshToken)
	r.ServeHTTP(w, jsonRequest("POST", "/auth/refresh", dto.RefreshTokenRequest{RefreshToken: "stale"}))

	if w.Code != http.StatusUnauthorized || parseResponse(w).Code != 11003 {
		t.Errorf("期望 401/11003，实际: %d/%d", w.Code, parseResponse(w).Code)
	}
}

func TestAuthHandler_Logout_PassesClaimsAndRefreshToken(t *testing.T) {
	mock := &mockAuthService{}
	h := NewAuthHandler(mock)
	claims := &jwt.Claims{UserID: testUserID, Email: testEmail, TokenType: jwt.TokenTypeAccess}

	r, w := setupGin()
	r.POST("/auth/logout", func(c *gin.Context) {
		c.Set("claims", claims)
		c.Next()
	}, withAuth, h.Logout)
	r.ServeHTTP(w, jsonRequest("POST", "/auth/logout", gin.H{"refresh_token": "refresh-1"}))

	if w.Code != http.StatusOK {
		t.Fatalf("期望 200，实际: %d", w.Code)
	}
	if mock.logoutClaims != claims || mock.logoutRefresh != "refresh-1" {
		t.Errorf("登出参数未透传: claims=%v refresh=%q", mock.logoutClaims, mock.logoutRefresh)
	}
}

func TestAuthHandler_GetCurrentUser_Unauthenticated(t *testing.T) {
	h := NewAuthHandler(&mockAuthService{})

	r, w := setupGin()
	r.GET("/auth/me", h.GetCurrentUser)
	r.ServeHTTP(w, httptest.NewRequest("GET", "/auth/me", nil))

	if w.Code != http.StatusUnauthorized || parseResponse(w).Code != 10002 {
		t.Errorf("期望 401/10002，实际: %d/%d", w.Code, parseResponse(w).Code)
	}
}

func TestAuthHandler_GetCurrentUser_Success(t *testing.T) {
	h := NewAuthHandler(&mockAuthService{
		getCurrentResult: &dto.UserResponse{ID: testUserID, Email: testEmail, DisplayName: "Alice"},
	})

	r, w := setupGin()
	r.GET("/auth/me", withAuth, h.GetCurrentUser)
	r.ServeHTTP(w, httptest.NewRequest("GET", "/auth/me", nil))

	if w.Code != http.StatusOK {
		t.Errorf("期望 200，实际: %d", w.Code)
	}
}

// ═══════════════════════════════════════════════════════════
// PassHandler Tests
// ═══════════════════════════════════════════════════════════

func TestPassHandler_CreatePass_Success(t *testing.T) {
	mock := &mockPassService{
		mutation: &dto.PassMutationResult{Pass: &dto.PassResponse{ID: "p-1", Status: "active"}},
	}
	h := NewPassHandler(mock)

	r, w := setupGin()
	r.POST("/passes", withAuth, h.CreatePass)
	r.ServeHTTP(w, jsonRequest("POST", "/passes", dto.CreatePassRequest{GiftType: "spa-day"}))

	if w.Code != http.StatusCreated {
		t.Fatalf("期望 201，实际: %d", w.Code)
	}
	if mock.lastActor.UserID != testUserID || mock.lastActor.Email != testEmail {
		t.Errorf("身份未透传: %+v", mock.lastActor)
	}
	if resp := parseResponse(w); resp.Warning != "" {
		t.Errorf("不应有警告，实际: %q", resp.Warning)
	}
}

func TestPassHandler_CreatePass_WarningOnEmailFailure(t *testing.T) {
	mock := &mockPassService{
		mutation: &dto.PassMutationResult{
			Pass:    &dto.PassResponse{ID: "p-1", Status: "pending"},
			Warning: service.WarningEmailFailed,
		},
	}
	h := NewPassHandler(mock)

	r, w := setupGin()
	r.POST("/passes", withAuth, h.CreatePass)
	r.ServeHTTP(w, jsonRequest("POST", "/passes", dto.CreatePassRequest{
		GiftType: "spa-day", RecipientEmail: "bob@example.com",
	}))

	if w.Code != http.StatusCreated {
		t.Fatalf("邮件失败不影响保存，期望 201，实际: %d", w.Code)
	}
	if resp := parseResponse(w); resp.Warning != service.WarningEmailFailed {
		t.Errorf("期望邮件失败警告，实际: %q", resp.Warning)
	}
}

func TestPassHandler_CreatePass_InvalidEmail(t *testing.T) {
	h := NewPassHandler(&mockPassService{})

	r, w := setupGin()
	r.POST("/passes", withAuth, h.CreatePass)
	r.ServeHTTP(w, jsonRequest("POST", "/passes", dto.CreatePassRequest{
		GiftType: "spa-day", RecipientEmail: "not-an-email",
	}))

	if w.Code != http.StatusBadRequest {
		t.Errorf("期望 400，实际: %d", w.Code)
	}
}

func TestPassHandler_CreatePass_Unauthenticated(t *testing.T) {
	h := NewPassHandler(&mockPassService{})

	r, w := setupGin()
	r.POST("/passes", h.CreatePass)
	r.ServeHTTP(w, jsonRequest("POST", "/passes", dto.CreatePassRequest{GiftType: "spa-day"}))

	if w.Code != http.StatusUnauthorized {
		t.Errorf("期望 401，实际: %d", w.Code)
	}
}

func TestPassHandler_ListReceived_Pagination(t *testing.T) {
	mock := &mockPassService{
		list:  []dto.PassResponse{{ID: "p-1"}, {ID: "p-2"}},
		total: 12,
	}
	h := NewPassHandler(mock)

	r, w := setupGin()
	r.GET("/passes/received", withAuth, h.ListReceived)
	r.ServeHTTP(w, httptest.NewRequest("GET", "/passes/received?status=expired&page=2&page_size=5", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("期望 200，实际: %d", w.Code)
	}
	if mock.lastList.Status != "expired" || mock.lastList.GetPage() != 2 {
		t.Errorf("查询参数未解析: %+v", mock.lastList)
	}

	var body struct {
		Data response.PageData `json:"data"`
	}
	json.Unmarshal(w.Body.Bytes(), &body)
	if body.Data.Pagination.Total != 12 || body.Data.Pagination.TotalPages != 3 {
		t.Errorf("分页信息不正确: %+v", body.Data.Pagination)
	}
}

func TestPassHandler_ListSent_BadStatus(t *testing.T) {
	h := NewPassHandler(&mockPassService{})

	r, w := setupGin()
	r.GET("/passes/sent", withAuth, h.ListSent)
	r.ServeHTTP(w, httptest.NewRequest("GET", "/passes/sent?status=lost", nil))

	if w.Code != http.StatusBadRequest {
		t.Errorf("期望 400，实际: %d", w.Code)
	}
}

func TestPassHandler_UpdatePass_MissingVersion(t *testing.T) {
	h := NewPassHandler(&mockPassService{})

	r, w := setupGin()
	r.PUT("/passes/:id", withAuth, h.UpdatePass)
	r.ServeHTTP(w, jsonRequest("PUT", "/passes/"+testPassID, gin.H{"message": "hi"}))

	if w.Code != http.StatusBadRequest {
		t.Errorf("缺少 version 应返回 400，实际: %d", w.Code)
	}
}

func TestPassHandler_UpdatePass_EmptyEnumRejected(t *testing.T) {
	for _, field := range []string{"mood", "recipient_type", "validity_type"} {
		t.Run(field, func(t *testing.T) {
			mock := &mockPassService{result: &dto.PassResponse{ID: testPassID}}
			h := NewPassHandler(mock)

			r, w := setupGin()
			r.PUT("/passes/:id", withAuth, h.UpdatePass)
			r.ServeHTTP(w, jsonRequest("PUT", "/passes/"+testPassID, gin.H{"version": 1, field: ""}))

			if w.Code != http.StatusBadRequest {
				t.Errorf("%s 为空串应返回 400，实际: %d", field, w.Code)
			}
			if mock.calls != 0 {
				t.Errorf("校验失败不应进入 service，实际调用 %d 次", mock.calls)
			}
		})
	}
}

func TestPassHandler_SendPass_WarningPassthrough(t *testing.T) {
	h := NewPassHandler(&mockPassService{
		mutation: &dto.PassMutationResult{
			Pass:    &dto.PassResponse{ID: "p-1", Status: "pending"},
			Warning: service.WarningEmailDisabled,
		},
	})

	r, w := setupGin()
	r.POST("/passes/:id/send", withAuth, h.SendPass)
	r.ServeHTTP(w, jsonRequest("POST", "/passes/"+testPassID+"/send", dto.SendPassRequest{RecipientEmail: "bob@example.com"}))

	if w.Code != http.StatusOK {
		t.Fatalf("期望 200，实际: %d", w.Code)
	}
	if resp := parseResponse(w); resp.Warning != service.WarningEmailDisabled {
		t.Errorf("期望警告透传，实际: %q", resp.Warning)
	}
}

func TestPassHandler_AcceptPass_UsesActor(t *testing.T) {
	mock := &mockPassService{result: &dto.PassResponse{ID: "p-1", Status: "accepted"}}
	h := NewPassHandler(mock)

	r, w := setupGin()
	r.POST("/passes/:id/accept", withAuth, h.AcceptPass)
	r.ServeHTTP(w, httptest.NewRequest("POST", "/passes/"+testPassID+"/accept", nil))

	if w.Code != http.StatusOK {
		t.Errorf("期望 200，实际: %d", w.Code)
	}
	if mock.lastActor.Email != testEmail {
		t.Errorf("接受操作应携带当前邮箱，实际: %+v", mock.lastActor)
	}
}

func TestPassHandler_ErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   int
	}{
		{"NotFound", service.ErrPassNotFound, http.StatusNotFound, 21001},
		{"AccessDenied", service.ErrPassAccessDenied, http.StatusForbidden, 21002},
		{"CannotEdit", service.ErrPassCannotEdit, http.StatusConflict, 21003},
		{"OptimisticLock", pkgerrors.ErrOptimisticLock, http.StatusConflict, 21004},
		{"Validation", fmt.Errorf("%w: validity date is in the past", service.ErrPassValidation), http.StatusBadRequest, 21005},
		{"InvalidState", fmt.Errorf("%w: pass is already used", service.ErrPassInvalidState), http.StatusConflict, 21006},
		{"UnknownGift", service.ErrInvalidGiftType, http.StatusBadRequest, 21007},
		{"Timeout", context.DeadlineExceeded, http.StatusServiceUnavailable, 50001},
		{"Internal", errors.New("db down"), http.StatusInternalServerError, 50000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewPassHandler(&mockPassService{err: tt.err})

			r, w := setupGin()
			r.POST("/passes/:id/use", withAuth, h.UsePass)
			r.ServeHTTP(w, httptest.NewRequest("POST", "/passes/"+testPassID+"/use", nil))

			if w.Code != tt.wantStatus {
				t.Errorf("期望 HTTP %d，实际: %d", tt.wantStatus, w.Code)
			}
			if resp := parseResponse(w); resp.Code != tt.wantCode {
				t.Errorf("期望错误码 %d，实际: %d", tt.wantCode, resp.Code)
			}
		})
	}
}

func TestPassHandler_ValidationMessageExposed(t *testing.T) {
	h := NewPassHandler(&mockPassService{
		err: fmt.Errorf("%w: recipient email is required", service.ErrPassValidation),
	})

	r, w := setupGin()
	r.DELETE("/passes/:id", withAuth, h.DeletePass)
	r.ServeHTTP(w, httptest.NewRequest("DELETE", "/passes/"+testPassID, nil))

	if resp := parseResponse(w); !strings.Contains(resp.Message, "recipient email is required") {
		t.Errorf("校验错误应返回具体原因，实际: %q", resp.Message)
	}
}

func TestPassHandler_MalformedIDNotFound(t *testing.T) {
	mock := &mockPassService{result: &dto.PassResponse{ID: testPassID}}
	h := NewPassHandler(mock)

	r, _ := setupGin()
	r.GET("/passes/:id", withAuth, h.GetPass)
	r.POST("/passes/:id/accept", withAuth, h.AcceptPass)
	r.GET("/public/passes/:id", h.PublicView)

	for _, req := range []*http.Request{
		httptest.NewRequest("GET", "/passes/not-a-uuid", nil),
		httptest.NewRequest("POST", "/passes/123/accept", nil),
		httptest.NewRequest("GET", "/public/passes/not-a-uuid", nil),
	} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		if w.Code != http.StatusNotFound {
			t.Errorf("%s 期望 404，实际: %d", req.URL.Path, w.Code)
		}
		if resp := parseResponse(w); resp.Code != 21001 {
			t.Errorf("%s 期望错误码 21001，实际: %d", req.URL.Path, resp.Code)
		}
	}
	if mock.calls != 0 {
		t.Errorf("非法 ID 不应进入 service，实际调用 %d 次", mock.calls)
	}
}

func TestPassHandler_PublicView_NoAuthNeeded(t *testing.T) {
	h := NewPassHandler(&mockPassService{
		public: &dto.PublicPassResponse{ID: "p-1", SenderName: "Alice", EffectiveStatus: "pending"},
	})

	r, w := setupGin()
	r.GET("/public/passes/:id", h.PublicView)
	r.ServeHTTP(w, httptest.NewRequest("GET", "/public/passes/"+testPassID, nil))

	if w.Code != http.StatusOK {
		t.Errorf("期望 200，实际: %d", w.Code)
	}
	if strings.Contains(w.Body.String(), "email") {
		t.Error("公开预览不应包含邮箱字段")
	}
}

// ═══════════════════════════════════════════════════════════
// Message / Catalog / Contact Tests
// ═══════════════════════════════════════════════════════════

func TestMessageHandler_Generate_DefaultsMood(t *testing.T) {
	gen := &mockGenerator{result: service.GeneratedMessage{Text: "Enjoy!", Source: service.MessageSourceTemplate}}
	h := NewMessageHandler(gen)

	r, w := setupGin()
	r.POST("/messages/generate", h.Generate)
	r.ServeHTTP(w, jsonRequest("POST", "/messages/generate", dto.GenerateMessageRequest{GiftType: "spa-day"}))

	if w.Code != http.StatusOK {
		t.Fatalf("期望 200，实际: %d", w.Code)
	}
	if gen.last.Mood != "cute" {
		t.Errorf("期望默认语气 cute，实际: %q", gen.last.Mood)
	}

	var body struct {
		Data dto.GenerateMessageResponse `json:"data"`
	}
	json.Unmarshal(w.Body.Bytes(), &body)
	if body.Data.Message != "Enjoy!" || body.Data.Source != service.MessageSourceTemplate {
		t.Errorf("响应不正确: %+v", body.Data)
	}
}

func TestMessageHandler_Generate_BadMood(t *testing.T) {
	h := NewMessageHandler(&mockGenerator{})

	r, w := setupGin()
	r.POST("/messages/generate", h.Generate)
	r.ServeHTTP(w, jsonRequest("POST", "/messages/generate", dto.GenerateMessageRequest{GiftType: "spa-day", Mood: "grumpy"}))

	if w.Code != http.StatusBadRequest {
		t.Errorf("期望 400，实际: %d", w.Code)
	}
}

func TestCatalogHandler_GetCatalog(t *testing.T) {
	h := NewCatalogHandler()

	r, w := setupGin()
	r.GET("/catalog", h.GetCatalog)
	r.ServeHTTP(w, httptest.NewRequest("GET", "/catalog", nil))

	var body struct {
		Data dto.CatalogResponse `json:"data"`
	}
	json.Unmarshal(w.Body.Bytes(), &body)
	if len(body.Data.Gifts) == 0 || len(body.Data.Moods) != 4 || len(body.Data.RecipientTypes) != 3 {
		t.Errorf("目录内容不完整: gifts=%d moods=%d types=%d",
			len(body.Data.Gifts), len(body.Data.Moods), len(body.Data.RecipientTypes))
	}
}

func TestContactHandler_ErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   int
	}{
		{"OK", nil, http.StatusOK, 0},
		{"Unavailable", service.ErrContactUnavailable, http.StatusServiceUnavailable, 27001},
		{"SendFailed", service.ErrContactSendFailed, http.StatusBadGateway, 27002},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewContactHandler(&mockContactService{err: tt.err})

			r, w := setupGin()
			r.POST("/contact", h.Submit)
			r.ServeHTTP(w, jsonRequest("POST", "/contact", dto.ContactRequest{
				Name: "Dana", Email: "dana@example.com", Message: "Hello there",
			}))

			if w.Code != tt.wantStatus || parseResponse(w).Code != tt.wantCode {
				t.Errorf("期望 %d/%d，实际: %d/%d", tt.wantStatus, tt.wantCode, w.Code, parseResponse(w).Code)
			}
		})
	}
}

func TestContactHandler_ValidationSkipsService(t *testing.T) {
	mock := &mockContactService{}
	h := NewContactHandler(mock)

	r, w := setupGin()
	r.POST("/contact", h.Submit)
	r.ServeHTTP(w, jsonRequest("POST", "/contact", dto.ContactRequest{Name: "Dana", Email: "nope", Message: "hi"}))

	if w.Code != http.StatusBadRequest || mock.calls != 0 {
		t.Errorf("非法输入应直接返回 400，实际 code=%d calls=%d", w.Code, mock.calls)
	}
}

// ═══════════════════════════════════════════════════════════
// ExportHandler Tests
// ═══════════════════════════════════════════════════════════

func TestExportHandler_ExportSent_Success(t *testing.T) {
	h := NewExportHandler(&mockExportService{
		buf:      bytes.NewBufferString("fake-xlsx"),
		filename: "heartpass_sent_20260615.xlsx",
	})

	r, w := setupGin()
	r.GET("/passes/export", withAuth, h.ExportSent)
	r.ServeHTTP(w, httptest.NewRequest("GET", "/passes/export", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("期望 200，实际: %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != xlsxContentType {
		t.Errorf("Content-Type 不正确: %s", ct)
	}
	if cd := w.Header().Get("Content-Disposition"); !strings.Contains(cd, "heartpass_sent_20260615.xlsx") {
		t.Errorf("Content-Disposition 不正确: %s", cd)
	}
	if w.Body.String() != "fake-xlsx" {
		t.Error("文件内容未原样输出")
	}
}

func TestExportHandler_ExportSent_NoPasses(t *testing.T) {
	h := NewExportHandler(&mockExportService{err: service.ErrExportNoPasses})

	r, w := setupGin()
	r.GET("/passes/export", withAuth, h.ExportSent)
	r.ServeHTTP(w, httptest.NewRequest("GET", "/passes/export", nil))

	if w.Code != http.StatusNotFound || parseResponse(w).Code != 26001 {
		t.Errorf("期望 404/26001，实际: %d/%d", w.Code, parseResponse(w).Code)
	}
}

func TestExportHandler_ReceivedCalendar(t *testing.T) {
	h := NewExportHandler(&mockExportService{ics: []byte("BEGIN:VCALENDAR\r\nEND:VCALENDAR\r\n")})

	r, w := setupGin()
	r.GET("/passes/received/calendar.ics", withAuth, h.ReceivedCalendar)
	r.ServeHTTP(w, httptest.NewRequest("GET", "/passes/received/calendar.ics", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("期望 200，实际: %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/calendar") {
		t.Errorf("Content-Type 不正确: %s", ct)
	}
}

// ═══════════════════════════════════════════════════════════
// EventHandler Tests
// ═══════════════════════════════════════════════════════════

// closeNotifyRecorder gin 的 Stream 需要 CloseNotifier
type closeNotifyRecorder struct {
	*httptest.ResponseRecorder
	closed chan bool
}

func (r *closeNotifyRecorder) CloseNotify() <-chan bool { return r.closed }

func TestEventHandler_Stream_FiltersByVisibility(t *testing.T) {
	broker := &stubBroker{ch: make(chan events.Event)}
	h := NewEventHandler(broker)

	mine := events.NewEvent(events.TypeSent, "p-mine")
	mine.OwnerUserID = "someone-else"
	mine.RecipientEmail = testEmail
	others := events.NewEvent(events.TypeUsed, "p-others")
	others.OwnerUserID = "someone-else"
	others.RecipientEmail = "carol@example.com"

	go func() {
		broker.ch <- mine
		broker.ch <- others
		close(broker.ch)
	}()

	r := gin.New()
	r.GET("/passes/events", withAuth, h.Stream)
	w := &closeNotifyRecorder{ResponseRecorder: httptest.NewRecorder(), closed: make(chan bool, 1)}
	r.ServeHTTP(w, httptest.NewRequest("GET", "/passes/events", nil))

	body := w.Body.String()
	if ct := w.Header().Get("Content-Type"); ct != "text/event-stream" {
		t.Errorf("Content-Type 不正确: %s", ct)
	}
	if !strings.Contains(body, "event:ready") {
		t.Error("连接建立后应先推送 ready")
	}
	if !strings.Contains(body, "event:"+events.TypeSent) || !strings.Contains(body, "p-mine") {
		t.Errorf("应推送与本人相关的事件:\n%s", body)
	}
	if strings.Contains(body, "p-others") {
		t.Errorf("不应推送与本人无关的事件:\n%s", body)
	}
	if !broker.cancelled {
		t.Error("结束时应取消订阅")
	}
}

func TestEventHandler_Stream_SubscribeFailure(t *testing.T) {
	h := NewEventHandler(&stubBroker{subscribeErr: errors.New("redis down")})

	r, w := setupGin()
	r.GET("/passes/events", withAuth, h.Stream)
	r.ServeHTTP(w, httptest.NewRequest("GET", "/passes/events", nil))

	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("期望 503，实际: %d", w.Code)
	}
}
