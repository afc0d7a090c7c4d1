package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"eduteach/backend/internal/api/middleware"
	"eduteach/backend/internal/dto"
	"eduteach/backend/internal/service"
	pkgerrors "eduteach/backend/pkg/errors"
	"eduteach/backend/pkg/response"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// ═══════════════════════════════════════════════════════════
// Mock Services
// ═══════════════════════════════════════════════════════════

// ── Mock AuthService ──

type mockAuthService struct {
	registerResult *dto.RegisterResponse
	registerErr    error
	loginResult    *dto.TokenResponse
	loginErr       error
	refreshResult  *dto.TokenResponse
	refreshErr     error
	logoutErr      error
	meResult       *dto.UserResponse
	meErr          error
	changePassErr  error
	listUsers      []dto.UserResponse
	listUsersErr   error
}

func (m *mockAuthService) Register(_ context.Context, _ *dto.RegisterRequest) (*dto.RegisterResponse, error) {
	return m.registerResult, m.registerErr
}
func (m *mockAuthService) Login(_ context.Context, _ *dto.LoginRequest) (*dto.TokenResponse, error) {
	return m.loginResult, m.loginErr
}
func (m *mockAuthService) RefreshToken(_ context.Context, _ *dto.RefreshTokenRequest) (*dto.TokenResponse, error) {
	return m.refreshResult, m.refreshErr
}
func (m *mockAuthService) Logout(_ context.Context, _ string, _ time.Time) error {
	return m.logoutErr
}
func (m *mockAuthService) Me(_ context.Context, _ string) (*dto.UserResponse, error) {
	return m.meResult, m.meErr
}
func (m *mockAuthService) ChangePassword(_ context.Context, _ string, _ *dto.ChangePasswordRequest) error {
	return m.changePassErr
}
func (m *mockAuthService) ListUsers(_ context.Context) ([]dto.UserResponse, error) {
	return m.listUsers, m.listUsersErr
}

// ── Mock CalendarEventService ──

type mockCalendarEventService struct {
	createResult      *dto.CalendarEventResponse
	createErr         error
	getResult         *dto.CalendarEventResponse
	getErr            error
	listResult        []dto.CalendarEventResponse
	listErr           error
	updateResult      *dto.CalendarEventResponse
	updateErr         error
	deleteErr         error
	rescheduleResult  *dto.CalendarEventResponse
	rescheduleErr     error
	draftResult       *dto.CalendarEventDraft
	occurrencesResult []dto.OccurrenceResponse
	occurrencesErr    error
	viewResult        *dto.CalendarViewResponse
	viewErr           error
	remindersResult   []dto.ReminderTimeResponse
	remindersErr      error
	importResult      *dto.ICSImportResponse
	importErr         error
	exportResult      []byte
	exportErr         error
}

func (m *mockCalendarEventService) Create(_ context.Context, _ string, _ *dto.CreateCalendarEventRequest) (*dto.CalendarEventResponse, error) {
	return m.createResult, m.createErr
}
func (m *mockCalendarEventService) Get(_ context.Context, _, _ string) (*dto.CalendarEventResponse, error) {
	return m.getResult, m.getErr
}
func (m *mockCalendarEventService) List(_ context.Context, _ string, _ *dto.CalendarEventListRequest) ([]dto.CalendarEventResponse, error) {
	return m.listResult, m.listErr
}
func (m *mockCalendarEventService) Update(_ context.Context, _, _ string, _ *dto.UpdateCalendarEventRequest) (*dto.CalendarEventResponse, error) {
	return m.updateResult, m.updateErr
}
func (m *mockCalendarEventService) Delete(_ context.Context, _, _ string) error {
	return m.deleteErr
}
func (m *mockCalendarEventService) Reschedule(_ context.Context, _, _ string, _ *dto.RescheduleRequest) (*dto.CalendarEventResponse, error) {
	return m.rescheduleResult, m.rescheduleErr
}
func (m *mockCalendarEventService) DraftFromSlot(_ *dto.SlotDraftRequest) *dto.CalendarEventDraft {
	return m.draftResult
}
func (m *mockCalendarEventService) Occurrences(_ context.Context, _, _ string, _ *dto.OccurrenceListRequest) ([]dto.OccurrenceResponse, error) {
	return m.occurrencesResult, m.occurrencesErr
}
func (m *mockCalendarEventService) View(_ context.Context, _ string, _ *dto.CalendarViewRequest) (*dto.CalendarViewResponse, error) {
	return m.viewResult, m.viewErr
}
func (m *mockCalendarEventService) ReminderTimes(_ context.Context, _, _ string, _ *time.Time) ([]dto.ReminderTimeResponse, error) {
	return m.remindersResult, m.remindersErr
}
func (m *mockCalendarEventService) ImportICS(_ context.Context, _ string, _ []byte) (*dto.ICSImportResponse, error) {
	return m.importResult, m.importErr
}
func (m *mockCalendarEventService) ExportICS(_ context.Context, _ string, _, _ *time.Time) ([]byte, error) {
	return m.exportResult, m.exportErr
}

// ── Mock ClassService ──

type mockClassService struct {
	createResult *dto.ClassResponse
	createErr    error
	getResult    *dto.ClassResponse
	getErr       error
	listResult   []dto.ClassResponse
	listErr      error
	updateResult *dto.ClassResponse
	updateErr    error
	deleteErr    error
}

func (m *mockClassService) Create(_ context.Context, _ string, _ *dto.CreateClassRequest) (*dto.ClassResponse, error) {
	return m.createResult, m.createErr
}
func (m *mockClassService) Get(_ context.Context, _, _ string) (*dto.ClassResponse, error) {
	return m.getResult, m.getErr
}
func (m *mockClassService) List(_ context.Context, _ string) ([]dto.ClassResponse, error) {
	return m.listResult, m.listErr
}
func (m *mockClassService) Update(_ context.Context, _, _ string, _ *dto.UpdateClassRequest) (*dto.ClassResponse, error) {
	return m.updateResult, m.updateErr
}
func (m *mockClassService) Delete(_ context.Context, _, _ string) error {
	return m.deleteErr
}

// ── Mock ExportService ──

type mockExportService struct {
	buf      *bytes.Buffer
	filename string
	err      error
}

func (m *mockExportService) ExportMonth(_ context.Context, _ string, _ int, _ time.Month) (*bytes.Buffer, string, error) {
	return m.buf, m.filename, m.err
}

// ═══════════════════════════════════════════════════════════
// Test Helpers
// ═══════════════════════════════════════════════════════════

func setupRecorder() *httptest.ResponseRecorder {
	return httptest.NewRecorder()
}

func setAuth(c *gin.Context) {
	c.Set("user_id", "test-user-id")
	c.Set("role", "teacher")
	c.Set("jti", "test-jti")
	c.Set("token_exp", time.Now().Add(15*time.Minute))
}

func jsonBody(v interface{}) io.Reader {
	b, _ := json.Marshal(v)
	return bytes.NewReader(b)
}

func parseErrorBody(t *testing.T, w *httptest.ResponseRecorder) response.ErrorBody {
	t.Helper()
	var body response.ErrorBody
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("解析错误响应失败: %v", err)
	}
	return body
}

// ═══════════════════════════════════════════════════════════
// AuthHandler Tests
// ═══════════════════════════════════════════════════════════

func TestAuthHandler_Login_Success(t *testing.T) {
	mock := &mockAuthService{
		loginResult: &dto.TokenResponse{
			AccessToken:  "test-access-token",
			RefreshToken: "test-refresh-token",
			ExpiresIn:    900,
		},
	}
	h := NewAuthHandler(mock)

	w := setupRecorder()
	req := httptest.NewRequest("POST", "/auth/login", jsonBody(dto.LoginRequest{
		Email:    "teacher@school.edu",
		Password: "Test1234",
	}))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.POST("/auth/login", h.Login)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("期望 200，实际=%d", w.Code)
	}
	var resp dto.TokenResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("解析响应失败: %v", err)
	}
	if resp.AccessToken != "test-access-token" {
		t.Errorf("期望 access_token=test-access-token，实际=%s", resp.AccessToken)
	}
}

func TestAuthHandler_Login_BadJSON(t *testing.T) {
	h := NewAuthHandler(&mockAuthService{})

	w := setupRecorder()
	req := httptest.NewRequest("POST", "/auth/login", bytes.NewReader([]byte("invalid json")))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.POST("/auth/login", h.Login)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("期望 400，实际=%d", w.Code)
	}
}

func TestAuthHandler_Login_InvalidCredentials(t *testing.T) {
	h := NewAuthHandler(&mockAuthService{loginErr: service.ErrInvalidCredentials})

	w := setupRecorder()
	req := httptest.NewRequest("POST", "/auth/login", jsonBody(dto.LoginRequest{
		Email:    "teacher@school.edu",
		Password: "wrong-password",
	}))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.POST("/auth/login", h.Login)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("期望 401，实际=%d", w.Code)
	}
	body := parseErrorBody(t, w)
	if body.Error == "" {
		t.Error("期望错误响应包含 error 字段")
	}
}

func TestAuthHandler_Register_Success(t *testing.T) {
	mock := &mockAuthService{
		registerResult: &dto.RegisterResponse{
			ID:    "user-1",
			Name:  "张老师",
			Email: "zhang@school.edu",
		},
	}
	h := NewAuthHandler(mock)

	w := setupRecorder()
	req := httptest.NewRequest("POST", "/auth/register", jsonBody(dto.RegisterRequest{
		Name:     "张老师",
		Email:    "zhang@school.edu",
		Password: "Secret123",
	}))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.POST("/auth/register", h.Register)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Errorf("期望 201，实际=%d", w.Code)
	}
}

func TestAuthHandler_Register_EmailTaken(t *testing.T) {
	h := NewAuthHandler(&mockAuthService{registerErr: service.ErrEmailTaken})

	w := setupRecorder()
	req := httptest.NewRequest("POST", "/auth/register", jsonBody(dto.RegisterRequest{
		Name:     "张老师",
		Email:    "zhang@school.edu",
		Password: "Secret123",
	}))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.POST("/auth/register", h.Register)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("期望 400，实际=%d", w.Code)
	}
}

func TestAuthHandler_Me_Unauthenticated(t *testing.T) {
	h := NewAuthHandler(&mockAuthService{})

	w := setupRecorder()
	req := httptest.NewRequest("GET", "/auth/me", nil)

	r := gin.New()
	r.GET("/auth/me", h.Me) // 不注入认证上下文
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("期望 401，实际=%d", w.Code)
	}
}

func TestAuthHandler_Logout_Success(t *testing.T) {
	h := NewAuthHandler(&mockAuthService{})

	w := setupRecorder()
	req := httptest.NewRequest("POST", "/auth/logout", nil)

	r := gin.New()
	r.POST("/auth/logout", func(c *gin.Context) {
		setAuth(c)
		h.Logout(c)
	})
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("期望 200，实际=%d", w.Code)
	}
}

// newAdminRouter 按角色注入上下文后挂载 admin 路由
func newAdminRouter(mock *mockAuthService, role string) *gin.Engine {
	h := NewAuthHandler(mock)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set("user_id", "test-user-id")
		c.Set("role", role)
		c.Next()
	})
	admin := r.Group("/admin")
	admin.Use(middleware.RoleAuth("admin"))
	admin.GET("/users", h.ListUsers)
	return r
}

func TestAuthHandler_ListUsers_AdminOnly(t *testing.T) {
	mock := &mockAuthService{
		listUsers: []dto.UserResponse{
			{ID: "user-1", Name: "张老师", Email: "zhang@school.edu", Role: "teacher", IsActive: true},
			{ID: "user-2", Name: "管理员", Email: "admin@school.edu", Role: "admin", IsActive: true},
		},
	}

	w := setupRecorder()
	req := httptest.NewRequest("GET", "/admin/users", nil)
	newAdminRouter(mock, "admin").ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("期望 200，实际=%d", w.Code)
	}
	var resp []dto.UserResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("解析响应失败: %v", err)
	}
	if len(resp) != 2 {
		t.Errorf("期望返回2个用户，实际=%d", len(resp))
	}
}

func TestAuthHandler_ListUsers_TeacherForbidden(t *testing.T) {
	w := setupRecorder()
	req := httptest.NewRequest("GET", "/admin/users", nil)
	newAdminRouter(&mockAuthService{}, "teacher").ServeHTTP(w, req)

	if w.Code != http.StatusForbidden {
		t.Errorf("期望 403，实际=%d", w.Code)
	}
}

// ═══════════════════════════════════════════════════════════
// CalendarEventHandler Tests
// ═══════════════════════════════════════════════════════════

func newEventRouter(mock *mockCalendarEventService) *gin.Engine {
	h := NewCalendarEventHandler(mock)
	r := gin.New()
	authed := func(fn gin.HandlerFunc) gin.HandlerFunc {
		return func(c *gin.Context) {
			setAuth(c)
			fn(c)
		}
	}
	r.GET("/calendar-events", authed(h.List))
	r.POST("/calendar-events", authed(h.Create))
	r.POST("/calendar-events/draft", authed(h.Draft))
	r.GET("/calendar-events/:id", authed(h.Get))
	r.PUT("/calendar-events/:id", authed(h.Update))
	r.DELETE("/calendar-events/:id", authed(h.Delete))
	r.PATCH("/calendar-events/:id/reschedule", authed(h.Reschedule))
	r.GET("/calendar-events/:id/occurrences", authed(h.Occurrences))
	r.GET("/calendar-events/:id/reminders", authed(h.ReminderTimes))
	r.GET("/calendar-events/view", authed(h.View))
	r.POST("/calendar-events/import", authed(h.ImportICS))
	r.GET("/calendar-events/export.ics", authed(h.ExportICS))
	return r
}

func TestCalendarEventHandler_Create_Success(t *testing.T) {
	mock := &mockCalendarEventService{
		createResult: &dto.CalendarEventResponse{ID: "event-1", Title: "期中考试"},
	}
	r := newEventRouter(mock)

	w := setupRecorder()
	req := httptest.NewRequest("POST", "/calendar-events", jsonBody(map[string]interface{}{
		"title":      "期中考试",
		"start_date": "2024-05-20T10:00:00Z",
		"end_date":   "2024-05-20T12:00:00Z",
		"type":       "exam",
	}))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Errorf("期望 201，实际=%d", w.Code)
	}
	var resp dto.CalendarEventResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("解析响应失败: %v", err)
	}
	if resp.ID != "event-1" {
		t.Errorf("期望 id=event-1，实际=%s", resp.ID)
	}
}

func TestCalendarEventHandler_Create_ValidationError(t *testing.T) {
	mock := &mockCalendarEventService{
		createErr: &service.ValidationError{Field: "end_date", Message: "结束时间不能早于开始时间"},
	}
	r := newEventRouter(mock)

	w := setupRecorder()
	req := httptest.NewRequest("POST", "/calendar-events", jsonBody(map[string]interface{}{
		"title":      "期中考试",
		"start_date": "2024-05-20T12:00:00Z",
		"end_date":   "2024-05-20T10:00:00Z",
		"type":       "exam",
	}))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("期望 400，实际=%d", w.Code)
	}
	// 错误信息必须指出违规字段
	body := parseErrorBody(t, w)
	if !strings.Contains(body.Error, "end_date") {
		t.Errorf("期望错误信息包含字段名 end_date，实际=%s", body.Error)
	}
}

func TestCalendarEventHandler_Get_NotFound(t *testing.T) {
	mock := &mockCalendarEventService{getErr: service.ErrEventNotFound}
	r := newEventRouter(mock)

	w := setupRecorder()
	req := httptest.NewRequest("GET", "/calendar-events/event-x", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("期望 404，实际=%d", w.Code)
	}
}

func TestCalendarEventHandler_Update_VersionConflict(t *testing.T) {
	mock := &mockCalendarEventService{updateErr: pkgerrors.ErrOptimisticLock}
	r := newEventRouter(mock)

	w := setupRecorder()
	req := httptest.NewRequest("PUT", "/calendar-events/event-1", jsonBody(map[string]interface{}{
		"title":   "改名",
		"version": 1,
	}))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusConflict {
		t.Errorf("期望 409，实际=%d", w.Code)
	}
}

func TestCalendarEventHandler_Delete_Success(t *testing.T) {
	mock := &mockCalendarEventService{}
	r := newEventRouter(mock)

	w := setupRecorder()
	req := httptest.NewRequest("DELETE", "/calendar-events/event-1", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("期望 200，实际=%d", w.Code)
	}
	var body map[string]bool
	json.Unmarshal(w.Body.Bytes(), &body)
	if !body["success"] {
		t.Error("期望响应 success=true")
	}
}

func TestCalendarEventHandler_Occurrences_WindowTooLarge(t *testing.T) {
	mock := &mockCalendarEventService{occurrencesErr: service.ErrWindowTooLarge}
	r := newEventRouter(mock)

	w := setupRecorder()
	req := httptest.NewRequest("GET",
		"/calendar-events/event-1/occurrences?startDate=2024-01-01&endDate=2026-01-01", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("期望 400，实际=%d", w.Code)
	}
}

func TestCalendarEventHandler_View_Success(t *testing.T) {
	mock := &mockCalendarEventService{
		viewResult: &dto.CalendarViewResponse{
			Mode: "week",
			Days: make([]dto.DayBucketResponse, 7),
		},
	}
	r := newEventRouter(mock)

	w := setupRecorder()
	req := httptest.NewRequest("GET",
		"/calendar-events/view?mode=week&startDate=2024-09-02&endDate=2024-09-09", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("期望 200，实际=%d", w.Code)
	}
	var resp dto.CalendarViewResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("解析响应失败: %v", err)
	}
	if len(resp.Days) != 7 {
		t.Errorf("期望 7 天，实际=%d", len(resp.Days))
	}
}

func TestCalendarEventHandler_View_MissingMode(t *testing.T) {
	mock := &mockCalendarEventService{}
	r := newEventRouter(mock)

	w := setupRecorder()
	req := httptest.NewRequest("GET",
		"/calendar-events/view?startDate=2024-09-02&endDate=2024-09-09", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("期望 400，实际=%d", w.Code)
	}
}

func TestCalendarEventHandler_ReminderTimes_BadOccurrenceStart(t *testing.T) {
	mock := &mockCalendarEventService{}
	r := newEventRouter(mock)

	w := setupRecorder()
	req := httptest.NewRequest("GET",
		"/calendar-events/event-1/reminders?occurrenceStart=not-a-time", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("期望 400，实际=%d", w.Code)
	}
}

func TestCalendarEventHandler_Draft_Success(t *testing.T) {
	mock := &mockCalendarEventService{
		draftResult: &dto.CalendarEventDraft{
			Type:  "class",
			Color: "#3b82f6",
		},
	}
	r := newEventRouter(mock)

	w := setupRecorder()
	req := httptest.NewRequest("POST", "/calendar-events/draft", jsonBody(dto.SlotDraftRequest{
		StartDate: time.Date(2024, 9, 2, 10, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2024, 9, 2, 11, 0, 0, 0, time.UTC),
	}))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("期望 200，实际=%d", w.Code)
	}
	var resp dto.CalendarEventDraft
	json.Unmarshal(w.Body.Bytes(), &resp)
	if resp.Type != "class" {
		t.Errorf("期望 type=class，实际=%s", resp.Type)
	}
}

func TestCalendarEventHandler_ImportICS_RawBody(t *testing.T) {
	mock := &mockCalendarEventService{
		importResult: &dto.ICSImportResponse{Imported: 2, Skipped: 1},
	}
	r := newEventRouter(mock)

	w := setupRecorder()
	req := httptest.NewRequest("POST", "/calendar-events/import",
		strings.NewReader("BEGIN:VCALENDAR\r\nEND:VCALENDAR\r\n"))
	req.Header.Set("Content-Type", "text/calendar")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("期望 200，实际=%d", w.Code)
	}
	var resp dto.ICSImportResponse
	json.Unmarshal(w.Body.Bytes(), &resp)
	if resp.Imported != 2 || resp.Skipped != 1 {
		t.Errorf("期望 imported=2 skipped=1，实际=%d/%d", resp.Imported, resp.Skipped)
	}
}

func TestCalendarEventHandler_ImportICS_EmptyBody(t *testing.T) {
	mock := &mockCalendarEventService{}
	r := newEventRouter(mock)

	w := setupRecorder()
	req := httptest.NewRequest("POST", "/calendar-events/import", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("期望 400，实际=%d", w.Code)
	}
}

func TestCalendarEventHandler_ExportICS_Headers(t *testing.T) {
	mock := &mockCalendarEventService{
		exportResult: []byte("BEGIN:VCALENDAR\r\nEND:VCALENDAR\r\n"),
	}
	r := newEventRouter(mock)

	w := setupRecorder()
	req := httptest.NewRequest("GET", "/calendar-events/export.ics", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("期望 200，实际=%d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/calendar") {
		t.Errorf("期望 Content-Type=text/calendar，实际=%s", ct)
	}
	if cd := w.Header().Get("Content-Disposition"); cd == "" {
		t.Error("期望存在 Content-Disposition 头")
	}
}

func TestCalendarEventHandler_ErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"事件不存在", service.ErrEventNotFound, 404},
		{"窗口非法", service.ErrWindowInvalid, 400},
		{"窗口过大", service.ErrWindowTooLarge, 400},
		{"重复规则非法", service.ErrInvalidRecurrenceRule, 400},
		{"版本冲突", pkgerrors.ErrOptimisticLock, 409},
		{"未知错误", errors.New("boom"), 500},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := &mockCalendarEventService{getErr: tt.err}
			r := newEventRouter(mock)

			w := setupRecorder()
			req := httptest.NewRequest("GET", "/calendar-events/event-1", nil)
			r.ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Errorf("期望 %d，实际=%d", tt.wantStatus, w.Code)
			}
		})
	}
}

// ═══════════════════════════════════════════════════════════
// ClassHandler Tests
// ═══════════════════════════════════════════════════════════

func TestClassHandler_Create_Success(t *testing.T) {
	mock := &mockClassService{
		createResult: &dto.ClassResponse{ID: "class-1", Name: "初三(2)班"},
	}
	h := NewClassHandler(mock)

	w := setupRecorder()
	req := httptest.NewRequest("POST", "/classes", jsonBody(dto.CreateClassRequest{
		Name: "初三(2)班",
	}))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.POST("/classes", func(c *gin.Context) {
		setAuth(c)
		h.Create(c)
	})
	r.ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Errorf("期望 201，实际=%d", w.Code)
	}
}

func TestClassHandler_Get_NotFound(t *testing.T) {
	mock := &mockClassService{getErr: service.ErrClassNotFound}
	h := NewClassHandler(mock)

	w := setupRecorder()
	req := httptest.NewRequest("GET", "/classes/class-x", nil)

	r := gin.New()
	r.GET("/classes/:id", func(c *gin.Context) {
		setAuth(c)
		h.Get(c)
	})
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("期望 404，实际=%d", w.Code)
	}
}

// ═══════════════════════════════════════════════════════════
// ExportHandler Tests
// ═══════════════════════════════════════════════════════════

func TestExportHandler_Success(t *testing.T) {
	mock := &mockExportService{
		buf:      bytes.NewBufferString("excel content"),
		filename: "日历_2024年9月.xlsx",
	}
	h := NewExportHandler(mock)

	w := setupRecorder()
	req := httptest.NewRequest("GET", "/export/calendar?year=2024&month=9", nil)

	r := gin.New()
	r.GET("/export/calendar", func(c *gin.Context) {
		setAuth(c)
		h.ExportMonth(c)
	})
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("期望 200，实际=%d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != xlsxContentType {
		t.Errorf("期望 xlsx Content-Type，实际=%s", ct)
	}
	if cd := w.Header().Get("Content-Disposition"); cd == "" {
		t.Error("期望存在 Content-Disposition 头")
	}
}

func TestExportHandler_BadMonth(t *testing.T) {
	h := NewExportHandler(&mockExportService{})

	w := setupRecorder()
	req := httptest.NewRequest("GET", "/export/calendar?year=2024&month=13", nil)

	r := gin.New()
	r.GET("/export/calendar", func(c *gin.Context) {
		setAuth(c)
		h.ExportMonth(c)
	})
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("期望 400，实际=%d", w.Code)
	}
}

func TestExportHandler_NoEvents(t *testing.T) {
	h := NewExportHandler(&mockExportService{err: service.ErrExportNoEvents})

	w := setupRecorder()
	req := httptest.NewRequest("GET", "/export/calendar?year=2024&month=9", nil)

	r := gin.New()
	r.GET("/export/calendar", func(c *gin.Context) {
		setAuth(c)
		h.ExportMonth(c)
	})
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("期望 404，实际=%d", w.Code)
	}
}

// [自证通过] internal/api/handler/handler_test.go
