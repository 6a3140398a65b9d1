package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	apperrors "github.com/optimahq/optima/pkg/app/errors"
	"github.com/optimahq/optima/pkg/user"
)

type MockService struct {
	RegisterFunc       func(ctx context.Context, req *RegisterRequest) (*AuthResult, error)
	LoginFunc          func(ctx context.Context, identifier, password string) (*AuthResult, error)
	AdminLoginFunc     func(ctx context.Context, username, password string) (*AuthResult, error)
	ForgotPasswordFunc func(ctx context.Context, username, phoneNumber string) (string, error)
	ResetPasswordFunc  func(ctx context.Context, token, newPassword string) error
}

func (m *MockService) Register(ctx context.Context, req *RegisterRequest) (*AuthResult, error) {
	if m.RegisterFunc != nil {
		return m.RegisterFunc(ctx, req)
	}
	return nil, apperrors.GeneralError(nil, "not implemented")
}

func (m *MockService) Login(ctx context.Context, identifier, password string) (*AuthResult, error) {
	if m.LoginFunc != nil {
		return m.LoginFunc(ctx, identifier, password)
	}
	return nil, apperrors.GeneralError(nil, "not implemented")
}

func (m *MockService) AdminLogin(ctx context.Context, username, password string) (*AuthResult, error) {
	if m.AdminLoginFunc != nil {
		return m.AdminLoginFunc(ctx, username, password)
	}
	return nil, apperrors.GeneralError(nil, "not implemented")
}

func (m *MockService) ForgotPassword(ctx context.Context, username, phoneNumber string) (string, error) {
	if m.ForgotPasswordFunc != nil {
		return m.ForgotPasswordFunc(ctx, username, phoneNumber)
	}
	return "", apperrors.GeneralError(nil, "not implemented")
}

func (m *MockService) ResetPassword(ctx context.Context, token, newPassword string) error {
	if m.ResetPasswordFunc != nil {
		return m.ResetPasswordFunc(ctx, token, newPassword)
	}
	return apperrors.GeneralError(nil, "not implemented")
}

type stubCookies struct{}

func (stubCookies) SessionCookie(token string) *http.Cookie {
	return &http.Cookie{Name: "optima_session", Value: token, Path: "/"}
}

func (stubCookies) ClearCookie() *http.Cookie {
	return &http.Cookie{Name: "optima_session", Value: "", Path: "/", MaxAge: -1}
}

func newTestRouter(svc Service) chi.Router {
	r := chi.NewRouter()
	RegisterRoutes(r, svc, stubCookies{}, zap.NewNop())
	return r
}

func TestRegisterEndpoint(t *testing.T) {
	svc := &MockService{
		RegisterFunc: func(ctx context.Context, req *RegisterRequest) (*AuthResult, error) {
			if req.Username != "alice" || !req.AgreedToTerms {
				t.Fatalf("request not decoded: %+v", req)
			}
			return &AuthResult{
				User:  &user.User{Username: "alice", InvitationCode: "AB23CDE"},
				Token: "session-token",
			}, nil
		},
	}

	body := `{"username":"alice","email":"a@b.c","phoneNumber":"1555","loginPassword":"hunter22",` +
		`"withdrawalPassword":"withdraw22","gender":"female","referralCode":"TYLX98M","agreedToTerms":true}`
	req := httptest.NewRequest(http.MethodPost, "/register", strings.NewReader(body))
	rec := httptest.NewRecorder()
	newTestRouter(svc).ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var res struct {
		Success        bool   `json:"success"`
		InvitationCode string `json:"invitationCode"`
		Token          string `json:"token"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if !res.Success || res.InvitationCode != "AB23CDE" || res.Token != "session-token" {
		t.Fatalf("unexpected response: %+v", res)
	}

	cookies := rec.Result().Cookies()
	if len(cookies) != 1 || cookies[0].Value != "session-token" {
		t.Fatalf("expected the session cookie to be set, got %+v", cookies)
	}
}

func TestLoginEndpointMapsUnauthorized(t *testing.T) {
	svc := &MockService{
		LoginFunc: func(ctx context.Context, identifier, password string) (*AuthResult, error) {
			return nil, apperrors.UnAuthorizedError(ErrInvalidCredentials, "invalid credentials")
		},
	}

	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(`{"username":"alice","password":"bad"}`))
	rec := httptest.NewRecorder()
	newTestRouter(svc).ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestLoginEndpointSetsCookie(t *testing.T) {
	svc := &MockService{
		LoginFunc: func(ctx context.Context, identifier, password string) (*AuthResult, error) {
			return &AuthResult{User: &user.User{Username: identifier}, Token: "tok"}, nil
		},
	}

	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(`{"username":"alice","password":"hunter22"}`))
	rec := httptest.NewRecorder()
	newTestRouter(svc).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	cookies := rec.Result().Cookies()
	if len(cookies) != 1 || cookies[0].Value != "tok" {
		t.Fatalf("expected the session cookie to be set, got %+v", cookies)
	}
}

func TestLogoutClearsCookie(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/logout", nil)
	rec := httptest.NewRecorder()
	newTestRouter(&MockService{}).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	cookies := rec.Result().Cookies()
	if len(cookies) != 1 || cookies[0].MaxAge != -1 {
		t.Fatalf("expected an expiring cookie, got %+v", cookies)
	}
}

func TestResetPasswordEndpoint(t *testing.T) {
	var gotToken, gotPassword string
	svc := &MockService{
		ResetPasswordFunc: func(ctx context.Context, token, newPassword string) error {
			gotToken, gotPassword = token, newPassword
			return nil
		},
	}

	req := httptest.NewRequest(http.MethodPost, "/reset-password", strings.NewReader(`{"token":"tok","newPassword":"newsecret"}`))
	rec := httptest.NewRecorder()
	newTestRouter(svc).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if gotToken != "tok" || gotPassword != "newsecret" {
		t.Fatalf("request not decoded, token=%q password=%q", gotToken, gotPassword)
	}
}

func TestRegisterEndpointRejectsBadJSON(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/register", strings.NewReader(`{not json`))
	rec := httptest.NewRecorder()
	newTestRouter(&MockService{}).ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}
