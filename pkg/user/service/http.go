package service

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	apperrors "github.com/optimahq/optima/pkg/app/errors"
	apphttp "github.com/optimahq/optima/pkg/app/http"
)

// CookieManager issues and clears the session cookie.
type CookieManager interface {
	SessionCookie(token string) *http.Cookie
	ClearCookie() *http.Cookie
}

type handler struct {
	service Service
	cookies CookieManager
	logger  *zap.Logger
}

// RegisterRoutes registers the identity routes on the router. These routes
// are unauthenticated; they establish the session other surfaces require.
func RegisterRoutes(r chi.Router, service Service, cookies CookieManager, logger *zap.Logger) {
	h := &handler{service: service, cookies: cookies, logger: logger}

	r.Post("/register", apphttp.HandleError(h.register))
	r.Post("/login", apphttp.HandleError(h.login))
	r.Post("/logout", apphttp.HandleError(h.logout))
	r.Post("/admin/login", apphttp.HandleError(h.adminLogin))
	r.Post("/forgot-password", apphttp.HandleError(h.forgotPassword))
	r.Post("/reset-password", apphttp.HandleError(h.resetPassword))
}

type registerRequest struct {
	Username           string `json:"username"`
	Email              string `json:"email"`
	PhoneNumber        string `json:"phoneNumber"`
	LoginPassword      string `json:"loginPassword"`
	WithdrawalPassword string `json:"withdrawalPassword"`
	Gender             string `json:"gender"`
	ReferralCode       string `json:"referralCode"`
	AgreedToTerms      bool   `json:"agreedToTerms"`
}

type authResponse struct {
	Success        bool   `json:"success"`
	Username       string `json:"username"`
	InvitationCode string `json:"invitationCode,omitempty"`
	Token          string `json:"token"`
}

func (h *handler) register(w http.ResponseWriter, r *http.Request) error {
	var req registerRequest
	if err := apphttp.DecodeJSON(r, &req); err != nil {
		return apperrors.BadRequestError(err, "invalid request body")
	}

	res, err := h.service.Register(r.Context(), &RegisterRequest{
		Username:           req.Username,
		Email:              req.Email,
		PhoneNumber:        req.PhoneNumber,
		LoginPassword:      req.LoginPassword,
		WithdrawalPassword: req.WithdrawalPassword,
		Gender:             req.Gender,
		ReferralCode:       req.ReferralCode,
		AgreedToTerms:      req.AgreedToTerms,
	})
	if err != nil {
		return err
	}

	http.SetCookie(w, h.cookies.SessionCookie(res.Token))
	return apphttp.WriteJSON(w, http.StatusCreated, authResponse{
		Success:        true,
		Username:       res.User.Username,
		InvitationCode: res.User.InvitationCode,
		Token:          res.Token,
	})
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (h *handler) login(w http.ResponseWriter, r *http.Request) error {
	var req loginRequest
	if err := apphttp.DecodeJSON(r, &req); err != nil {
		return apperrors.BadRequestError(err, "invalid request body")
	}

	res, err := h.service.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		return err
	}

	http.SetCookie(w, h.cookies.SessionCookie(res.Token))
	return apphttp.WriteJSON(w, http.StatusOK, authResponse{
		Success:        true,
		Username:       res.User.Username,
		InvitationCode: res.User.InvitationCode,
		Token:          res.Token,
	})
}

func (h *handler) logout(w http.ResponseWriter, r *http.Request) error {
	http.SetCookie(w, h.cookies.ClearCookie())
	return apphttp.WriteJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (h *handler) adminLogin(w http.ResponseWriter, r *http.Request) error {
	var req loginRequest
	if err := apphttp.DecodeJSON(r, &req); err != nil {
		return apperrors.BadRequestError(err, "invalid request body")
	}

	res, err := h.service.AdminLogin(r.Context(), req.Username, req.Password)
	if err != nil {
		return err
	}

	http.SetCookie(w, h.cookies.SessionCookie(res.Token))
	return apphttp.WriteJSON(w, http.StatusOK, authResponse{
		Success:  true,
		Username: res.User.Username,
		Token:    res.Token,
	})
}

type forgotPasswordRequest struct {
	Username    string `json:"username"`
	PhoneNumber string `json:"phoneNumber"`
}

func (h *handler) forgotPassword(w http.ResponseWriter, r *http.Request) error {
	var req forgotPasswordRequest
	if err := apphttp.DecodeJSON(r, &req); err != nil {
		return apperrors.BadRequestError(err, "invalid request body")
	}

	token, err := h.service.ForgotPassword(r.Context(), req.Username, req.PhoneNumber)
	if err != nil {
		return err
	}

	return apphttp.WriteJSON(w, http.StatusOK, map[string]any{
		"success":    true,
		"resetToken": token,
	})
}

type resetPasswordRequest struct {
	Token       string `json:"token"`
	NewPassword string `json:"newPassword"`
}

func (h *handler) resetPassword(w http.ResponseWriter, r *http.Request) error {
	var req resetPasswordRequest
	if err := apphttp.DecodeJSON(r, &req); err != nil {
		return apperrors.BadRequestError(err, "invalid request body")
	}

	if err := h.service.ResetPassword(r.Context(), req.Token, req.NewPassword); err != nil {
		return err
	}

	return apphttp.WriteJSON(w, http.StatusOK, map[string]bool{"success": true})
}
