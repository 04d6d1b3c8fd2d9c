package inbound

import (
	"github.com/auriga-labs/authgate/internal/auth/usecase"
	"github.com/auriga-labs/authgate/internal/pkg/router"
)

// HTTPEndpoint exposes HTTP handlers for the OTP-gated authentication flows.
type HTTPEndpoint struct {
	uc uc
}

// Register creates an unverified account and dispatches a registration OTP.
func (h *HTTPEndpoint) Register(r *router.Request) (any, error) {
	var req RegisterRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	if err := h.uc.Register(r.Context(), usecase.RegisterInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	}); err != nil {
		return nil, err
	}

	return RegisterResponse{}, nil
}

// RegisterVerify activates an account using the emailed registration OTP.
func (h *HTTPEndpoint) RegisterVerify(r *router.Request) (any, error) {
	var req RegisterVerifyRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	if err := h.uc.RegisterVerify(r.Context(), usecase.RegisterVerifyInput{
		Email: req.Email,
		Otp:   req.Otp,
	}); err != nil {
		return nil, err
	}

	return RegisterVerifyResponse{}, nil
}

// Login validates credentials and dispatches a login OTP.
func (h *HTTPEndpoint) Login(r *router.Request) (any, error) {
	var req LoginRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	if err := h.uc.Login(r.Context(), usecase.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	}); err != nil {
		return nil, err
	}

	return LoginResponse{}, nil
}

// LoginVerify completes a pending login with the emailed OTP and returns the
// session token.
func (h *HTTPEndpoint) LoginVerify(r *router.Request) (any, error) {
	var req LoginVerifyRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	resp, err := h.uc.LoginVerify(r.Context(), usecase.LoginVerifyInput{
		Email: req.Email,
		Otp:   req.Otp,
	})
	if err != nil {
		return nil, err
	}

	return LoginVerifyResponse{
		Token:    resp.Token,
		Username: resp.Username,
		Email:    resp.Email,
	}, nil
}

// OtpResend re-issues the OTP for an in-flight registration or login.
func (h *HTTPEndpoint) OtpResend(r *router.Request) (any, error) {
	var req OtpResendRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	if err := h.uc.OtpResend(r.Context(), usecase.OtpResendInput{
		Email: req.Email,
		Type:  req.Type,
	}); err != nil {
		return nil, err
	}

	return OtpResendResponse{}, nil
}

// PasswordForgot starts password recovery. The response never reveals whether
// the address is registered.
func (h *HTTPEndpoint) PasswordForgot(r *router.Request) (any, error) {
	var req PasswordForgotRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	if err := h.uc.PasswordForgot(r.Context(), usecase.PasswordForgotInput{
		Email: req.Email,
	}); err != nil {
		return nil, err
	}

	return PasswordForgotResponse{}, nil
}

// PasswordReset replaces the credential after verifying the reset OTP.
func (h *HTTPEndpoint) PasswordReset(r *router.Request) (any, error) {
	var req PasswordResetRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	if err := h.uc.PasswordReset(r.Context(), usecase.PasswordResetInput{
		Email:       req.Email,
		Otp:         req.Otp,
		NewPassword: req.NewPassword,
	}); err != nil {
		return nil, err
	}

	return PasswordResetResponse{}, nil
}

// CurrentUser returns the authenticated account's stored state.
func (h *HTTPEndpoint) CurrentUser(r *router.Request) (any, error) {
	resp, err := h.uc.CurrentUser(r.Context())
	if err != nil {
		return nil, err
	}

	return CurrentUserResponse{
		ID:            resp.ID,
		Username:      resp.Username,
		Email:         resp.Email,
		Enabled:       resp.Enabled,
		EmailVerified: resp.EmailVerified,
	}, nil
}
