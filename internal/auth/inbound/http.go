package inbound

import (
	"context"

	"github.com/auriga-labs/authgate/internal/auth/usecase"
	"github.com/auriga-labs/authgate/internal/pkg/router"
)

type uc interface {
	Register(ctx context.Context, in usecase.RegisterInput) error
	RegisterVerify(ctx context.Context, in usecase.RegisterVerifyInput) error

	Login(ctx context.Context, in usecase.LoginInput) error
	LoginVerify(ctx context.Context, in usecase.LoginVerifyInput) (*usecase.LoginVerifyOutput, error)

	OtpResend(ctx context.Context, in usecase.OtpResendInput) error

	PasswordForgot(ctx context.Context, in usecase.PasswordForgotInput) error
	PasswordReset(ctx context.Context, in usecase.PasswordResetInput) error

	CurrentUser(ctx context.Context) (*usecase.CurrentUserOutput, error)
}

func RegisterHTTPEndpoint(r *router.Router, uc uc) {
	end := &HTTPEndpoint{uc: uc}

	// Registration
	r.POST("/api/v1/auth/register", end.Register)
	r.POST("/api/v1/auth/verify-registration", end.RegisterVerify)

	// Login
	r.POST("/api/v1/auth/login", end.Login)
	r.POST("/api/v1/auth/verify-login", end.LoginVerify)

	// OTP management
	r.POST("/api/v1/auth/resend-otp", end.OtpResend)

	// Password recovery
	r.POST("/api/v1/auth/forgot-password", end.PasswordForgot)
	r.POST("/api/v1/auth/reset-password", end.PasswordReset)

	// Session introspection (need authenticated)
	r.GET("/api/v1/auth/current-user", end.CurrentUser)
}
