package inbound

type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RegisterResponse struct{}

func (RegisterResponse) Message() string {
	return "Registration successful. Please check your email for OTP verification."
}

func (RegisterResponse) Data() any { return nil }

type RegisterVerifyRequest struct {
	Email string `json:"email"`
	Otp   string `json:"otp"`
}

type RegisterVerifyResponse struct{}

func (RegisterVerifyResponse) Message() string {
	return "Email verified successfully. You can now login."
}

func (RegisterVerifyResponse) Data() any { return nil }

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct{}

func (LoginResponse) Message() string {
	return "OTP sent to your email. Please verify to complete login."
}

func (LoginResponse) Data() any { return nil }

type LoginVerifyRequest struct {
	Email string `json:"email"`
	Otp   string `json:"otp"`
}

type LoginVerifyResponse struct {
	Token    string `json:"token"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

func (LoginVerifyResponse) Message() string {
	return "Login successful"
}

type OtpResendRequest struct {
	Email string `json:"email"`
	Type  string `json:"type"`
}

type OtpResendResponse struct{}

func (OtpResendResponse) Message() string {
	return "OTP sent successfully. Please check your email."
}

func (OtpResendResponse) Data() any { return nil }

type PasswordForgotRequest struct {
	Email string `json:"email"`
}

type PasswordForgotResponse struct{}

func (PasswordForgotResponse) Message() string {
	return "If the email exists, a password reset OTP has been sent."
}

func (PasswordForgotResponse) Data() any { return nil }

type PasswordResetRequest struct {
	Email       string `json:"email"`
	Otp         string `json:"otp"`
	NewPassword string `json:"newPassword"`
}

type PasswordResetResponse struct{}

func (PasswordResetResponse) Message() string {
	return "Password reset successful. You can now login with your new password."
}

func (PasswordResetResponse) Data() any { return nil }

type CurrentUserResponse struct {
	ID            int64  `json:"id,string"`
	Username      string `json:"username"`
	Email         string `json:"email"`
	Enabled       bool   `json:"enabled"`
	EmailVerified bool   `json:"emailVerified"`
}
