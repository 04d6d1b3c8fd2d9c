package entity

import "errors"

var (
	ErrAccountDisabled  = errors.New("auth: account is disabled")
	ErrEmailNotVerified = errors.New("auth: email is not verified")
)

// OtpPurpose scopes a one-time code to a single flow. Codes issued for one
// purpose never verify under another.
type OtpPurpose int16

const (
	OtpPurposeUnknown       OtpPurpose = 0
	OtpPurposeRegistration  OtpPurpose = 1
	OtpPurposeLogin         OtpPurpose = 2
	OtpPurposePasswordReset OtpPurpose = 3
)

func OtpPurposeFromString(str string) OtpPurpose {
	switch str {
	case "REGISTRATION":
		return OtpPurposeRegistration
	case "LOGIN":
		return OtpPurposeLogin
	case "PASSWORD_RESET":
		return OtpPurposePasswordReset
	default:
		return OtpPurposeUnknown
	}
}

func (p OtpPurpose) String() string {
	switch p {
	case OtpPurposeRegistration:
		return "REGISTRATION"
	case OtpPurposeLogin:
		return "LOGIN"
	case OtpPurposePasswordReset:
		return "PASSWORD_RESET"
	default:
		return "UNKNOWN"
	}
}

func (p OtpPurpose) IsUnknown() bool {
	switch p {
	case OtpPurposeRegistration, OtpPurposeLogin, OtpPurposePasswordReset:
		return false
	default:
		return true
	}
}

// OtpVerdict is the outcome of a ledger verification attempt.
type OtpVerdict int16

const (
	OtpVerdictOK OtpVerdict = iota
	OtpVerdictNotFound
	OtpVerdictExpired
	OtpVerdictAlreadyConsumed
	OtpVerdictTooManyAttempts
	OtpVerdictMismatch
)

func (v OtpVerdict) String() string {
	switch v {
	case OtpVerdictOK:
		return "OK"
	case OtpVerdictNotFound:
		return "NotFound"
	case OtpVerdictExpired:
		return "Expired"
	case OtpVerdictAlreadyConsumed:
		return "AlreadyConsumed"
	case OtpVerdictTooManyAttempts:
		return "TooManyAttempts"
	case OtpVerdictMismatch:
		return "Mismatch"
	default:
		return "Unknown"
	}
}
