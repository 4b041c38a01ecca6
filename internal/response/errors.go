package response

// ErrCode is a typed error code enum for consistent user-facing error identification.
type ErrCode string

const (
	// ─── Authentication ────────────────────────────────────────────────
	ErrInvalidCredentials ErrCode = "INVALID_CREDENTIALS"
	ErrSessionExpired     ErrCode = "SESSION_EXPIRED"
	ErrTokenRequired      ErrCode = "TOKEN_REQUIRED"
	ErrTokenInvalid       ErrCode = "TOKEN_INVALID"

	// ─── Authorization ─────────────────────────────────────────────────
	ErrForbidden   ErrCode = "FORBIDDEN"
	ErrUnknownRole ErrCode = "UNKNOWN_ROLE"

	// ─── Validation ────────────────────────────────────────────────────
	ErrInvalidID      ErrCode = "INVALID_ID"
	ErrInvalidDate    ErrCode = "INVALID_DATE"
	ErrInvalidPayload ErrCode = "INVALID_PAYLOAD"

	// ─── Upstream API ──────────────────────────────────────────────────
	ErrRequestFailed      ErrCode = "REQUEST_FAILED"
	ErrBackendUnavailable ErrCode = "BACKEND_UNAVAILABLE"

	// ─── Rate Limiting ─────────────────────────────────────────────────
	ErrRateLimitExceeded ErrCode = "RATE_LIMIT_EXCEEDED"

	// ─── Server ────────────────────────────────────────────────────────
	ErrInternal ErrCode = "INTERNAL_ERROR"
)

// GetMessage returns a human-readable message for a given error code.
func GetMessage(code ErrCode) string {
	switch code {
	// ─── Authentication ────────────────────────────────────────────────
	case ErrInvalidCredentials:
		return "Login failed. Please check your credentials."
	case ErrSessionExpired:
		return "Your session has ended. Please log in again."
	case ErrTokenRequired:
		return "Not authenticated"
	case ErrTokenInvalid:
		return "Could not validate credentials"

	// ─── Authorization ─────────────────────────────────────────────────
	case ErrForbidden:
		return "You do not have permission to access this resource."
	case ErrUnknownRole:
		return "Invalid user role. Please contact support."

	// ─── Validation ────────────────────────────────────────────────────
	case ErrInvalidID:
		return "Invalid ID format."
	case ErrInvalidDate:
		return "Please select a course and a date."
	case ErrInvalidPayload:
		return "Invalid request payload."

	// ─── Upstream API ──────────────────────────────────────────────────
	case ErrRequestFailed:
		return "The request failed. Please try again."
	case ErrBackendUnavailable:
		return "The college API is unreachable. Please try again later."

	// ─── Rate Limiting ─────────────────────────────────────────────────
	case ErrRateLimitExceeded:
		return "Too many requests. Please try again later."

	// ─── Server ────────────────────────────────────────────────────────
	case ErrInternal:
		return "Internal server error."
	default:
		return "An unexpected error occurred."
	}
}
