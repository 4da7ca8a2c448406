package types

// MessageResponse is the body shape shared by every error response and by
// acknowledgement-only successes (delete, password change). Clients rely on
// the single "message" field; do not add others.
type MessageResponse struct {
	Message string `json:"message"`
}

func NewMessageResponse(message string) MessageResponse {
	return MessageResponse{Message: message}
}

// Canonical response messages. Handlers must use these rather than ad-hoc
// strings so the client contract stays stable.
const (
	MsgNoteNotFound         = "Note not found"
	MsgNoteDeleted          = "Note deleted successfully"
	MsgTitleContentRequired = "Title and content are required"

	MsgUserNotFound          = "User not found"
	MsgUsernameEmailRequired = "Username and email are required"
	MsgUsernameEmailTaken    = "Username or email already exists"
	MsgPasswordsRequired     = "Current password and new password are required"
	MsgNewPasswordTooShort   = "New password must be at least 6 characters long"
	MsgCurrentPasswordWrong  = "Current password is incorrect"
	MsgPasswordChanged       = "Password changed successfully"
	MsgPasswordRequired      = "Password is required to delete account"
	MsgPasswordWrong         = "Password is incorrect"
	MsgAccountDeleted        = "Account deleted successfully"

	MsgInvalidCredentials = "Invalid username or password"
	MsgTooManyRequests    = "Too many requests"
)
