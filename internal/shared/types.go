package shared

// shared types across the application

// AuthClaims is the identity extracted from a verified access token. The
// auth middleware resolves it once per request; services only ever see the
// user id as an explicit parameter.
type AuthClaims struct {
	UserID string `json:"user_id"` // user identifier (UUID)
	Role   string `json:"role"`    // "user" or "admin"
}
