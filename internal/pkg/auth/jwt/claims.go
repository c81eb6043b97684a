package jwt

import "github.com/golang-jwt/jwt"

// Claims defines the JWT claims issued to doceasy accounts.
// The same token authenticates REST calls and signaling socket sessions.
type Claims struct {
	// StandardClaims embeds the JWT standard fields (Exp, Iat, Iss) used for
	// token validity checks.
	jwt.StandardClaims

	// UserID is the account identifier of the token holder.
	UserID string `json:"user_id"`

	// Role is the account role (patient, doctor, admin). The signaling relay
	// forwards the value but does not enforce the set.
	Role string `json:"role"`
}

// Identity is the verified identity extracted from a bearer token.
// It is what gets bound to a live socket connection.
type Identity struct {
	UserID string `json:"user_id"`
	Role   string `json:"role"`
}
