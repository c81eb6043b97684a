/*
Package errs provides custom error types and application-level error code constants.

These codes identify specific business or system errors both internally and in
responses sent to clients, over REST and over the signaling socket alike.
*/
package errs

// 1xxx: General Request Handling Errors
const (
	// ErrInvalidParams indicates that request parameter validation failed.
	ErrInvalidParams = 1001

	// ErrUnsupportedMediaType indicates that the request Content-Type is not supported.
	ErrUnsupportedMediaType = 1002

	// ErrInvalidJSONFormat indicates that the request body JSON is malformed.
	ErrInvalidJSONFormat = 1003

	// ErrExtraContentInBody indicates that the request body contained trailing content after valid JSON.
	ErrExtraContentInBody = 1004

	// ErrRateLimitExceeded indicates that the request rate has exceeded the configured limit.
	ErrRateLimitExceeded = 1005
)

// 2xxx: Room Errors
const (
	// ErrRoomIDRequired indicates that an operation requiring a room id was called without one.
	ErrRoomIDRequired = 2001

	// ErrRoomNotFound indicates that the requested room does not exist in the store.
	ErrRoomNotFound = 2002

	// ErrRoomJoinFailed indicates that joining a room failed for an internal reason.
	ErrRoomJoinFailed = 2003
)

// 3xxx: Authentication and Session Errors
const (
	// ErrTokenMissing indicates that no bearer token was supplied.
	ErrTokenMissing = 3001

	// ErrTokenInvalid indicates a malformed, forged, or expired token.
	ErrTokenInvalid = 3002

	// ErrNotAuthenticated indicates an operation attempted before a successful authenticate.
	ErrNotAuthenticated = 3003

	// ErrInvalidCredentials indicates a failed email/password login attempt.
	ErrInvalidCredentials = 3004

	// ErrInvalidEmail indicates that the supplied email address is not acceptable.
	ErrInvalidEmail = 3005

	// ErrInvalidPassword indicates that the supplied password does not meet requirements.
	ErrInvalidPassword = 3006

	// ErrInvalidRole indicates a role outside the accepted set (patient, doctor, admin).
	ErrInvalidRole = 3007

	// ErrUserAlreadyExists indicates that the email is already registered.
	ErrUserAlreadyExists = 3008

	// ErrUnauthorized indicates a REST request without a valid identity.
	ErrUnauthorized = 3009
)

// 4xxx: Signaling Errors
const (
	// ErrSignalRequired indicates that a webrtc_signal event carried no payload.
	ErrSignalRequired = 4001
)

// 5xxx: Internal System Errors
const (
	// ErrUnknown represents an unclassified internal server error.
	ErrUnknown = 5000

	// ErrPersistence indicates that the document store was unavailable or a write failed.
	ErrPersistence = 5001
)
