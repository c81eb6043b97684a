/*
Package errs provides custom error types and application-level error code constants.

This file defines the map from error codes to the CustomError struct, used to
standardize HTTP responses and socket error events.
*/
package errs

import "net/http"

// errorMap stores the CustomError template for every application error code.
// A zero Status falls back to HTTP 200 for socket-originated errors that are
// delivered as events rather than HTTP responses.
var errorMap = map[int]CustomError{
	// 1xxx: General Request Handling Errors
	ErrInvalidParams:        {Code: ErrInvalidParams, Message: "Invalid request parameters."},
	ErrUnsupportedMediaType: {Code: ErrUnsupportedMediaType, Message: "Unsupported request format."},
	ErrInvalidJSONFormat:    {Code: ErrInvalidJSONFormat, Message: "Unsupported request format."},
	ErrExtraContentInBody:   {Code: ErrExtraContentInBody, Message: "Request contains unexpected data."},
	ErrRateLimitExceeded:    {Code: ErrRateLimitExceeded, Message: "Too many requests. Please try again later.", Status: http.StatusTooManyRequests},

	// 2xxx: Room Errors
	ErrRoomIDRequired: {Code: ErrRoomIDRequired, Message: "Room ID is required."},
	ErrRoomNotFound:   {Code: ErrRoomNotFound, Message: "Room not found.", Status: http.StatusNotFound},
	ErrRoomJoinFailed: {Code: ErrRoomJoinFailed, Message: "Could not join the room. Please try again."},

	// 3xxx: Authentication and Session Errors
	ErrTokenMissing:       {Code: ErrTokenMissing, Message: "No token provided."},
	ErrTokenInvalid:       {Code: ErrTokenInvalid, Message: "Invalid or expired token."},
	ErrNotAuthenticated:   {Code: ErrNotAuthenticated, Message: "Not authenticated."},
	ErrInvalidCredentials: {Code: ErrInvalidCredentials, Message: "Incorrect email or password."},
	ErrInvalidEmail:       {Code: ErrInvalidEmail, Message: "Invalid email address."},
	ErrInvalidPassword:    {Code: ErrInvalidPassword, Message: "Invalid password."},
	ErrInvalidRole:        {Code: ErrInvalidRole, Message: "Invalid account role."},
	ErrUserAlreadyExists:  {Code: ErrUserAlreadyExists, Message: "An account with this email already exists."},
	ErrUnauthorized:       {Code: ErrUnauthorized, Message: "Please sign in to continue.", Status: http.StatusUnauthorized},

	// 4xxx: Signaling Errors
	ErrSignalRequired: {Code: ErrSignalRequired, Message: "Room ID and signal are required."},

	// 5xxx: Internal System Errors
	ErrUnknown:     {Code: ErrUnknown, Message: "Something went wrong. Please try again.", Status: http.StatusInternalServerError},
	ErrPersistence: {Code: ErrPersistence, Message: "Storage is temporarily unavailable.", Status: http.StatusInternalServerError},
}
