package handler

import (
	"doceasy/internal/app/db"
	"doceasy/internal/app/room"
	"doceasy/internal/app/signaling"
	"doceasy/internal/configs"
	"doceasy/internal/pkg/auth/jwt"
)

// AppDeps bundles the collaborators the HTTP handlers need.
type AppDeps struct {
	Config   *configs.AppConfig
	Relay    *signaling.Relay
	Store    room.Store
	Verifier *jwt.Verifier

	// Users is nil when the server runs without a database (development
	// in-memory mode); account endpoints are unavailable then.
	Users *db.Users
}
