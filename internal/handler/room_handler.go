/*
Package handler provides HTTP handler functions for consultation room management.
*/
package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"doceasy/internal/app/room"
	"doceasy/internal/pkg/auth/jwt"
	"doceasy/internal/pkg/errs"
	"doceasy/internal/pkg/randx"
	"doceasy/internal/pkg/resp"
)

// HandleCreateRoom mints a fresh consultation room code. The room document
// itself is created lazily when the first participant joins over the socket.
func HandleCreateRoom(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity := jwt.GetIdentityFromContext(r)
		if identity == nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrUnauthorized))
			return
		}

		roomCode, err := randx.RoomCode()
		if err != nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		resp.RespondSuccess(w, r, map[string]any{
			"room_id": roomCode,
		})
	}
}

// HandleGetRoom returns a summary of the room document for inspection:
// status, roster, message count, and the live connection count on this
// instance. Admin/ops surface, not part of the signaling path.
func HandleGetRoom(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity := jwt.GetIdentityFromContext(r)
		if identity == nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrUnauthorized))
			return
		}

		roomID := chi.URLParam(r, "id")
		if roomID == "" {
			resp.RespondError(w, r, errs.NewError(errs.ErrRoomIDRequired))
			return
		}

		doc, err := deps.Store.FindByID(r.Context(), roomID)
		if err != nil {
			if err == room.ErrNotFound {
				resp.RespondError(w, r, errs.NewError(errs.ErrRoomNotFound))
				return
			}
			resp.RespondError(w, r, errs.NewError(errs.ErrPersistence))
			return
		}

		resp.RespondSuccess(w, r, map[string]any{
			"room": map[string]any{
				"room_id":          doc.RoomID,
				"created_by":       doc.CreatedBy,
				"status":           doc.Status,
				"participants":     doc.Participants,
				"message_count":    len(doc.Messages),
				"live_connections": deps.Relay.Hub().RoomSize(doc.RoomID),
				"created_at":       doc.CreatedAt,
			},
		})
	}
}
