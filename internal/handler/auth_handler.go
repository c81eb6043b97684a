/*
Package handler provides HTTP handler functions for account registration and login.
*/
package handler

import (
	"net/http"
	"regexp"
	"time"
	"unicode/utf8"

	"golang.org/x/crypto/bcrypt"

	"doceasy/internal/app/db"
	"doceasy/internal/pkg/auth/jwt"
	"doceasy/internal/pkg/errs"
	"doceasy/internal/pkg/logx"
	"doceasy/internal/pkg/req"
	"doceasy/internal/pkg/resp"
)

var emailRegex = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// allowedRoles is the accepted account role set. The relay itself only
// forwards the role value; enforcement happens here at account creation.
var allowedRoles = map[string]struct{}{
	"patient": {},
	"doctor":  {},
	"admin":   {},
}

type RegisterInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
	Role     string `json:"role"`
}

// HandleRegister creates a new account and issues an access token for it.
func HandleRegister(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if deps.Users == nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrPersistence))
			return
		}

		var input RegisterInput
		if customErr := req.BindJSON(r, &input); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		if !emailRegex.MatchString(input.Email) {
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidEmail))
			return
		}

		passwordLen := utf8.RuneCountInString(input.Password)
		if passwordLen < 6 || passwordLen > 72 {
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidPassword))
			return
		}

		if _, ok := allowedRoles[input.Role]; !ok {
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidRole))
			return
		}

		if input.Name == "" {
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidParams))
			return
		}

		hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
		if err != nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		user, err := deps.Users.CreateUser(r.Context(), input.Email, string(hashedPassword), input.Name, input.Role)
		if err != nil {
			if db.IsUniqueViolation(err) {
				logx.Warn("registration conflict: email already exists", "email", input.Email)
				resp.RespondError(w, r, errs.NewError(errs.ErrUserAlreadyExists))
				return
			}

			logx.Error(err, "failed to create user in database")
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		if err := deps.Users.UpdateLastLogin(r.Context(), user.ID); err != nil {
			logx.Error(err, "register: failed to update last_login_at", "user_id", user.ID)
		}

		identity := jwt.Identity{UserID: user.ID, Role: user.Role}

		tokenString, err := jwt.GenerateToken(identity, deps.Config.JWTSecret, deps.Config.JWTExpiry)
		if err != nil {
			logx.Error(err, "failed to generate token after registration")
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		resp.RespondSuccess(w, r, map[string]any{
			"token": tokenString,
			"user": map[string]any{
				"id":    user.ID,
				"email": user.Email,
				"name":  user.Name,
				"role":  user.Role,
			},
		})
	}
}

type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// HandleLogin verifies credentials and issues the access token that both the
// REST API and the signaling socket accept.
func HandleLogin(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if deps.Users == nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrPersistence))
			return
		}

		var input LoginInput
		if customErr := req.BindJSON(r, &input); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		user, err := deps.Users.GetUserByEmail(r.Context(), input.Email)
		if err != nil {
			logx.Warn("login: user fetch failed", "email", input.Email, "error", err)
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidCredentials))
			return
		}

		if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
			logx.Warn("login: password mismatch", "email", input.Email)
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidCredentials))
			return
		}

		if err := deps.Users.UpdateLastLogin(r.Context(), user.ID); err != nil {
			logx.Error(err, "login: failed to update last_login_at", "user_id", user.ID)
		}

		identity := jwt.Identity{UserID: user.ID, Role: user.Role}

		tokenString, err := jwt.GenerateToken(identity, deps.Config.JWTSecret, deps.Config.JWTExpiry)
		if err != nil {
			logx.Error(err, "login: jwt generation failed")
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		resp.RespondSuccess(w, r, map[string]any{
			"token": tokenString,
			"user": map[string]any{
				"id":          user.ID,
				"email":       user.Email,
				"name":        user.Name,
				"role":        user.Role,
				"lastLoginAt": time.Now().Format(time.RFC3339),
			},
		})
	}
}

// HandleProfile returns the authenticated account's profile.
func HandleProfile(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity := jwt.GetIdentityFromContext(r)
		if identity == nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrUnauthorized))
			return
		}

		if deps.Users == nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrPersistence))
			return
		}

		user, err := deps.Users.GetUserByID(r.Context(), identity.UserID)
		if err != nil {
			logx.Warn("profile: user not found", "user_id", identity.UserID)
			resp.RespondError(w, r, errs.NewError(errs.ErrUnauthorized))
			return
		}

		var lastLogin any
		if user.LastLoginAt != nil {
			lastLogin = user.LastLoginAt.Format(time.RFC3339)
		}

		resp.RespondSuccess(w, r, map[string]any{
			"user": map[string]any{
				"id":          user.ID,
				"email":       user.Email,
				"name":        user.Name,
				"role":        user.Role,
				"lastLoginAt": lastLogin,
			},
		})
	}
}
