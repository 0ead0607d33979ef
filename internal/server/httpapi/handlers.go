package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/devhubhq/devhub/internal/common"
	"github.com/devhubhq/devhub/internal/server/services"
)

type sessionRequest struct {
	Session struct {
		Email      string `json:"email"`
		Password   string `json:"password"`
		RememberMe bool   `json:"remember_me"`
	} `json:"session"`
}

type registrationRequest struct {
	User struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
	} `json:"user"`
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type sessionResponse struct {
	User         userJSON `json:"user"`
	AccessToken  string   `json:"access_token"`
	RefreshToken string   `json:"refresh_token"`
}

// handleCreateSession is POST /session: password login. Success opens a
// cookie session and returns a token pair; failure is a single generic 401.
func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var req sessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrors(w, http.StatusBadRequest, []string{"Invalid request body"})
		return
	}

	user, pair, err := s.users.Login(r.Context(), req.Session.Email, req.Session.Password)
	if err != nil {
		if errors.Is(err, common.ErrInvalidCredentials) {
			writeErrors(w, http.StatusUnauthorized, []string{"Email or password is invalid"})
			return
		}
		s.logger.Error(r.Context(), "error logging in", "error", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	http.SetCookie(w, s.cookies.SessionCookie(user.PersistenceToken, req.Session.RememberMe))
	writeJSON(w, http.StatusCreated, sessionResponse{
		User:         presentUser(user),
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	})
}

// handleDestroySession is DELETE /session: always 204. Bearer-only clients
// have nothing to destroy server-side; cookie sessions get their
// persistence token rotated so the cookie goes stale everywhere.
func (s *Server) handleDestroySession(w http.ResponseWriter, r *http.Request) {
	if user := UserFromContext(r.Context()); user != nil {
		if err := s.users.DestroySession(r.Context(), user.ID); err != nil {
			s.logger.Error(r.Context(), "error destroying session", "error", err)
		}
	}

	http.SetCookie(w, s.cookies.ClearCookie())
	w.WriteHeader(http.StatusNoContent)
}

// handleRefreshSession is POST /session/refresh: exchanges a refresh token
// for a new pair.
func (s *Server) handleRefreshSession(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrors(w, http.StatusBadRequest, []string{"Invalid request body"})
		return
	}

	pair, err := s.users.RefreshTokenPair(r.Context(), req.RefreshToken)
	if err != nil {
		switch {
		case errors.Is(err, common.ErrTokenExpired),
			errors.Is(err, common.ErrTokenMalformed),
			errors.Is(err, common.ErrTokenWrongType),
			errors.Is(err, common.ErrorUnauthorized):
			writeErrors(w, http.StatusUnauthorized, []string{"Invalid or expired refresh token"})
		default:
			s.logger.Error(r.Context(), "error refreshing tokens", "error", err)
			writeError(w, http.StatusInternalServerError, "Internal server error")
		}
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"access_token":  pair.AccessToken,
		"refresh_token": pair.RefreshToken,
	})
}

// handleProfile is GET /profile: echoes the current user resolved by either
// authentication mode.
func (s *Server) handleProfile(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())
	if user == nil {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	writeJSON(w, http.StatusOK, map[string]userJSON{"user": presentUser(user)})
}

// handleRegister is POST /users: public registration. A successful signup
// opens a session right away, like login.
func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registrationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrors(w, http.StatusBadRequest, []string{"Invalid request body"})
		return
	}

	user, pair, err := s.users.Register(r.Context(), req.User.Name, req.User.Email, req.User.Password)
	if err != nil {
		var verr *services.ValidationError
		if errors.As(err, &verr) {
			writeErrors(w, http.StatusUnprocessableEntity, verr.Messages)
			return
		}
		s.logger.Error(r.Context(), "error registering user", "error", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	http.SetCookie(w, s.cookies.SessionCookie(user.PersistenceToken, false))
	writeJSON(w, http.StatusCreated, sessionResponse{
		User:         presentUser(user),
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	})
}

func (s *Server) handleUp(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
