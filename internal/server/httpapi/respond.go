package httpapi

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/devhubhq/devhub/internal/server/models"
)

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

func writeErrors(w http.ResponseWriter, status int, messages []string) {
	writeJSON(w, status, map[string][]string{"errors": messages})
}

// userJSON is the wire shape of a user. The password digest and persistence
// token never leave the server.
type userJSON struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Admin     bool      `json:"admin"`
	CreatedAt time.Time `json:"created_at"`
}

func presentUser(u *models.User) userJSON {
	return userJSON{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Admin:     u.Admin,
		CreatedAt: u.CreatedAt,
	}
}
