package api

import (
	"fmt"
	"net/http"

	"github.com/openhire/jobboard/pkg/models"
	"github.com/openhire/jobboard/pkg/repository"
)

type UsersHandler struct {
	userRepo repository.UserRepo
}

func NewUsersHandler(ur repository.UserRepo) *UsersHandler {
	return &UsersHandler{userRepo: ur}
}

func (h *UsersHandler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.userRepo.ListUsers(r.Context())
	if err != nil {
		writeServerError(w, "Error fetching users", err)
		return
	}

	if users == nil {
		users = []models.User{}
	}
	writeJSON(w, users, http.StatusOK)
}

// Promote is one-directional; there is no demotion. Zero affected rows means
// either an unknown id or an existing admin, and the two are not told apart.
func (h *UsersHandler) Promote(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid user id")
		return
	}

	ok, err := h.userRepo.PromoteUser(r.Context(), id)
	if err != nil {
		writeServerError(w, "Error promoting user", err)
		return
	}
	if !ok {
		writeError(w, http.StatusNotFound, "User not found or is already an admin.")
		return
	}

	writeJSON(w, map[string]string{"message": fmt.Sprintf("User %d has been promoted to admin.", id)}, http.StatusOK)
}
