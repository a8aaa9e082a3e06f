package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"log/slog"

	"github.com/golang-jwt/jwt/v5"
	"github.com/openhire/jobboard/internal/validate"
	"github.com/openhire/jobboard/pkg/models"
	"github.com/openhire/jobboard/pkg/repository"
	"golang.org/x/crypto/bcrypt"
)

type AuthHandler struct {
	userRepo      repository.UserRepo
	validator     *validate.Validator
	jwtSecret     string
	tokenDuration time.Duration
}

// NewAuthHandler creates a new AuthHandler with required dependencies.
func NewAuthHandler(ur repository.UserRepo, v *validate.Validator, jwtSecret string, tokenDuration time.Duration) *AuthHandler {
	return &AuthHandler{userRepo: ur, validator: v, jwtSecret: jwtSecret, tokenDuration: tokenDuration}
}

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type userPayload struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

type authResponse struct {
	Token string      `json:"token,omitempty"`
	User  userPayload `json:"user"`
}

func (h *AuthHandler) signToken(id int64, role string) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"id":   id,
		"role": role,
		"exp":  time.Now().Add(h.tokenDuration).Unix(),
	})

	return token.SignedString([]byte(h.jwtSecret))
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request")
		return
	}

	if err := h.validator.Validate(r.Context(), "register", body); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req credentialsRequest
	if err := json.Unmarshal(body, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		writeServerError(w, "Error hashing password", err)
		return
	}

	user := models.User{
		Username:     req.Username,
		PasswordHash: string(hash),
		Role:         models.RoleUser,
	}

	id, err := h.userRepo.CreateUser(r.Context(), &user)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			writeError(w, http.StatusBadRequest, "Username already exists")
			return
		}
		writeServerError(w, "Error creating user", err)
		return
	}

	resp := authResponse{User: userPayload{ID: id, Username: req.Username, Role: models.RoleUser}}

	// Auto-login: a signing failure still leaves the account created, so
	// answer 201 without the token rather than failing the registration.
	tokenStr, err := h.signToken(id, models.RoleUser)
	if err != nil {
		logger.Error("sign token", slog.Any("err", err))
	} else {
		resp.Token = tokenStr
	}

	writeJSON(w, resp, http.StatusCreated)
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request")
		return
	}
	if req.Username == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "Missing fields")
		return
	}

	// Unknown user and wrong password answer identically so usernames
	// cannot be enumerated.
	user, err := h.userRepo.GetByUsername(r.Context(), req.Username)
	if err != nil {
		writeServerError(w, "Error fetching user", err)
		return
	}
	if user == nil || bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		writeError(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	tokenStr, err := h.signToken(user.ID, user.Role)
	if err != nil {
		writeServerError(w, "Error signing token", err)
		return
	}

	writeJSON(w, authResponse{
		Token: tokenStr,
		User:  userPayload{ID: user.ID, Username: user.Username, Role: user.Role},
	}, http.StatusOK)
}
