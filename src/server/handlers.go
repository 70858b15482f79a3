package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/kartik220803/image-analyzer/src/auth"
	"github.com/kartik220803/image-analyzer/src/users"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"golang.org/x/crypto/bcrypt"
)

// AuthRes is the JSON response of a successful register or login.
type AuthRes struct {
	Token string      `json:"token"`
	User  *users.User `json:"user"`
}

type registerReq struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (s *Serve) handleRegister(w http.ResponseWriter, req *http.Request) {
	var payload registerReq

	decoder := json.NewDecoder(req.Body)
	if err := decoder.Decode(&payload); err != nil {
		writeError(400, "JSON body missing or malformed", w)
		return
	}

	if payload.Username == "" || payload.Email == "" || payload.Password == "" {
		writeError(400, "username, email and password are required", w)
		return
	}

	existing, err := s.users.FindByUsername(payload.Username)
	if err != nil {
		writeError(500, "Something went wrong", w)
		return
	}
	if existing != nil {
		writeError(400, "Username already exists", w)
		return
	}

	existing, err = s.users.FindByEmail(payload.Email)
	if err != nil {
		writeError(500, "Something went wrong", w)
		return
	}
	if existing != nil {
		writeError(400, "Email already registered", w)
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(payload.Password), bcrypt.DefaultCost)
	if err != nil {
		writeError(500, "Something went wrong", w)
		return
	}

	user := &users.User{
		ID:        uuid.NewString(),
		Username:  payload.Username,
		Email:     payload.Email,
		Password:  string(hash),
		CreatedAt: time.Now(),
	}

	if err := s.users.Create(user); err != nil {
		logger.Error().Msgf("failed to create user: %v", err)
		writeError(500, "Something went wrong", w)
		return
	}

	token, err := auth.Sign(s.jwtSecret, user.ID)
	if err != nil {
		writeError(500, "Something went wrong", w)
		return
	}

	writeJSON(201, AuthRes{Token: token, User: user}, w)
}

type loginReq struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (s *Serve) handleLogin(w http.ResponseWriter, req *http.Request) {
	var payload loginReq

	decoder := json.NewDecoder(req.Body)
	if err := decoder.Decode(&payload); err != nil {
		writeError(400, "JSON body missing or malformed", w)
		return
	}

	user, err := s.users.FindByUsername(payload.Username)
	if err != nil {
		writeError(500, "Something went wrong", w)
		return
	}

	if user == nil || bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(payload.Password)) != nil {
		writeError(401, "Invalid username or password", w)
		return
	}

	token, err := auth.Sign(s.jwtSecret, user.ID)
	if err != nil {
		writeError(500, "Something went wrong", w)
		return
	}

	writeJSON(200, AuthRes{Token: token, User: user}, w)
}

func (s *Serve) handleCheckUsername(w http.ResponseWriter, req *http.Request) {
	vars := mux.Vars(req)
	username := vars["username"]

	user, err := s.users.FindByUsername(username)
	if err != nil {
		writeError(500, "Something went wrong", w)
		return
	}

	writeJSON(200, map[string]bool{"available": user == nil}, w)
}

type updateUsernameReq struct {
	NewUsername string `json:"newUsername"`
	Password    string `json:"password"`
}

func (s *Serve) handleUpdateUsername(w http.ResponseWriter, req *http.Request) {
	var payload updateUsernameReq

	decoder := json.NewDecoder(req.Body)
	if err := decoder.Decode(&payload); err != nil {
		writeError(400, "JSON body missing or malformed", w)
		return
	}

	if payload.NewUsername == "" {
		writeError(400, "newUsername is required", w)
		return
	}

	user, err := s.users.FindByID(callerID(req))
	if err != nil || user == nil {
		writeError(401, "Invalid token.", w)
		return
	}

	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(payload.Password)) != nil {
		writeError(401, "Invalid username or password", w)
		return
	}

	existing, err := s.users.FindByUsername(payload.NewUsername)
	if err != nil {
		writeError(500, "Something went wrong", w)
		return
	}
	if existing != nil {
		writeError(400, "Username already exists", w)
		return
	}

	updated, err := s.users.UpdateUsername(user.ID, payload.NewUsername)
	if err != nil {
		writeError(500, "Something went wrong", w)
		return
	}

	writeJSON(200, map[string]*users.User{"user": updated}, w)
}

type updatePasswordReq struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

func (s *Serve) handleUpdatePassword(w http.ResponseWriter, req *http.Request) {
	var payload updatePasswordReq

	decoder := json.NewDecoder(req.Body)
	if err := decoder.Decode(&payload); err != nil {
		writeError(400, "JSON body missing or malformed", w)
		return
	}

	if payload.NewPassword == "" {
		writeError(400, "newPassword is required", w)
		return
	}

	user, err := s.users.FindByID(callerID(req))
	if err != nil || user == nil {
		writeError(401, "Invalid token.", w)
		return
	}

	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(payload.CurrentPassword)) != nil {
		writeError(401, "Invalid username or password", w)
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(payload.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		writeError(500, "Something went wrong", w)
		return
	}

	if err := s.users.UpdatePassword(user.ID, string(hash)); err != nil {
		writeError(500, "Something went wrong", w)
		return
	}

	writeJSON(200, map[string]string{"message": "Password updated"}, w)
}
