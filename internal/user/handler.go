package user

import (
	"net/http"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"gotube/internal/common"
	"gotube/internal/dbmongo"
	"gotube/internal/paginate"
)

// Handler exposes the user service over HTTP.
type Handler struct {
	userService UserService
	logger      *zap.Logger
}

func NewHandler(userService UserService, logger *zap.Logger) *Handler {
	return &Handler{userService: userService, logger: logger}
}

func (h *Handler) RegisterRoutes(r *mux.Router, auth *common.Authenticator) {
	s := r.PathPrefix("/users").Subrouter()
	s.HandleFunc("/register", h.Register).Methods(http.MethodPost)
	s.HandleFunc("/login", h.Login).Methods(http.MethodPost)
	s.Handle("/me", auth.Required(http.HandlerFunc(h.Me))).Methods(http.MethodGet)
	s.Handle("/history", auth.Required(http.HandlerFunc(h.History))).Methods(http.MethodGet)
}

type authResponse struct {
	User        *dbmongo.User `json:"user"`
	AccessToken string        `json:"accessToken"`
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterInput
	if err := common.DecodeJSON(r, &req); err != nil {
		common.WriteError(w, h.logger, err)
		return
	}
	user, token, err := h.userService.RegisterUser(r.Context(), req)
	if err != nil {
		common.WriteError(w, h.logger, err)
		return
	}
	common.WriteJSON(w, http.StatusCreated, authResponse{User: user, AccessToken: token}, "User registered successfully")
}

type loginRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := common.DecodeJSON(r, &req); err != nil {
		common.WriteError(w, h.logger, err)
		return
	}
	login := req.Username
	if login == "" {
		login = req.Email
	}
	user, token, err := h.userService.LoginUser(r.Context(), login, req.Password)
	if err != nil {
		common.WriteError(w, h.logger, err)
		return
	}
	common.WriteJSON(w, http.StatusOK, authResponse{User: user, AccessToken: token}, "User logged in successfully")
}

func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	userID, err := common.RequireUser(r)
	if err != nil {
		common.WriteError(w, h.logger, err)
		return
	}
	user, err := h.userService.GetProfile(r.Context(), userID)
	if err != nil {
		common.WriteError(w, h.logger, err)
		return
	}
	common.WriteJSON(w, http.StatusOK, user, "User fetched successfully")
}

func (h *Handler) History(w http.ResponseWriter, r *http.Request) {
	userID, err := common.RequireUser(r)
	if err != nil {
		common.WriteError(w, h.logger, err)
		return
	}
	page, err := h.userService.WatchHistory(r.Context(), userID, paginate.FromQuery(r.URL.Query()))
	if err != nil {
		common.WriteError(w, h.logger, err)
		return
	}
	common.WriteJSON(w, http.StatusOK, page, "Watch history fetched successfully")
}
