package user_api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"ms-coupons/internal/auth"
	"ms-coupons/internal/logger"
	"ms-coupons/internal/models"
	"ms-coupons/internal/users"
	"ms-coupons/internal/utils"
	"ms-coupons/internal/validate"
)

type Handler struct {
	UserService *users.UserService
	Secret      []byte
	Logger      *logger.Logger
}

func NewHandler(userService *users.UserService, secret []byte, logger *logger.Logger) *Handler {
	return &Handler{
		UserService: userService,
		Secret:      secret,
		Logger:      logger,
	}
}

// Register creates a platform account. The route is public so the first
// admin can bootstrap itself, but minting further admins requires an admin
// bearer token on the same request.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	h.Logger.Info("API", "Register: received request")

	var req models.UserCredentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.Logger.Error("API", fmt.Sprintf("Register: failed to decode request body: %v", err))
		utils.JSON(w, http.StatusBadRequest, utils.ErrorResponse("Invalid request body", err.Error()))
		return
	}
	if err := validate.Struct(req); err != nil {
		h.Logger.Error("API", fmt.Sprintf("Register: validation failed: %v", err))
		utils.JSON(w, http.StatusBadRequest, utils.ErrorResponse("Validation failed", err.Error()))
		return
	}

	callerIsAdmin := false
	if rawToken, err := auth.ExtractTokenFromRequest(r); err == nil {
		if claims, err := auth.Verify(h.Secret, rawToken); err == nil {
			callerIsAdmin = claims.Role == models.RoleAdmin
		}
	}

	user, err := h.UserService.Register(r.Context(), req.Email, req.Password, req.Role, callerIsAdmin)
	if err != nil {
		h.writeError(w, "Register", err)
		return
	}

	h.Logger.Info("API", fmt.Sprintf("Register: %s user %s registered", user.Role, user.ID))
	utils.JSON(w, http.StatusCreated, utils.SuccessResponse(fmt.Sprintf("%s user registered successfully", user.Role), user))
}

// Login authenticates a platform user and returns a signed token.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	h.Logger.Info("API", "Login: received request")

	var req models.UserCredentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.Logger.Error("API", fmt.Sprintf("Login: failed to decode request body: %v", err))
		utils.JSON(w, http.StatusBadRequest, utils.ErrorResponse("Invalid request body", err.Error()))
		return
	}
	if err := validate.Struct(req); err != nil {
		h.Logger.Error("API", fmt.Sprintf("Login: validation failed: %v", err))
		utils.JSON(w, http.StatusBadRequest, utils.ErrorResponse("Validation failed", err.Error()))
		return
	}

	user, token, err := h.UserService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		h.writeError(w, "Login", err)
		return
	}

	h.Logger.Info("API", fmt.Sprintf("Login: user %s logged in", user.ID))
	utils.JSON(w, http.StatusOK, utils.SuccessResponse("Login successful", map[string]interface{}{
		"token": token,
		"user":  map[string]string{"email": user.Email, "role": user.Role},
	}))
}

func (h *Handler) writeError(w http.ResponseWriter, op string, err error) {
	h.Logger.Error("API", fmt.Sprintf("%s: %v", op, err))

	switch {
	case errors.Is(err, users.ErrDuplicateUser):
		utils.JSON(w, http.StatusBadRequest, utils.ErrorResponse("User already exists", "REJECTED"))
	case errors.Is(err, users.ErrAdminRequired):
		utils.JSON(w, http.StatusForbidden, utils.ErrorResponse("Only admins can create other admin users", "FORBIDDEN"))
	case errors.Is(err, users.ErrInvalidCredentials):
		utils.JSON(w, http.StatusBadRequest, utils.ErrorResponse("Invalid credentials", "UNAUTHENTICATED"))
	default:
		utils.JSON(w, http.StatusInternalServerError, utils.ErrorResponse("Internal error", "INTERNAL"))
	}
}
