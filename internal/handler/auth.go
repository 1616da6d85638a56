package handler

import (
	"errors"
	"net/http"
	"time"

	"finance-tracker/internal/models"
	"finance-tracker/internal/store"
	"finance-tracker/internal/util"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
)

// AuthHandler serves registration and login.
type AuthHandler struct {
	Store      store.Store
	JWTSecret  string
	Issuer     string
	TokenTTL   time.Duration
	BcryptCost int
}

func NewAuthHandler(s store.Store, jwtSecret, issuer string, ttl time.Duration, bcryptCost int) *AuthHandler {
	if ttl <= 0 {
		ttl = 7 * 24 * time.Hour
	}
	if bcryptCost == 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	return &AuthHandler{
		Store:      s,
		JWTSecret:  jwtSecret,
		Issuer:     issuer,
		TokenTTL:   ttl,
		BcryptCost: bcryptCost,
	}
}

type registerReq struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Password string `json:"password"`
}

type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authResp struct {
	Token string            `json:"token"`
	User  models.PublicUser `json:"user"`
}

// ---------- register ----------

func (h *AuthHandler) Register(c *gin.Context) {
	var req registerReq
	if !bindJSON(c, &req) {
		return
	}
	if req.Email == "" || req.Password == "" {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "Email and password required")
		return
	}

	ctx := c.Request.Context()
	_, err := h.Store.FindUserByEmail(ctx, req.Email)
	switch {
	case err == nil:
		util.Error(c, http.StatusConflict, util.CodeConflict, "Email already registered")
		return
	case !errors.Is(err, store.ErrNotFound):
		serverError(c, "Failed to look up user", err)
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), h.BcryptCost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "Password must be at most 72 bytes")
		return
	}
	if err != nil {
		serverError(c, "Failed to hash password", err)
		return
	}

	user, err := h.Store.CreateUser(ctx, models.NewUser{
		Email:        req.Email,
		Name:         req.Name,
		PasswordHash: string(hash),
	})
	if errors.Is(err, store.ErrConflict) {
		// lost a race with a concurrent registration
		util.Error(c, http.StatusConflict, util.CodeConflict, "Email already registered")
		return
	}
	if err != nil {
		serverError(c, "Failed to create user", err)
		return
	}

	h.respondWithToken(c, user)
}

// ---------- login ----------

func (h *AuthHandler) Login(c *gin.Context) {
	var req loginReq
	if !bindJSON(c, &req) {
		return
	}
	if req.Email == "" || req.Password == "" {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "Email and password required")
		return
	}

	user, err := h.Store.FindUserByEmail(c.Request.Context(), req.Email)
	if errors.Is(err, store.ErrNotFound) {
		util.Error(c, http.StatusUnauthorized, util.CodeAuth, "Invalid credentials")
		return
	}
	if err != nil {
		serverError(c, "Failed to look up user", err)
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		util.Error(c, http.StatusUnauthorized, util.CodeAuth, "Invalid credentials")
		return
	}

	h.respondWithToken(c, user)
}

func (h *AuthHandler) respondWithToken(c *gin.Context, user *models.User) {
	token, err := util.GenerateToken(h.JWTSecret, h.Issuer, user.ID, h.TokenTTL)
	if err != nil {
		serverError(c, "Failed to issue token", err)
		return
	}
	util.JSON(c, http.StatusOK, authResp{Token: token, User: user.Public()})
}
