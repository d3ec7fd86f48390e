package auth

import (
	"errors"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/kisaansetu/mandi-api/internal/types"
	"github.com/kisaansetu/mandi-api/pkg/response"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrMissingFields      = errors.New("all fields are required")
	ErrInvalidRole        = errors.New("invalid role")
	ErrDuplicateAccount   = errors.New("user already exists with this mobile or email")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTokenGeneration    = errors.New("failed to generate token")
)

// Token lifetime matches the session length given to the web client
const tokenLifetime = 7 * 24 * time.Hour

// Buyers get a demo wallet balance on signup so they can bid right
// away. A real top-up flow would replace this.
const initialBuyerBalance = 10000

// Service handles account registration and session token issuance
type Service struct {
	db        *Database
	jwtSecret []byte
}

// NewService creates a new authentication service with the given JWT secret
func NewService(gormDB *gorm.DB, jwtSecret string) *Service {
	return &Service{
		db:        NewDatabase(gormDB),
		jwtSecret: []byte(jwtSecret),
	}
}

// Signup registers a new account and returns a session token for it.
// Mobile and email must not collide with an existing account.
func (s *Service) Signup(req SignupRequest) (*TokenResponse, error) {
	if req.Name == "" || req.Mobile == "" || req.Password == "" || req.Role == "" || req.Location == "" {
		return nil, ErrMissingFields
	}
	if !types.ValidRole(req.Role) {
		return nil, ErrInvalidRole
	}

	existing, err := s.db.GetAccountByMobileOrEmail(strings.TrimSpace(req.Mobile), strings.TrimSpace(req.Email))
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrDuplicateAccount
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	account := &types.Account{
		AccountID:    uuid.New().String(),
		Name:         strings.TrimSpace(req.Name),
		Mobile:       strings.TrimSpace(req.Mobile),
		Email:        strings.TrimSpace(req.Email),
		PasswordHash: string(hash),
		Role:         req.Role,
		Location:     strings.TrimSpace(req.Location),
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}
	if account.Role == types.RoleBuyer {
		account.WalletBalance = initialBuyerBalance
	}

	if err := s.db.CreateAccount(account); err != nil {
		return nil, err
	}

	return s.issueToken(account)
}

// Login verifies credentials and returns a session token
func (s *Service) Login(req LoginRequest) (*TokenResponse, error) {
	if req.Mobile == "" || req.Password == "" {
		return nil, ErrMissingFields
	}

	account, err := s.db.GetAccountByMobile(strings.TrimSpace(req.Mobile))
	if err != nil {
		return nil, err
	}
	if account == nil {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return s.issueToken(account)
}

// GetAccount retrieves an account by its ID
func (s *Service) GetAccount(accountID string) (*types.Account, error) {
	return s.db.GetAccount(accountID)
}

func (s *Service) issueToken(account *types.Account) (*TokenResponse, error) {
	expiration := time.Now().Add(tokenLifetime)

	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiration),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			NotBefore: jwt.NewNumericDate(time.Now()),
		},
		UserID: account.AccountID,
		Role:   account.Role,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return nil, ErrTokenGeneration
	}

	return &TokenResponse{
		Token:      tokenString,
		Expiration: expiration,
		Account:    account,
	}, nil
}

// ValidateToken validates a JWT token and returns the claims
func (s *Service) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return s.jwtSecret, nil
	})

	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(*Claims); ok && token.Valid {
		return claims, nil
	}

	return nil, errors.New("invalid token")
}

// GinHandlers contains HTTP handlers for authentication endpoints
type GinHandlers struct {
	service *Service
}

// NewGinHandlers creates a new set of HTTP handlers for authentication endpoints
func NewGinHandlers(service *Service) *GinHandlers {
	return &GinHandlers{
		service: service,
	}
}

// SignupHandler handles POST requests to register a new account
func (h *GinHandlers) SignupHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req SignupRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			response.BadRequest(c, "Invalid request body")
			return
		}

		token, err := h.service.Signup(req)
		switch {
		case errors.Is(err, ErrMissingFields), errors.Is(err, ErrInvalidRole):
			response.BadRequest(c, err.Error())
		case errors.Is(err, ErrDuplicateAccount):
			response.Conflict(c, err.Error())
		default:
			response.Handle(c, token, err)
		}
	}
}

// LoginHandler handles POST requests to authenticate an account
func (h *GinHandlers) LoginHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req LoginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			response.BadRequest(c, "Invalid request body")
			return
		}

		token, err := h.service.Login(req)
		switch {
		case errors.Is(err, ErrMissingFields):
			response.BadRequest(c, err.Error())
		case errors.Is(err, ErrInvalidCredentials):
			response.Unauthorized(c, err.Error())
		default:
			response.Handle(c, token, err)
		}
	}
}

// ProfileHandler handles GET requests for the authenticated account
func (h *GinHandlers) ProfileHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetString("userID")
		if userID == "" {
			response.Unauthorized(c, "Missing authentication claims")
			return
		}

		account, err := h.service.GetAccount(userID)
		if err != nil {
			response.InternalError(c, err.Error())
			return
		}
		if account == nil {
			response.NotFound(c, "User not found")
			return
		}

		response.Success(c, account)
	}
}
