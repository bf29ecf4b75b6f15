package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/ienikesergey/Outage-Dispatch-System/models/journal"
)

// ErrInvalidCredentials is returned when the username or password does not
// match a stored account.
var ErrInvalidCredentials = errors.New("invalid username or password")

// ErrUsernameTaken is returned when creating a user with a duplicate username.
var ErrUsernameTaken = errors.New("username already exists")

// Claims is the JWT payload issued on login.
type Claims struct {
	UserID   int64  `json:"userId"`
	Username string `json:"username"`
	Name     string `json:"name"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

// AuthService handles authentication and operator account management.
type AuthService struct {
	db        *gorm.DB
	jwtSecret []byte
	tokenTTL  time.Duration
	logger    *zap.Logger
}

// NewAuthService creates an auth service.
func NewAuthService(db *gorm.DB, jwtSecret string, tokenTTLHours int, logger *zap.Logger) *AuthService {
	return &AuthService{
		db:        db,
		jwtSecret: []byte(jwtSecret),
		tokenTTL:  time.Duration(tokenTTLHours) * time.Hour,
		logger:    logger,
	}
}

// Login verifies the credentials and issues a signed token.
func (s *AuthService) Login(req *LoginRequest) (*LoginResponse, error) {
	var user journal.User
	if err := s.db.Where("username = ?", req.Username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to query user: %w", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		s.logger.Warn("login rejected", zap.String("username", req.Username))
		return nil, ErrInvalidCredentials
	}

	now := time.Now()
	claims := Claims{
		UserID:   user.ID,
		Username: user.Username,
		Name:     user.Name,
		Role:     user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.jwtSecret)
	if err != nil {
		return nil, fmt.Errorf("failed to sign token: %w", err)
	}

	return &LoginResponse{
		Token: token,
		User: LoginUser{
			ID:       user.ID,
			Username: user.Username,
			Name:     user.Name,
			Role:     user.Role,
		},
	}, nil
}

// ParseToken validates a signed token and returns its claims.
func (s *AuthService) ParseToken(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}

// ListUsers returns all operator accounts ordered by id.
func (s *AuthService) ListUsers() ([]journal.User, error) {
	var users []journal.User
	if err := s.db.Order("id").Find(&users).Error; err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

// CreateUser registers a new operator account.
func (s *AuthService) CreateUser(dto *UserWriteDTO) (*journal.User, error) {
	var count int64
	if err := s.db.Model(&journal.User{}).Where("username = ?", dto.Username).Count(&count).Error; err != nil {
		return nil, fmt.Errorf("failed to check username: %w", err)
	}
	if count > 0 {
		return nil, ErrUsernameTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(dto.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	user := journal.User{
		Username: dto.Username,
		Password: string(hash),
		Name:     dto.Name,
		Role:     dto.Role,
	}
	if err := s.db.Create(&user).Error; err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	s.logger.Info("user created", zap.String("username", user.Username), zap.String("role", user.Role))
	return &user, nil
}

// UpdateUser edits an account. The password is re-hashed only when a new one
// is supplied.
func (s *AuthService) UpdateUser(id int64, dto *UserWriteDTO) (*journal.User, error) {
	var user journal.User
	if err := s.db.First(&user, id).Error; err != nil {
		return nil, err
	}

	updates := map[string]interface{}{
		"username": dto.Username,
		"name":     dto.Name,
		"role":     dto.Role,
	}
	if dto.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(dto.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
		updates["password"] = string(hash)
	}
	if err := s.db.Model(&user).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	s.logger.Info("user updated", zap.Int64("id", id))
	return &user, nil
}

// DeleteUser removes an operator account.
func (s *AuthService) DeleteUser(id int64) error {
	if err := s.db.Delete(&journal.User{}, id).Error; err != nil {
		return err
	}
	s.logger.Info("user deleted", zap.Int64("id", id))
	return nil
}
