package services

import (
	"context"
	"errors"
	"strings"

	"github.com/forma-studio/forma-portal/internal/auth"
	"github.com/forma-studio/forma-portal/internal/fa"
	"github.com/forma-studio/forma-portal/internal/models"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const bcryptCost = 12

// AuthService handles registration and sign-in for portal accounts.
type AuthService struct {
	DB  *gorm.DB
	JWT *auth.JWTManager
}

func NewAuthService(db *gorm.DB, jwtManager *auth.JWTManager) *AuthService {
	return &AuthService{DB: db, JWT: jwtManager}
}

// RegisterInput is the self-service signup payload. Signup always creates
// a CLIENT; staff roles are assigned out of band.
type RegisterInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone,omitempty"`
	Password string `json:"password"`
}

// Session is an authenticated user plus their signed token.
type Session struct {
	User  *models.User `json:"user"`
	Token string       `json:"token"`
}

func validateRegister(in *RegisterInput) error {
	if len([]rune(strings.TrimSpace(in.Name))) < 2 {
		return invalid("name", "نام حداقل ۲ کاراکتر باشد.")
	}
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if len(email) < 5 || !strings.Contains(email, "@") {
		return invalid("email", "ایمیل معتبر نیست.")
	}
	if phone := fa.DigitsOnly(in.Phone); in.Phone != "" && (len(phone) < 8 || len(phone) > 15) {
		return invalid("phone", "شماره تماس معتبر نیست.")
	}
	if len(in.Password) < 6 {
		return invalid("password", "رمز عبور حداقل ۶ کاراکتر باشد.")
	}
	return nil
}

// Register creates a client account and signs them in. A duplicate email
// returns ErrEmailTaken whether it is caught by the pre-check or by the
// unique index on a racing insert.
func (s *AuthService) Register(ctx context.Context, in *RegisterInput) (*Session, error) {
	if err := validateRegister(in); err != nil {
		return nil, err
	}

	email := strings.ToLower(strings.TrimSpace(in.Email))

	var count int64
	if err := s.DB.WithContext(ctx).Model(&models.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcryptCost)
	if err != nil {
		return nil, err
	}

	user := models.User{
		Name:         strings.TrimSpace(in.Name),
		Email:        email,
		PasswordHash: string(hash),
		Role:         models.RoleClient,
	}
	if in.Phone != "" {
		phone := fa.DigitsOnly(in.Phone)
		user.Phone = &phone
	}

	if err := s.DB.WithContext(ctx).Create(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}

	return s.session(&user)
}

// SignIn verifies credentials and issues a session token. Missing user
// and wrong password are indistinguishable to the caller.
func (s *AuthService) SignIn(ctx context.Context, email, password string) (*Session, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	var user models.User
	if err := s.DB.WithContext(ctx).First(&user, "email = ?", email).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if user.PasswordHash == "" {
		// Guest accounts created from the contact form have no password.
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return s.session(&user)
}

// GetUser loads an account by id, for the session middleware.
func (s *AuthService) GetUser(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	if err := s.DB.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (s *AuthService) session(user *models.User) (*Session, error) {
	token, err := s.JWT.GenerateToken(user.ID, string(user.Role))
	if err != nil {
		return nil, err
	}
	return &Session{User: user, Token: token}, nil
}
