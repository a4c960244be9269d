package service

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"folio/internal/middleware"
	"folio/internal/models"
	"folio/internal/repository"
	"folio/internal/validation"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// TokenTTL is how long a login token stays valid.
const TokenTTL = 7 * 24 * time.Hour

// UserService covers registration, login and account administration.
type UserService struct {
	userRepo  repository.UserRepository
	jwtSecret []byte
	now       func() time.Time
}

type RegisterInput struct {
	Username string
	Email    string
	Password string
}

// AuthResult is returned by Register and Login.
type AuthResult struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

func NewUserService(userRepo repository.UserRepository, jwtSecret string) *UserService {
	return &UserService{userRepo: userRepo, jwtSecret: []byte(jwtSecret), now: time.Now}
}

// Register validates the input and creates the user together with its profile.
func (s *UserService) Register(ctx context.Context, in RegisterInput) (*AuthResult, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))

	fields := validation.Fields{}
	fields.Required("username", in.Username)
	fields.Required("email", in.Email)
	fields.Required("password", in.Password)
	fields.Username("username", in.Username)
	fields.Email("email", in.Email)
	fields.Password("password", in.Password, in.Username)
	if !fields.OK() {
		return nil, models.NewFieldErrors(fields)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	user := &models.User{Username: in.Username, Email: in.Email, Password: string(hashed)}
	if err := s.userRepo.CreateWithProfile(ctx, user); err != nil {
		if models.IsCode(err, models.CodeConflict) {
			return nil, models.NewConflictError("User already exists")
		}
		return nil, err
	}

	token, err := s.IssueToken(user.ID)
	if err != nil {
		return nil, err
	}
	return &AuthResult{Token: token, User: user}, nil
}

// Login checks the credentials. Unknown email and wrong password produce the
// same error.
func (s *UserService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	invalid := models.NewUnauthorizedError("Invalid credentials")

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if models.IsCode(err, models.CodeNotFound) {
			return nil, invalid
		}
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, invalid
	}

	token, err := s.IssueToken(user.ID)
	if err != nil {
		return nil, err
	}
	return &AuthResult{Token: token, User: user}, nil
}

// IssueToken signs an HS256 token accepted by middleware.AuthRequired.
func (s *UserService) IssueToken(userID uint) (string, error) {
	if len(s.jwtSecret) == 0 {
		return "", models.NewInternalError(errors.New("JWT secret not configured"))
	}
	now := s.now()
	claims := jwt.MapClaims{
		"sub": strconv.FormatUint(uint64(userID), 10),
		"iss": middleware.TokenIssuer,
		"aud": middleware.TokenAudience,
		"exp": now.Add(TokenTTL).Unix(),
		"iat": now.Unix(),
		"nbf": now.Unix(),
		"jti": uuid.NewString(),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.jwtSecret)
	if err != nil {
		return "", models.NewInternalError(err)
	}
	return signed, nil
}

func (s *UserService) GetUserByID(ctx context.Context, id uint) (*models.User, error) {
	return s.userRepo.GetByID(ctx, id)
}

func (s *UserService) ListUsers(ctx context.Context, limit, offset int) ([]models.User, error) {
	return s.userRepo.List(ctx, limit, offset)
}

func (s *UserService) SetAdmin(ctx context.Context, id uint, isAdmin bool) error {
	return s.userRepo.SetAdmin(ctx, id, isAdmin)
}

func (s *UserService) DeleteUser(ctx context.Context, id uint) error {
	return s.userRepo.Delete(ctx, id)
}
