package service

import (
	"context"
	"strconv"
	"strings"
	"testing"
	"time"

	"folio/internal/middleware"
	"folio/internal/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const testSecret = "test-secret-that-is-long-enough-123"

// userRepoStub is a stub for repository.UserRepository.
type userRepoStub struct {
	getByIDFn           func(context.Context, uint) (*models.User, error)
	getByEmailFn        func(context.Context, string) (*models.User, error)
	getByUsernameFn     func(context.Context, string) (*models.User, error)
	createWithProfileFn func(context.Context, *models.User) error
	setAdminFn          func(context.Context, uint, bool) error
	deleteFn            func(context.Context, uint) error
	listFn              func(context.Context, int, int) ([]models.User, error)
}

func (s *userRepoStub) GetByID(ctx context.Context, id uint) (*models.User, error) {
	return s.getByIDFn(ctx, id)
}
func (s *userRepoStub) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.getByEmailFn(ctx, email)
}
func (s *userRepoStub) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return s.getByUsernameFn(ctx, username)
}
func (s *userRepoStub) CreateWithProfile(ctx context.Context, user *models.User) error {
	return s.createWithProfileFn(ctx, user)
}
func (s *userRepoStub) SetAdmin(ctx context.Context, id uint, admin bool) error {
	return s.setAdminFn(ctx, id, admin)
}
func (s *userRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}
func (s *userRepoStub) List(ctx context.Context, limit, offset int) ([]models.User, error) {
	return s.listFn(ctx, limit, offset)
}

func noopUserRepo() *userRepoStub {
	return &userRepoStub{
		getByIDFn:           func(context.Context, uint) (*models.User, error) { return &models.User{}, nil },
		getByEmailFn:        func(context.Context, string) (*models.User, error) { return &models.User{}, nil },
		getByUsernameFn:     func(context.Context, string) (*models.User, error) { return &models.User{}, nil },
		createWithProfileFn: func(_ context.Context, u *models.User) error { u.ID = 1; return nil },
		setAdminFn:          func(context.Context, uint, bool) error { return nil },
		deleteFn:            func(context.Context, uint) error { return nil },
		listFn:              func(context.Context, int, int) ([]models.User, error) { return nil, nil },
	}
}

func parseToken(t *testing.T, token string) jwt.MapClaims {
	t.Helper()
	claims := jwt.MapClaims{}
	_, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return []byte(testSecret), nil
	}, jwt.WithIssuer(middleware.TokenIssuer), jwt.WithAudience(middleware.TokenAudience))
	require.NoError(t, err)
	return claims
}

func TestUserService_Register_Validation(t *testing.T) {
	t.Parallel()

	svc := NewUserService(noopUserRepo(), testSecret)
	tests := []struct {
		name  string
		input RegisterInput
		field string
	}{
		{"missing username", RegisterInput{Email: "a@b.co", Password: "Str0ng!Passw0rd"}, "username"},
		{"short username", RegisterInput{Username: "ab", Email: "a@b.co", Password: "Str0ng!Passw0rd"}, "username"},
		{"bad username chars", RegisterInput{Username: "ada lovelace", Email: "a@b.co", Password: "Str0ng!Passw0rd"}, "username"},
		{"bad email", RegisterInput{Username: "ada", Email: "nope", Password: "Str0ng!Passw0rd"}, "email"},
		{"weak password", RegisterInput{Username: "ada", Email: "a@b.co", Password: "password"}, "password"},
		{"password contains username", RegisterInput{Username: "lovelace", Email: "a@b.co", Password: "Lovelace-Rules-1"}, "password"},
		{"password over bcrypt limit", RegisterInput{Username: "ada", Email: "a@b.co", Password: "Aa1!" + strings.Repeat("x", 70)}, "password"},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			_, err := svc.Register(context.Background(), tc.input)
			appErr := assertAppError(t, err, models.CodeValidation)
			assert.Contains(t, appErr.Fields, tc.field)
		})
	}
}

func TestUserService_Register(t *testing.T) {
	t.Parallel()

	t.Run("creates user with hashed password and issues token", func(t *testing.T) {
		t.Parallel()
		repo := noopUserRepo()
		var created *models.User
		repo.createWithProfileFn = func(_ context.Context, u *models.User) error {
			u.ID = 42
			created = u
			return nil
		}
		svc := NewUserService(repo, testSecret)

		res, err := svc.Register(context.Background(), RegisterInput{
			Username: " ada ",
			Email:    " Ada@Example.COM ",
			Password: "Str0ng!Passw0rd",
		})
		require.NoError(t, err)
		require.NotNil(t, created)
		assert.Equal(t, "ada", created.Username)
		assert.Equal(t, "ada@example.com", created.Email)
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(created.Password), []byte("Str0ng!Passw0rd")))

		claims := parseToken(t, res.Token)
		assert.Equal(t, "42", claims["sub"])
		assert.NotEmpty(t, claims["jti"])
	})

	t.Run("duplicate is a conflict", func(t *testing.T) {
		t.Parallel()
		repo := noopUserRepo()
		repo.createWithProfileFn = func(context.Context, *models.User) error {
			return models.NewConflictError("User already exists")
		}
		svc := NewUserService(repo, testSecret)

		_, err := svc.Register(context.Background(), RegisterInput{Username: "ada", Email: "a@b.co", Password: "Str0ng!Passw0rd"})
		assertAppError(t, err, models.CodeConflict)
	})
}

func TestUserService_Login(t *testing.T) {
	t.Parallel()

	hash, err := bcrypt.GenerateFromPassword([]byte("Str0ng!Passw0rd"), bcrypt.MinCost)
	require.NoError(t, err)
	repo := noopUserRepo()
	repo.getByEmailFn = func(_ context.Context, email string) (*models.User, error) {
		if email != "ada@example.com" {
			return nil, models.NewNotFoundError("User", email)
		}
		return &models.User{ID: 7, Email: email, Password: string(hash)}, nil
	}
	svc := NewUserService(repo, testSecret)

	t.Run("valid credentials", func(t *testing.T) {
		t.Parallel()
		res, err := svc.Login(context.Background(), "ada@example.com", "Str0ng!Passw0rd")
		require.NoError(t, err)
		assert.Equal(t, uint(7), res.User.ID)
		assert.Equal(t, strconv.Itoa(7), parseToken(t, res.Token)["sub"])
	})

	t.Run("wrong password", func(t *testing.T) {
		t.Parallel()
		_, err := svc.Login(context.Background(), "ada@example.com", "wrong")
		assertAppError(t, err, models.CodeUnauthorized)
	})

	t.Run("unknown email", func(t *testing.T) {
		t.Parallel()
		_, err := svc.Login(context.Background(), "bob@example.com", "Str0ng!Passw0rd")
		assertAppError(t, err, models.CodeUnauthorized)
	})
}

func TestUserService_IssueToken_Expiry(t *testing.T) {
	t.Parallel()

	fixed := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	svc := NewUserService(noopUserRepo(), testSecret)
	svc.now = func() time.Time { return fixed }

	token, err := svc.IssueToken(3)
	require.NoError(t, err)

	claims := jwt.MapClaims{}
	_, _, err = jwt.NewParser().ParseUnverified(token, claims)
	require.NoError(t, err)
	assert.Equal(t, float64(fixed.Add(TokenTTL).Unix()), claims["exp"])
	assert.Equal(t, float64(fixed.Unix()), claims["iat"])

	_, err = NewUserService(noopUserRepo(), "").IssueToken(3)
	assertAppError(t, err, models.CodeInternal)
}
