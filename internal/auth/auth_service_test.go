package auth

import (
	"context"
	"testing"

	"github.com/rsharma91/aircargo/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"
)

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func TestAuthService_Register(t *testing.T) {
	users := &MockUserRepository{}
	service := NewAuthService(users, NewTokenManager("test-secret", 0))

	ctx := context.Background()
	users.On("GetByEmail", ctx, "ops@example.com").Return(nil, domain.ErrNotFound)
	users.On("Create", ctx, mock.AnythingOfType("*domain.User")).
		Run(func(args mock.Arguments) {
			args.Get(1).(*domain.User).ID = 7
		}).Return(nil)

	user, err := service.Register(ctx, "ops@example.com", "secret-password", "Ops User")

	assert.NoError(t, err)
	assert.Equal(t, int64(7), user.ID)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("secret-password")))
}

func TestAuthService_Register_EmailTaken(t *testing.T) {
	users := &MockUserRepository{}
	service := NewAuthService(users, NewTokenManager("test-secret", 0))

	ctx := context.Background()
	users.On("GetByEmail", ctx, "ops@example.com").Return(&domain.User{ID: 7, Email: "ops@example.com"}, nil)

	_, err := service.Register(ctx, "ops@example.com", "secret-password", "Ops User")

	assert.ErrorIs(t, err, domain.ErrEmailTaken)
	users.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestAuthService_Register_RacingDuplicate(t *testing.T) {
	users := &MockUserRepository{}
	service := NewAuthService(users, NewTokenManager("test-secret", 0))

	// The pre-insert lookup misses, but a concurrent registration wins the
	// insert: the repository surfaces the unique violation as ErrEmailTaken.
	ctx := context.Background()
	users.On("GetByEmail", ctx, "ops@example.com").Return(nil, domain.ErrNotFound)
	users.On("Create", ctx, mock.Anything).Return(domain.ErrEmailTaken)

	_, err := service.Register(ctx, "ops@example.com", "secret-password", "Ops User")

	assert.ErrorIs(t, err, domain.ErrEmailTaken)
}

func TestAuthService_Login_WrongPassword(t *testing.T) {
	users := &MockUserRepository{}
	service := NewAuthService(users, NewTokenManager("test-secret", 0))

	hash, _ := bcrypt.GenerateFromPassword([]byte("right-password"), bcrypt.DefaultCost)
	ctx := context.Background()
	users.On("GetByEmail", ctx, "ops@example.com").Return(&domain.User{ID: 7, PasswordHash: string(hash)}, nil)

	_, _, err := service.Login(ctx, "ops@example.com", "wrong-password")

	assert.ErrorIs(t, err, ErrInvalidCredentials)
}
