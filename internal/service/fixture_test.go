package service

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"messagely/internal/auth"
	"messagely/internal/domain"
	"messagely/internal/repository"
	"messagely/internal/repository/sqlite"
	"messagely/internal/storage"
)

const testSecret = "test-secret"

type fixture struct {
	userRepo repository.UserRepository
	msgRepo  repository.MessageRepository
	tokens   *auth.TokenIssuer
	users    UserService
	messages MessageService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db, err := sqlite.Open(sqlite.MemoryPath)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, sqlite.Migrate(context.Background(), db, nil))

	hasher, err := auth.NewBcryptHasher(bcrypt.MinCost)
	require.NoError(t, err)
	tokens, err := auth.NewTokenIssuer(testSecret)
	require.NoError(t, err)

	userRepo := sqlite.NewUserRepository(db)
	msgRepo := sqlite.NewMessageRepository(db)
	return &fixture{
		userRepo: userRepo,
		msgRepo:  msgRepo,
		tokens:   tokens,
		users:    NewUserService(userRepo, hasher, tokens),
		messages: NewMessageService(msgRepo, userRepo),
	}
}

func (f *fixture) register(t *testing.T, username, password string) {
	t.Helper()
	_, err := f.users.Register(context.Background(), RegisterInput{
		Username:  username,
		Password:  password,
		FirstName: "First " + username,
		LastName:  "Last " + username,
		Phone:     "555-0100",
	})
	require.NoError(t, err)
}

type fakeUserRepo struct {
	createFunc          func(ctx context.Context, user *domain.User) error
	getByUsernameFunc   func(ctx context.Context, username string) (*domain.User, error)
	updateLastLoginFunc func(ctx context.Context, username string, at time.Time) (time.Time, error)
	listFunc            func(ctx context.Context) ([]domain.User, error)
}

func (f *fakeUserRepo) Create(ctx context.Context, user *domain.User) error {
	if f.createFunc != nil {
		return f.createFunc(ctx, user)
	}
	return nil
}

func (f *fakeUserRepo) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	if f.getByUsernameFunc != nil {
		return f.getByUsernameFunc(ctx, username)
	}
	return nil, repository.ErrNotFound
}

func (f *fakeUserRepo) UpdateLastLogin(ctx context.Context, username string, at time.Time) (time.Time, error) {
	if f.updateLastLoginFunc != nil {
		return f.updateLastLoginFunc(ctx, username, at)
	}
	return at, nil
}

func (f *fakeUserRepo) List(ctx context.Context) ([]domain.User, error) {
	if f.listFunc != nil {
		return f.listFunc(ctx)
	}
	return nil, nil
}

type fakeMessageRepo struct {
	createFunc   func(ctx context.Context, msg *domain.Message) (int64, error)
	getFunc      func(ctx context.Context, id int64) (*domain.Message, error)
	listFromFunc func(ctx context.Context, username string) ([]domain.Message, error)
	listToFunc   func(ctx context.Context, username string) ([]domain.Message, error)
	markReadFunc func(ctx context.Context, id int64, at time.Time) (*domain.Message, error)
}

func (f *fakeMessageRepo) Create(ctx context.Context, msg *domain.Message) (int64, error) {
	if f.createFunc != nil {
		return f.createFunc(ctx, msg)
	}
	return 1, nil
}

func (f *fakeMessageRepo) Get(ctx context.Context, id int64) (*domain.Message, error) {
	if f.getFunc != nil {
		return f.getFunc(ctx, id)
	}
	return nil, repository.ErrNotFound
}

func (f *fakeMessageRepo) ListFrom(ctx context.Context, username string) ([]domain.Message, error) {
	if f.listFromFunc != nil {
		return f.listFromFunc(ctx, username)
	}
	return nil, nil
}

func (f *fakeMessageRepo) ListTo(ctx context.Context, username string) ([]domain.Message, error) {
	if f.listToFunc != nil {
		return f.listToFunc(ctx, username)
	}
	return nil, nil
}

func (f *fakeMessageRepo) MarkRead(ctx context.Context, id int64, at time.Time) (*domain.Message, error) {
	if f.markReadFunc != nil {
		return f.markReadFunc(ctx, id, at)
	}
	return nil, repository.ErrNotFound
}

type fakeStorage struct {
	putFunc    func(ctx context.Context, body io.Reader, opts storage.PutOptions) (string, error)
	listFunc   func(ctx context.Context, bucket, prefix string) ([]storage.ObjectInfo, error)
	deleteFunc func(ctx context.Context, bucket, prefix string) error
	urlFunc    func(ctx context.Context, bucket, key string, expires time.Duration) (string, error)
}

func (f *fakeStorage) PutObject(ctx context.Context, body io.Reader, opts storage.PutOptions) (string, error) {
	if f.putFunc != nil {
		return f.putFunc(ctx, body, opts)
	}
	return "s3://" + opts.Bucket + "/" + opts.Key, nil
}

func (f *fakeStorage) ListObjects(ctx context.Context, bucket, prefix string) ([]storage.ObjectInfo, error) {
	if f.listFunc != nil {
		return f.listFunc(ctx, bucket, prefix)
	}
	return nil, nil
}

func (f *fakeStorage) DeletePrefix(ctx context.Context, bucket, prefix string) error {
	if f.deleteFunc != nil {
		return f.deleteFunc(ctx, bucket, prefix)
	}
	return nil
}

func (f *fakeStorage) GetObjectURL(ctx context.Context, bucket, key string, expires time.Duration) (string, error) {
	if f.urlFunc != nil {
		return f.urlFunc(ctx, bucket, key, expires)
	}
	return "https://example.test/" + bucket + "/" + key, nil
}
