package auth

import (
	"context"
	"sync"
	"testing"

	"storefront-service/internal/commerce"
	"storefront-service/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAPI struct {
	loginUser   *models.User
	loginErr    error
	registerErr error
	updateUser  *models.User
	updateErr   error
	otpErr      error
	resetErr    error

	mu         sync.Mutex
	otpSentTo  string
	resetEmail string
	resetOtp   string
}

func (f *fakeAPI) Login(_ context.Context, email, password string) (*models.User, error) {
	return f.loginUser, f.loginErr
}

func (f *fakeAPI) Register(_ context.Context, fullName, email, phone, password string) error {
	return f.registerErr
}

func (f *fakeAPI) UpdateUser(_ context.Context, req commerce.UpdateUserRequest) (*models.User, error) {
	return f.updateUser, f.updateErr
}

func (f *fakeAPI) SendForgotOtp(_ context.Context, email string) error {
	if f.otpErr != nil {
		return f.otpErr
	}
	f.mu.Lock()
	f.otpSentTo = email
	f.mu.Unlock()
	return nil
}

func (f *fakeAPI) VerifyOtpAndReset(_ context.Context, email, otp, newPassword string) error {
	if f.resetErr != nil {
		return f.resetErr
	}
	f.mu.Lock()
	f.resetEmail = email
	f.resetOtp = otp
	f.mu.Unlock()
	return nil
}

type fakeUserStore struct {
	users map[string]*models.User
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: make(map[string]*models.User)}
}

func (s *fakeUserStore) SaveUser(_ context.Context, owner string, user *models.User) error {
	s.users[owner] = user
	return nil
}

func (s *fakeUserStore) LoadUser(_ context.Context, owner string) (*models.User, error) {
	return s.users[owner], nil
}

func (s *fakeUserStore) DeleteUser(_ context.Context, owner string) error {
	delete(s.users, owner)
	return nil
}

func TestLoginValidatesFields(t *testing.T) {
	svc := NewService(&fakeAPI{}, newFakeUserStore())
	ctx := context.Background()

	_, err := svc.Login(ctx, "sess-1", "", "secret1")
	f := models.FailureOf(err)
	require.NotNil(t, f)
	assert.Equal(t, "email", f.Field)

	_, err = svc.Login(ctx, "sess-1", "a@b.com", "  ")
	f = models.FailureOf(err)
	require.NotNil(t, f)
	assert.Equal(t, "password", f.Field)
}

func TestLoginPersistsProfile(t *testing.T) {
	api := &fakeAPI{loginUser: &models.User{UserID: "u1", Email: "a@b.com"}}
	store := newFakeUserStore()
	svc := NewService(api, store)

	user, err := svc.Login(context.Background(), "sess-1", "a@b.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, "u1", user.UserID)
	assert.Equal(t, user, store.users["sess-1"])
}

func TestRegisterValidation(t *testing.T) {
	svc := NewService(&fakeAPI{}, newFakeUserStore())
	ctx := context.Background()

	cases := []struct {
		name  string
		req   RegisterRequest
		field string
	}{
		{"missing name", RegisterRequest{Email: "a@b.com", Phone: "0240000000", Password: "secret1"}, "fullName"},
		{"bad email", RegisterRequest{FullName: "Ama", Email: "not-an-email", Phone: "0240000000", Password: "secret1"}, "email"},
		{"short phone", RegisterRequest{FullName: "Ama", Email: "a@b.com", Phone: "123", Password: "secret1"}, "phone"},
		{"short password", RegisterRequest{FullName: "Ama", Email: "a@b.com", Phone: "0240000000", Password: "abc"}, "password"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := svc.Register(ctx, tc.req)
			f := models.FailureOf(err)
			require.NotNil(t, f)
			assert.Equal(t, models.FailureValidation, f.Kind)
			assert.Equal(t, tc.field, f.Field)
		})
	}
}

func TestRegisterPinsEmailBusinessErrors(t *testing.T) {
	api := &fakeAPI{registerErr: models.NewBusinessFailure("This email is already registered.")}
	svc := NewService(api, newFakeUserStore())

	err := svc.Register(context.Background(), RegisterRequest{
		FullName: "Ama Mensah", Email: "a@b.com", Phone: "0240000000", Password: "secret1",
	})
	f := models.FailureOf(err)
	require.NotNil(t, f)
	assert.Equal(t, models.FailureBusiness, f.Kind)
	assert.Equal(t, "email", f.Field)

	api.registerErr = models.NewBusinessFailure("Something else went wrong")
	err = svc.Register(context.Background(), RegisterRequest{
		FullName: "Ama Mensah", Email: "a@b.com", Phone: "0240000000", Password: "secret1",
	})
	f = models.FailureOf(err)
	require.NotNil(t, f)
	assert.Equal(t, "fullName", f.Field)
}

func TestUpdateProfileRequiresLogin(t *testing.T) {
	svc := NewService(&fakeAPI{}, newFakeUserStore())

	_, err := svc.UpdateProfile(context.Background(), "sess-1", UpdateRequest{FullName: "Ama"})
	assert.True(t, models.IsKind(err, models.FailureState))
}

func TestUpdateProfilePasswordRules(t *testing.T) {
	store := newFakeUserStore()
	store.users["sess-1"] = &models.User{UserID: "u1"}
	svc := NewService(&fakeAPI{updateUser: &models.User{UserID: "u1"}}, store)
	ctx := context.Background()

	_, err := svc.UpdateProfile(ctx, "sess-1", UpdateRequest{NewPassword: "secret2", RepeatPassword: "secret2"})
	f := models.FailureOf(err)
	require.NotNil(t, f)
	assert.Equal(t, "currentPassword", f.Field)

	_, err = svc.UpdateProfile(ctx, "sess-1", UpdateRequest{
		CurrentPassword: "secret1", NewPassword: "secret2", RepeatPassword: "different",
	})
	f = models.FailureOf(err)
	require.NotNil(t, f)
	assert.Equal(t, "newPassword", f.Field)

	_, err = svc.UpdateProfile(ctx, "sess-1", UpdateRequest{
		CurrentPassword: "secret1", NewPassword: "abc", RepeatPassword: "abc",
	})
	f = models.FailureOf(err)
	require.NotNil(t, f)
	assert.Equal(t, "newPassword", f.Field)

	_, err = svc.UpdateProfile(ctx, "sess-1", UpdateRequest{
		CurrentPassword: "secret1", NewPassword: "secret2", RepeatPassword: "secret2",
	})
	assert.NoError(t, err)
}

func TestLogoutDropsProfile(t *testing.T) {
	store := newFakeUserStore()
	store.users["sess-1"] = &models.User{UserID: "u1"}
	svc := NewService(&fakeAPI{}, store)
	ctx := context.Background()

	require.NoError(t, svc.Logout(ctx, "sess-1"))

	user, err := svc.CurrentUser(ctx, "sess-1")
	require.NoError(t, err)
	assert.Nil(t, user)
}
