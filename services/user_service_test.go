package services

import (
	"context"
	"testing"

	apperrors "heritage-backend/common/errors"
	"heritage-backend/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAddressRepo struct {
	addresses map[uint]*models.Address
	nextID    uint
}

func newFakeAddressRepo() *fakeAddressRepo {
	return &fakeAddressRepo{addresses: make(map[uint]*models.Address), nextID: 1}
}

func (r *fakeAddressRepo) FindByUserID(ctx context.Context, userID uint) ([]models.Address, error) {
	var out []models.Address
	for _, a := range r.addresses {
		if a.UserID == userID {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (r *fakeAddressRepo) FindByID(ctx context.Context, id uint) (*models.Address, error) {
	a, ok := r.addresses[id]
	if !ok {
		return nil, apperrors.NotFound("address", id)
	}
	cp := *a
	return &cp, nil
}

func (r *fakeAddressRepo) Create(ctx context.Context, address *models.Address) error {
	address.ID = r.nextID
	r.nextID++
	cp := *address
	r.addresses[address.ID] = &cp
	return nil
}

func (r *fakeAddressRepo) Update(ctx context.Context, address *models.Address) error {
	cp := *address
	r.addresses[address.ID] = &cp
	return nil
}

func (r *fakeAddressRepo) Delete(ctx context.Context, id uint) error {
	if _, ok := r.addresses[id]; !ok {
		return apperrors.NotFound("address", id)
	}
	delete(r.addresses, id)
	return nil
}

func newUserService() (*UserService, *fakeUserRepo) {
	users := newFakeUserRepo()
	return NewUserService(users, newFakeAddressRepo()), users
}

func validRegistration() *RegisterRequest {
	return &RegisterRequest{
		Username:  "customer1",
		Email:     "c1@example.com",
		Password:  "secret123",
		FirstName: "Nguyen",
		LastName:  "Van A",
	}
}

func TestRegister(t *testing.T) {
	ctx := context.Background()

	t.Run("creates a USER account with a hashed password", func(t *testing.T) {
		svc, _ := newUserService()

		user, err := svc.Register(ctx, validRegistration())
		require.NoError(t, err)

		assert.Equal(t, models.RoleUser, user.Role)
		assert.True(t, user.Enabled)
		assert.NotEqual(t, "secret123", user.Password)
	})

	t.Run("rejects duplicate username", func(t *testing.T) {
		svc, _ := newUserService()
		_, err := svc.Register(ctx, validRegistration())
		require.NoError(t, err)

		dup := validRegistration()
		dup.Email = "other@example.com"
		_, err = svc.Register(ctx, dup)
		assert.True(t, apperrors.IsConflict(err))
	})

	t.Run("rejects duplicate email", func(t *testing.T) {
		svc, _ := newUserService()
		_, err := svc.Register(ctx, validRegistration())
		require.NoError(t, err)

		dup := validRegistration()
		dup.Username = "customer2"
		_, err = svc.Register(ctx, dup)
		assert.True(t, apperrors.IsConflict(err))
	})

	t.Run("enforces the password policy", func(t *testing.T) {
		svc, _ := newUserService()

		for _, password := range []string{"short1", "allletters", "12345678"} {
			req := validRegistration()
			req.Password = password
			_, err := svc.Register(ctx, req)
			assert.True(t, apperrors.IsValidation(err), "password %q should be rejected", password)
		}
	})

	t.Run("normalizes the email", func(t *testing.T) {
		svc, _ := newUserService()
		req := validRegistration()
		req.Email = "  C1@Example.COM "

		user, err := svc.Register(ctx, req)
		require.NoError(t, err)
		assert.Equal(t, "c1@example.com", user.Email)
	})
}

func TestAuthenticate(t *testing.T) {
	ctx := context.Background()

	t.Run("valid credentials", func(t *testing.T) {
		svc, _ := newUserService()
		_, err := svc.Register(ctx, validRegistration())
		require.NoError(t, err)

		user, err := svc.Authenticate(ctx, &LoginRequest{Username: "customer1", Password: "secret123"})
		require.NoError(t, err)
		assert.Equal(t, "customer1", user.Username)
	})

	t.Run("wrong password and unknown user look the same", func(t *testing.T) {
		svc, _ := newUserService()
		_, err := svc.Register(ctx, validRegistration())
		require.NoError(t, err)

		_, errWrongPass := svc.Authenticate(ctx, &LoginRequest{Username: "customer1", Password: "wrong1234"})
		_, errNoUser := svc.Authenticate(ctx, &LoginRequest{Username: "ghost", Password: "secret123"})

		require.Error(t, errWrongPass)
		require.Error(t, errNoUser)
		assert.Equal(t, errWrongPass.Error(), errNoUser.Error())
	})

	t.Run("disabled account is rejected", func(t *testing.T) {
		svc, users := newUserService()
		registered, err := svc.Register(ctx, validRegistration())
		require.NoError(t, err)

		registered.Enabled = false
		require.NoError(t, users.Update(ctx, registered))

		_, err = svc.Authenticate(ctx, &LoginRequest{Username: "customer1", Password: "secret123"})
		assert.True(t, apperrors.IsValidation(err))
	})
}

func TestChangePassword(t *testing.T) {
	ctx := context.Background()
	svc, _ := newUserService()
	user, err := svc.Register(ctx, validRegistration())
	require.NoError(t, err)

	t.Run("requires the current password", func(t *testing.T) {
		err := svc.ChangePassword(ctx, user.ID, "wrong", "newsecret1")
		assert.True(t, apperrors.IsValidation(err))
	})

	t.Run("stores the new hash", func(t *testing.T) {
		require.NoError(t, svc.ChangePassword(ctx, user.ID, "secret123", "newsecret1"))

		_, err := svc.Authenticate(ctx, &LoginRequest{Username: "customer1", Password: "newsecret1"})
		assert.NoError(t, err)
	})
}

func TestAddresses(t *testing.T) {
	ctx := context.Background()
	svc, _ := newUserService()
	owner, err := svc.Register(ctx, validRegistration())
	require.NoError(t, err)

	other := validRegistration()
	other.Username = "customer2"
	other.Email = "c2@example.com"
	stranger, err := svc.Register(ctx, other)
	require.NoError(t, err)

	address, err := svc.AddAddress(ctx, owner.ID, &AddressRequest{
		RecipientName: "Nguyen Van A",
		Phone:         "0987654321",
		Street:        "123 Main St",
		Province:      "HCMC",
	})
	require.NoError(t, err)

	t.Run("another user cannot edit the address", func(t *testing.T) {
		_, err := svc.UpdateAddress(ctx, stranger.ID, address.ID, &AddressRequest{
			RecipientName: "X", Phone: "1", Street: "s", Province: "p",
		})
		assert.True(t, apperrors.IsNotFound(err))
	})

	t.Run("another user cannot delete the address", func(t *testing.T) {
		err := svc.DeleteAddress(ctx, stranger.ID, address.ID)
		assert.True(t, apperrors.IsNotFound(err))
	})

	t.Run("the owner can delete", func(t *testing.T) {
		assert.NoError(t, svc.DeleteAddress(ctx, owner.ID, address.ID))
	})
}
