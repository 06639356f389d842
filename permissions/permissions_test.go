package permissions

import (
	"errors"
	"net/http"
	"testing"

	"bookshelf/models"

	"github.com/stretchr/testify/assert"
)

func TestNewCaller_RoleDefaultsAndGrants(t *testing.T) {
	member := NewCaller(&models.User{ID: 1, Role: models.RoleMember})
	assert.True(t, member.Has(CanViewBook))
	assert.False(t, member.Has(CanCreateBook))

	granted := NewCaller(&models.User{
		ID:          2,
		Role:        models.RoleMember,
		Permissions: []models.Permission{{Codename: CanCreateBook}},
	})
	assert.True(t, granted.Has(CanCreateBook))

	librarian := NewCaller(&models.User{ID: 3, Role: models.RoleLibrarian})
	for _, code := range All {
		assert.True(t, librarian.Has(code), code)
	}

	admin := NewCaller(&models.User{ID: 4, Role: models.RoleAdmin})
	assert.True(t, admin.Has("anything.at_all"))
}

func TestCheck(t *testing.T) {
	member := NewCaller(&models.User{ID: 1, Role: models.RoleMember})

	cases := []struct {
		name   string
		caller *Caller
		rules  []Rule
		want   error
	}{
		{"anonymous needs identity", nil, []Rule{Authenticated()}, models.ErrUnauthenticated},
		{"anonymous permission", nil, []Rule{HasPermission(CanViewBook)}, models.ErrUnauthenticated},
		{"member may view", member, []Rule{HasPermission(CanViewBook)}, nil},
		{"member may not delete", member, []Rule{HasPermission(CanDeleteBook)}, models.ErrForbidden},
		{"role mismatch", member, []Rule{HasRole(models.RoleAdmin, models.RoleLibrarian)}, models.ErrForbidden},
		{"role match", member, []Rule{HasRole(models.RoleMember)}, nil},
		{"anonymous read", nil, []Rule{ReadOnlyOrAuthenticated(http.MethodGet)}, nil},
		{"anonymous write", nil, []Rule{ReadOnlyOrAuthenticated(http.MethodPost)}, models.ErrUnauthenticated},
		{"no rules", nil, nil, nil},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := Check(tc.caller, tc.rules...)
			if tc.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.True(t, errors.Is(err, tc.want), "got %v", err)
		})
	}
}

func TestCheckOwner(t *testing.T) {
	owner := &Caller{UserID: 7, Role: models.RoleMember}
	other := &Caller{UserID: 8, Role: models.RoleMember}
	admin := &Caller{UserID: 9, Role: models.RoleAdmin}

	assert.NoError(t, CheckOwner(owner, 7))
	assert.ErrorIs(t, CheckOwner(other, 7), models.ErrForbidden)
	assert.ErrorIs(t, CheckOwner(admin, 7), models.ErrForbidden)
	assert.ErrorIs(t, CheckOwner(nil, 7), models.ErrUnauthenticated)
}

func TestKnown(t *testing.T) {
	assert.True(t, Known(CanEditBook))
	assert.False(t, Known("bookshelf.can_fly"))
}
