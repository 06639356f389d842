// Package permissions decides whether a caller may perform an operation.
// It never performs the operation itself.
package permissions

import (
	"fmt"
	"net/http"

	"bookshelf/models"
)

// Capability codenames.
const (
	CanViewBook   = "bookshelf.can_view_book"
	CanCreateBook = "bookshelf.can_create_book"
	CanEditBook   = "bookshelf.can_edit_book"
	CanDeleteBook = "bookshelf.can_delete_book"

	CanAddBook    = "relationship_app.can_add_book"
	CanChangeBook = "relationship_app.can_change_book"
	CanRemoveBook = "relationship_app.can_delete_book"
)

// All lists every known capability.
var All = []string{
	CanViewBook, CanCreateBook, CanEditBook, CanDeleteBook,
	CanAddBook, CanChangeBook, CanRemoveBook,
}

var roleDefaults = map[string][]string{
	models.RoleLibrarian: All,
	models.RoleMember:    {CanViewBook},
}

func Known(codename string) bool {
	for _, c := range All {
		if c == codename {
			return true
		}
	}
	return false
}

// Caller is the identity attached to a request. A nil *Caller is anonymous.
type Caller struct {
	UserID      uint
	Username    string
	Role        string
	Permissions map[string]bool
}

// NewCaller builds a caller from the stored user and its explicit grants.
func NewCaller(user *models.User) *Caller {
	c := &Caller{
		UserID:      user.ID,
		Username:    user.Username,
		Role:        user.Role,
		Permissions: make(map[string]bool),
	}
	for _, code := range roleDefaults[user.Role] {
		c.Permissions[code] = true
	}
	for _, code := range user.Codenames() {
		c.Permissions[code] = true
	}
	return c
}

func (c *Caller) IsAdmin() bool {
	return c != nil && c.Role == models.RoleAdmin
}

// Has reports whether the caller holds the capability. Admins hold all.
func (c *Caller) Has(codename string) bool {
	if c == nil {
		return false
	}
	return c.IsAdmin() || c.Permissions[codename]
}

// Rule is one requirement evaluated by Check.
type Rule func(c *Caller) error

func Authenticated() Rule {
	return func(c *Caller) error {
		if c == nil {
			return models.ErrUnauthenticated
		}
		return nil
	}
}

func HasPermission(codename string) Rule {
	return func(c *Caller) error {
		if c == nil {
			return models.ErrUnauthenticated
		}
		if !c.Has(codename) {
			return fmt.Errorf("%w: missing permission %s", models.ErrForbidden, codename)
		}
		return nil
	}
}

func HasRole(roles ...string) Rule {
	return func(c *Caller) error {
		if c == nil {
			return models.ErrUnauthenticated
		}
		for _, r := range roles {
			if c.Role == r {
				return nil
			}
		}
		return fmt.Errorf("%w: role %q may not access this resource", models.ErrForbidden, c.Role)
	}
}

// ReadOnlyOrAuthenticated lets anyone use safe methods and requires an
// identity for everything else.
func ReadOnlyOrAuthenticated(method string) Rule {
	return func(c *Caller) error {
		switch method {
		case http.MethodGet, http.MethodHead, http.MethodOptions:
			return nil
		}
		return Authenticated()(c)
	}
}

// Check evaluates every rule and returns the first failure.
func Check(c *Caller, rules ...Rule) error {
	for _, rule := range rules {
		if err := rule(c); err != nil {
			return err
		}
	}
	return nil
}

// CheckOwner allows only the recorded owner of a record.
func CheckOwner(c *Caller, ownerID uint) error {
	if c == nil {
		return models.ErrUnauthenticated
	}
	if c.UserID != ownerID {
		return fmt.Errorf("%w: only the author may modify this resource", models.ErrForbidden)
	}
	return nil
}
