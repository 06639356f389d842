package models

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidatePublicationYear(t *testing.T) {
	now := time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)

	assert.NoError(t, ValidatePublicationYear(2026, now))
	assert.NoError(t, ValidatePublicationYear(1949, now))

	err := ValidatePublicationYear(2027, now)
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "Publication year cannot be in the future (>2026).", verr.Message)
	assert.Contains(t, verr.Fields, "publication_year")
}

func TestValidateBook(t *testing.T) {
	now := time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC)

	assert.NoError(t, ValidateBook(&Book{Title: "1984", PublicationYear: 1949, AuthorID: 1}, now))
	assert.Error(t, ValidateBook(&Book{Title: "  ", PublicationYear: 1949, AuthorID: 1}, now))
	assert.Error(t, ValidateBook(&Book{Title: "1984", PublicationYear: 1949}, now))
	assert.Error(t, ValidateBook(&Book{Title: "1984", PublicationYear: 2025, AuthorID: 1}, now))
}

func TestUpdateBookRequest_Complete(t *testing.T) {
	title := "T"
	year := 2000
	author := uint(1)

	partial := UpdateBookRequest{Title: &title}
	err := partial.Complete()
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Len(t, verr.Fields, 2)

	full := UpdateBookRequest{Title: &title, PublicationYear: &year, AuthorID: &author}
	assert.NoError(t, full.Complete())
}

func TestValidationError_ErrorWithoutMessage(t *testing.T) {
	err := &ValidationError{Fields: map[string]string{"b": "bad", "a": "worse"}}
	assert.Equal(t, "a: worse; b: bad", err.Error())
}

func TestNotFoundError(t *testing.T) {
	err := NotFoundError("book")
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.Equal(t, "book not found", err.Error())
}

func TestNormalizeTags(t *testing.T) {
	got := NormalizeTags([]string{" Go ", "go", "", "Django", "GO", "web"})
	assert.Equal(t, []string{"go", "django", "web"}, got)
}

func TestUserPassword(t *testing.T) {
	u := &User{Password: "secret123"}
	require.NoError(t, u.HashPassword())
	assert.NotEqual(t, "secret123", u.Password)
	assert.True(t, u.CheckPassword("secret123"))
	assert.False(t, u.CheckPassword("nope"))
}

func TestValidRole(t *testing.T) {
	assert.True(t, ValidRole(RoleAdmin))
	assert.True(t, ValidRole(RoleMember))
	assert.False(t, ValidRole("owner"))
}
