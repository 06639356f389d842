package services

import (
	"context"
	"errors"
	"fmt"

	"bookshelf/database"
	"bookshelf/models"
	"bookshelf/permissions"

	"gorm.io/gorm"
)

type UserService struct {
	db       *gorm.DB
	users    *database.Store[models.User]
	profiles *database.Store[models.Profile]
}

func NewUserService(db *gorm.DB) *UserService {
	return &UserService{
		db:       db,
		users:    database.NewStore[models.User](db, "user"),
		profiles: database.NewStore[models.Profile](db, "profile"),
	}
}

// CreateUser stores a new user together with its profile.
func (s *UserService) CreateUser(ctx context.Context, req *models.CreateUserRequest, role string) (*models.User, error) {
	if role == "" {
		role = models.RoleMember
	}
	if !models.ValidRole(role) {
		return nil, models.NewFieldError("role", fmt.Sprintf("%q is not a valid role.", role))
	}

	if err := s.checkAvailable(ctx, 0, req.Username, req.Email); err != nil {
		return nil, err
	}

	user := &models.User{
		Email:     req.Email,
		Username:  req.Username,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Role:      role,
		IsActive:  true,
	}

	if err := user.HashPassword(); err != nil {
		return nil, err
	}

	err := database.Transaction(ctx, s.db, func(tx *gorm.DB) error {
		if err := s.users.WithTx(tx).Create(ctx, user); err != nil {
			return err
		}
		user.Profile = &models.Profile{UserID: user.ID, Bio: req.Bio}
		return s.profiles.WithTx(tx).Create(ctx, user.Profile)
	})
	if err != nil {
		return nil, err
	}

	return user, nil
}

// Authenticate accepts either the username or the email as identifier.
func (s *UserService) Authenticate(ctx context.Context, identifier, password string) (*models.User, error) {
	var user models.User
	err := s.users.DB(ctx).
		Where("username = ? OR email = ?", identifier, identifier).
		First(&user).Error
	if err != nil || !user.IsActive || !user.CheckPassword(password) {
		return nil, fmt.Errorf("%w: invalid credentials", models.ErrUnauthenticated)
	}
	return &user, nil
}

func (s *UserService) GetAllUsers(ctx context.Context) ([]models.User, error) {
	return s.users.List(ctx, database.Query{DefaultOrdering: "id"})
}

func (s *UserService) GetUserByID(ctx context.Context, id uint) (*models.User, error) {
	return s.users.Get(ctx, id, "Profile", "Permissions")
}

// UpdateUser changes the caller's own account.
func (s *UserService) UpdateUser(ctx context.Context, caller *permissions.Caller, id uint, req *models.UpdateUserRequest) (*models.User, error) {
	if err := permissions.CheckOwner(caller, id); err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if req.FirstName != nil {
		updates["first_name"] = *req.FirstName
	}
	if req.LastName != nil {
		updates["last_name"] = *req.LastName
	}
	var username, email string
	if req.Username != nil {
		username = *req.Username
		updates["username"] = username
	}
	if req.Email != nil {
		email = *req.Email
		updates["email"] = email
	}
	if err := s.checkAvailable(ctx, id, username, email); err != nil {
		return nil, err
	}

	if _, err := s.users.Update(ctx, id, updates); err != nil {
		return nil, err
	}
	return s.GetUserByID(ctx, id)
}

// checkAvailable reports a conflict when username or email belongs to an
// account other than exceptID. Soft-deleted accounts still hold their names.
func (s *UserService) checkAvailable(ctx context.Context, exceptID uint, username, email string) error {
	if username == "" && email == "" {
		return nil
	}
	var taken int64
	err := s.users.DB(ctx).Unscoped().Model(&models.User{}).
		Where("(username = ? OR email = ?) AND id <> ?", username, email, exceptID).
		Count(&taken).Error
	if err != nil {
		return err
	}
	if taken > 0 {
		return fmt.Errorf("%w: user with this email or username already exists", models.ErrConflict)
	}
	return nil
}

// DeleteUser removes the caller's own account and profile.
func (s *UserService) DeleteUser(ctx context.Context, caller *permissions.Caller, id uint) error {
	if err := permissions.CheckOwner(caller, id); err != nil {
		return err
	}
	return database.Transaction(ctx, s.db, func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", id).Delete(&models.Profile{}).Error; err != nil {
			return err
		}
		return s.users.WithTx(tx).Delete(ctx, id)
	})
}

func (s *UserService) SetRole(ctx context.Context, id uint, role string) (*models.User, error) {
	if !models.ValidRole(role) {
		return nil, models.NewFieldError("role", fmt.Sprintf("%q is not a valid role.", role))
	}
	if _, err := s.users.Update(ctx, id, map[string]interface{}{"role": role}); err != nil {
		return nil, err
	}
	return s.GetUserByID(ctx, id)
}

func (s *UserService) GrantPermission(ctx context.Context, id uint, codename string) (*models.User, error) {
	if !permissions.Known(codename) {
		return nil, models.NewFieldError("codename", fmt.Sprintf("Unknown permission %q.", codename))
	}
	user, err := s.users.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	perm := models.Permission{Codename: codename}
	if err := s.db.WithContext(ctx).Where(&perm).FirstOrCreate(&perm).Error; err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Model(user).Association("Permissions").Append(&perm); err != nil {
		return nil, err
	}
	return s.GetUserByID(ctx, id)
}

func (s *UserService) RevokePermission(ctx context.Context, id uint, codename string) (*models.User, error) {
	user, err := s.users.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	var perm models.Permission
	err = s.db.WithContext(ctx).Where("codename = ?", codename).First(&perm).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, models.NotFoundError("permission")
	}
	if err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Model(user).Association("Permissions").Delete(&perm); err != nil {
		return nil, err
	}
	return s.GetUserByID(ctx, id)
}

func (s *UserService) GetProfile(ctx context.Context, userID uint) (*models.Profile, error) {
	return s.profiles.First(ctx, database.Query{Filters: map[string]interface{}{"user_id": userID}})
}

func (s *UserService) UpdateProfile(ctx context.Context, userID uint, req *models.UpdateProfileRequest) (*models.Profile, error) {
	profile, err := s.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if req.Bio != nil {
		updates["bio"] = *req.Bio
	}
	if req.Avatar != nil {
		updates["avatar"] = *req.Avatar
	}
	return s.profiles.Update(ctx, profile.ID, updates)
}

// ResolveCaller loads the identity used by the authorization gate.
func (s *UserService) ResolveCaller(ctx context.Context, userID uint) (*permissions.Caller, error) {
	user, err := s.users.Get(ctx, userID, "Permissions")
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, fmt.Errorf("%w: unknown user", models.ErrUnauthenticated)
		}
		return nil, err
	}
	if !user.IsActive {
		return nil, fmt.Errorf("%w: account disabled", models.ErrUnauthenticated)
	}
	return permissions.NewCaller(user), nil
}
