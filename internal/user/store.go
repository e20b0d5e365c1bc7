package user

import (
	"context"
	"fmt"
	"strings"

	"hackshare/internal/dberr"
	"hackshare/internal/validate"

	"gorm.io/gorm"
)

// Registration is the input accepted by register and admin user creation.
type Registration struct {
	Username string `json:"username" validate:"min=6,max=64,excludes=@"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"min=6"`
}

func ValidateRegistration(in Registration) validate.Errors {
	return validate.Struct(in)
}

// Store reads and writes users through an injected gorm handle.
type Store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// FindByID returns nil, nil when no such user exists.
func (s *Store) FindByID(ctx context.Context, id string) (*User, error) {
	var u User
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&u).Error
	if dberr.IsNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find user %s: %w", id, err)
	}
	return &u, nil
}

func (s *Store) FindByIDs(ctx context.Context, ids []string) ([]User, error) {
	var users []User
	if len(ids) == 0 {
		return users, nil
	}
	if err := s.db.WithContext(ctx).Where("id IN ?", ids).Find(&users).Error; err != nil {
		return nil, fmt.Errorf("find users: %w", err)
	}
	return users, nil
}

// FindByLogin looks up by email when login contains '@', else by username.
func (s *Store) FindByLogin(ctx context.Context, login string) (*User, error) {
	column := "username"
	if strings.Contains(login, "@") {
		column = "email"
	}
	var u User
	err := s.db.WithContext(ctx).Where(column+" = ?", login).First(&u).Error
	if dberr.IsNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find user by %s: %w", column, err)
	}
	return &u, nil
}

func (s *Store) List(ctx context.Context) ([]User, error) {
	var users []User
	if err := s.db.WithContext(ctx).Order("created_at").Find(&users).Error; err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

func (s *Store) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(&User{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("count users: %w", err)
	}
	return count, nil
}

// Create inserts u. A unique violation comes back as validate.Errors naming
// the conflicting field.
func (s *Store) Create(ctx context.Context, u *User) error {
	err := s.db.WithContext(ctx).Create(u).Error
	if err == nil {
		return nil
	}
	if !dberr.IsDuplicate(err) {
		return fmt.Errorf("create user: %w", err)
	}
	errs := s.conflicts(ctx, u)
	if len(errs) == 0 {
		errs.Add("username", "username already exists")
	}
	return errs
}

func (s *Store) conflicts(ctx context.Context, u *User) validate.Errors {
	var errs validate.Errors
	for _, field := range []struct{ column, value string }{
		{"username", u.Username},
		{"email", u.Email},
	} {
		var count int64
		if err := s.db.WithContext(ctx).Model(&User{}).Where(field.column+" = ?", field.value).Count(&count).Error; err == nil && count > 0 {
			errs.Add(field.column, field.column+" already exists")
		}
	}
	return errs
}
