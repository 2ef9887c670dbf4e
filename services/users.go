package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"foodgram/global"
	"foodgram/models"
	"foodgram/utils"

	"gorm.io/gorm"
)

const passwordTooLong = "Ensure this field has no more than 72 bytes."

type RegisterInput struct {
	Email     string
	Username  string
	FirstName string
	LastName  string
	Password  string
}

// RegisterUser creates an account. Field format is checked by the request binding,
// uniqueness and reserved names are checked here.
func RegisterUser(ctx context.Context, in RegisterInput) (*models.User, error) {
	db := global.Db.WithContext(ctx)
	verr := &ValidationError{}

	if len(in.Password) > utils.MaxPasswordBytes {
		verr.Add("password", passwordTooLong)
	}
	if strings.EqualFold(in.Username, "me") {
		verr.Add("username", "This username is reserved.")
	}

	var n int64
	if err := db.Model(&models.User{}).Where("LOWER(email) = ?", strings.ToLower(in.Email)).Count(&n).Error; err != nil {
		return nil, err
	}
	if n > 0 {
		verr.Add("email", "A user with this email already exists.")
	}
	if err := db.Model(&models.User{}).Where("username = ?", in.Username).Count(&n).Error; err != nil {
		return nil, err
	}
	if n > 0 {
		verr.Add("username", "A user with this username already exists.")
	}
	if err := verr.OrNil(); err != nil {
		return nil, err
	}

	hash, err := utils.HashPassword(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	user := &models.User{
		Email:     in.Email,
		Username:  in.Username,
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Password:  hash,
	}
	if err := db.Create(user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fieldError("email", "A user with this email or username already exists.")
		}
		return nil, err
	}
	return user, nil
}

// Authenticate checks email and password.
func Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	var user models.User
	err := global.Db.WithContext(ctx).Where("LOWER(email) = ?", strings.ToLower(email)).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if !utils.CheckPassword(password, user.Password) {
		return nil, ErrInvalidCredentials
	}
	return &user, nil
}

func GetUser(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	err := global.Db.WithContext(ctx).First(&user, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func ListUsers(ctx context.Context, limit, offset int) ([]models.User, int64, error) {
	db := global.Db.WithContext(ctx)
	var count int64
	if err := db.Model(&models.User{}).Count(&count).Error; err != nil {
		return nil, 0, err
	}
	var users []models.User
	err := db.Order("date_joined DESC, id DESC").Limit(limit).Offset(offset).Find(&users).Error
	return users, count, err
}

func SetPassword(ctx context.Context, user *models.User, current, next string) error {
	if next == "" {
		return fieldError("new_password", "This field is required.")
	}
	if len(next) > utils.MaxPasswordBytes {
		return fieldError("new_password", passwordTooLong)
	}
	if !utils.CheckPassword(current, user.Password) {
		return ErrWrongPassword
	}
	hash, err := utils.HashPassword(next)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	if err := global.Db.WithContext(ctx).Model(user).Update("password", hash).Error; err != nil {
		return err
	}
	user.Password = hash
	return nil
}
