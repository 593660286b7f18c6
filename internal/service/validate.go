package service

import (
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/d60-Lab/vidtube/pkg/apperr"
)

var (
	validate       = validator.New()
	usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_]+$`)
)

func validateUsername(username string) error {
	username = strings.TrimSpace(username)
	if len(username) < 3 || !usernamePattern.MatchString(username) {
		return apperr.InvalidArgument("username must be at least 3 characters and contain only letters, numbers and underscores")
	}
	return nil
}

func validateEmail(email string) error {
	if err := validate.Var(strings.TrimSpace(email), "required,email"); err != nil {
		return apperr.InvalidArgument("invalid email format")
	}
	return nil
}

// validatePassword 至少 8 位，且同时包含字母、数字与 @#! 之一
func validatePassword(password string) error {
	password = strings.TrimSpace(password)
	if len(password) < 8 ||
		!strings.ContainsAny(password, "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ") ||
		!strings.ContainsAny(password, "0123456789") ||
		!strings.ContainsAny(password, "@#!") {
		return apperr.InvalidArgument("password must be at least 8 characters and contain a letter, a number and a special character")
	}
	return nil
}
