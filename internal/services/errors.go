package services

import (
	"errors"

	"cryptofunds/internal/repository"
)

var (
	// ErrNotFound: записи нет или она скрыта от публичного API.
	ErrNotFound = repository.ErrNotFound
	// ErrValidation оборачивает все ошибки валидации входных данных.
	ErrValidation = errors.New("validation failed")
	// ErrConflict: slug уже занят.
	ErrConflict = errors.New("slug already taken")
)
