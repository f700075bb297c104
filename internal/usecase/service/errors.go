package service

import (
	"errors"
	"fmt"

	"github.com/niklvrr/FossaOnboarding/internal/infrastructure/repository"
)

type DomainError struct {
	Code    string
	Message string
	Err     error
}

func WrapError(domainError *DomainError, err error) error {
	return &DomainError{
		Code:    domainError.Code,
		Message: domainError.Message,
		Err:     err,
	}
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// Is сравнивает по коду, чтобы errors.Is(err, ErrNoMaintainers) работал после WrapError
func (e *DomainError) Is(target error) bool {
	var t *DomainError
	if !errors.As(target, &t) {
		return false
	}
	return e.Code == t.Code && (t.Message == "" || e.Message == t.Message)
}

const (
	CodeInvalidInput       = "INVALID_INPUT"
	CodeNoMaintainers      = "NO_MAINTAINERS"
	CodeNotFound           = "NOT_FOUND"
	CodeUpstream           = "UPSTREAM_ERROR"
	CodeTransient          = "TRANSIENT"
	CodePartialApplication = "PARTIAL_APPLICATION"
)

var (
	// INVALID_INPUT
	ErrTitleWithoutMarker = &DomainError{
		Code:    CodeInvalidInput,
		Message: "issue title does not contain the project marker",
	}
	ErrEmptyProjectName = &DomainError{
		Code:    CodeInvalidInput,
		Message: "issue title names an empty project",
	}
	ErrInvalidInput = &DomainError{
		Code:    CodeInvalidInput,
		Message: "invalid input",
	}

	// NO_MAINTAINERS
	ErrNoMaintainers = &DomainError{
		Code:    CodeNoMaintainers,
		Message: "no known maintainers for project",
	}

	// NOT_FOUND
	ErrRosterEmpty = &DomainError{
		Code:    CodeNotFound,
		Message: "maintainer spreadsheet returned no rows",
	}
	ErrNotFound = &DomainError{
		Code:    CodeNotFound,
		Message: "resource not found",
	}

	// UPSTREAM_ERROR
	ErrUpstream = &DomainError{
		Code:    CodeUpstream,
		Message: "upstream request failed",
	}

	// TRANSIENT
	ErrTransient = &DomainError{
		Code:    CodeTransient,
		Message: "transient upstream failure, retry later",
	}

	// PARTIAL_APPLICATION
	ErrPartialApplication = &DomainError{
		Code: CodePartialApplication,
	}
)

// mapRepositoryError переводит ошибку репозитория в доменную
func mapRepositoryError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repository.ErrTransient):
		return WrapError(ErrTransient, err)
	case errors.Is(err, repository.ErrNotFound):
		return WrapError(ErrNotFound, err)
	case errors.Is(err, repository.ErrInvalidInput):
		return WrapError(ErrInvalidInput, err)
	}
	return WrapError(ErrUpstream, err)
}

// newPartialApplicationError команда создана, но участники не добавлены.
// Сообщение содержит все, что нужно для ручного исправления.
func newPartialApplicationError(project string, teamId int, userIds []int, err error) error {
	return &DomainError{
		Code:    CodePartialApplication,
		Message: fmt.Sprintf("team %q (id %d) was created but adding users %v failed", project, teamId, userIds),
		Err:     err,
	}
}

// IsRetryable ошибка временная, повторный запуск может пройти
func IsRetryable(err error) bool {
	return errors.Is(err, ErrTransient) || errors.Is(err, repository.ErrTransient)
}
