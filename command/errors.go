package command

import (
	"errors"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-mentors/pkg/types"
)

const (
	textCodeValidation      = "VALIDATION_FAILED"
	textCodeProfileMissing  = "PROFILE_NOT_FOUND"
	textCodeProfileBanned   = "PROFILE_ALREADY_BANNED"
	textCodeCategoryMissing = "CATEGORY_NOT_FOUND"
	textCodeInternal        = "INTERNAL_ERROR"
)

var (
	// ErrProfileIDRequired indicates a command omitted the profile id.
	ErrProfileIDRequired = types.ErrProfileIDRequired
	// ErrProcessorRequired indicates the change processor dependency is missing.
	ErrProcessorRequired = errors.New("go-mentors: change processor required")
)

// commandError converts err into a go-errors rich error. The original error
// stays reachable through errors.Is.
func commandError(err error, message string) error {
	if err == nil {
		return nil
	}
	var richErr *goerrors.Error
	if goerrors.As(err, &richErr) {
		return richErr
	}

	category := goerrors.CategoryInternal
	code := goerrors.CodeInternal
	textCode := textCodeInternal
	var fieldErrs validation.Errors
	switch {
	case errors.Is(err, types.ErrProfileNotFound):
		category, code, textCode = goerrors.CategoryNotFound, goerrors.CodeNotFound, textCodeProfileMissing
	case errors.Is(err, types.ErrCategoryNotFound):
		category, code, textCode = goerrors.CategoryNotFound, goerrors.CodeNotFound, textCodeCategoryMissing
	case errors.Is(err, types.ErrProfileAlreadyBanned):
		category, code, textCode = goerrors.CategoryValidation, goerrors.CodeBadRequest, textCodeProfileBanned
	case errors.As(err, &fieldErrs),
		errors.Is(err, types.ErrProfileIDRequired),
		errors.Is(err, types.ErrProfileRequired),
		errors.Is(err, types.ErrChangeSetRequired),
		errors.Is(err, types.ErrCategoryGroupRequired),
		errors.Is(err, types.ErrCategoryNameRequired),
		errors.Is(err, types.ErrProviderRequired),
		errors.Is(err, types.ErrUsernameRequired):
		category, code, textCode = goerrors.CategoryValidation, goerrors.CodeBadRequest, textCodeValidation
	}

	return goerrors.Wrap(err, category, message).
		WithCode(code).
		WithTextCode(textCode)
}
