package query

import (
	"errors"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-mentors/pkg/types"
)

func queryError(err error, message string) error {
	if err == nil {
		return nil
	}
	var richErr *goerrors.Error
	if goerrors.As(err, &richErr) {
		return richErr
	}
	switch {
	case errors.Is(err, types.ErrProfileNotFound):
		return goerrors.Wrap(err, goerrors.CategoryNotFound, message).
			WithCode(goerrors.CodeNotFound).
			WithTextCode("PROFILE_NOT_FOUND")
	case errors.Is(err, types.ErrProfileIDRequired),
		errors.Is(err, types.ErrCategoryGroupRequired),
		errors.Is(err, types.ErrCategoryNameRequired):
		return goerrors.Wrap(err, goerrors.CategoryValidation, message).
			WithCode(goerrors.CodeBadRequest).
			WithTextCode("VALIDATION_FAILED")
	}
	return goerrors.Wrap(err, goerrors.CategoryInternal, message).
		WithCode(goerrors.CodeInternal).
		WithTextCode("INTERNAL_ERROR")
}
