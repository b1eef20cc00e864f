package application

import (
	"errors"
	"fmt"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorKindsSurviveWrapping(t *testing.T) {
	cause := os.ErrPermission
	err := fmt.Errorf("store photo: %w", IO(cause))

	assert.ErrorIs(t, err, ErrIO)
	assert.ErrorIs(t, err, os.ErrPermission)
	assert.NotErrorIs(t, err, ErrValidation)

	var appErr *Error
	assert.True(t, errors.As(err, &appErr))
	assert.Equal(t, cause.Error(), appErr.Error())
}

func TestErrorMessage(t *testing.T) {
	assert.Equal(t, "Email is invalid!", Validation("Email is invalid!").Error())
	assert.Equal(t, "not found", (&Error{Kind: ErrNotFound}).Error())
	assert.Equal(t, "boom", (&Error{Kind: ErrDependency, Err: errors.New("boom")}).Error())
}

func TestOutcome(t *testing.T) {
	assert.Equal(t, "OK", Outcome(nil))
	assert.Equal(t, "VALIDATION_FAILED", Outcome(Validation("x")))
	assert.Equal(t, "NOT_FOUND", Outcome(NotFound("x", nil)))
	assert.Equal(t, "IO_FAILED", Outcome(IO(errors.New("disk"))))
	assert.Equal(t, "DEPENDENCY_FAILED", Outcome(Dependency("x", nil)))
	assert.Equal(t, "ERROR", Outcome(errors.New("other")))
}
