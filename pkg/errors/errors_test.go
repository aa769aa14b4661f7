package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type semesterPayload struct {
	Name string `validate:"required,oneof=Spring Summer Fall"`
	Year int    `validate:"gte=2000"`
}

func TestInvalidListsFieldErrors(t *testing.T) {
	err := validator.New().Struct(semesterPayload{Name: "Winter", Year: 1999})
	require.Error(t, err)

	appErr := Invalid(err, "invalid semester payload")
	assert.Equal(t, http.StatusBadRequest, appErr.Status)
	assert.True(t, Is(appErr, ErrValidation))
	require.Len(t, appErr.Details, 2)
	assert.Equal(t, FieldError{Field: "semesterPayload.Name", Rule: "oneof", Param: "Spring Summer Fall"}, appErr.Details[0])
	assert.Equal(t, "gte", appErr.Details[1].Rule)
}

func TestInvalidWithoutValidatorErrors(t *testing.T) {
	appErr := Invalid(errors.New("unexpected EOF"), "invalid generate payload")
	assert.Empty(t, appErr.Details)
	assert.Equal(t, "invalid generate payload: unexpected EOF", appErr.Error())
}

func TestIsMatchesClonedAndWrapped(t *testing.T) {
	notFound := Clone(ErrNotFound, "schedule not found")
	assert.True(t, Is(fmt.Errorf("load: %w", notFound), ErrNotFound))
	assert.False(t, Is(notFound, ErrForbidden))
	assert.Equal(t, "resource not found", ErrNotFound.Message)
}

func TestFromErrorDefaultsToInternal(t *testing.T) {
	appErr := FromError(errors.New("boom"))
	assert.Equal(t, ErrInternal.Code, appErr.Code)
	assert.Nil(t, FromError(nil))
}
