package service

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTransError_Format(t *testing.T) {
	cause := errors.New("quota exceeded")
	err := WrapError(cause, ErrTranslation, "failed to translate sentence").
		WithContext("line", 12).
		WithContext("fragments", 2)

	assert.Equal(t,
		"[Translation] failed to translate sentence | context: fragments=2, line=12 | cause: quota exceeded",
		err.Error())
	assert.ErrorIs(t, err, cause)
}

func TestIsErrorType(t *testing.T) {
	err := fmt.Errorf("outer: %w", NewError(ErrFileWrite, "disk full"))

	assert.True(t, IsErrorType(err, ErrFileWrite))
	assert.False(t, IsErrorType(err, ErrFileRead))
	assert.False(t, IsErrorType(errors.New("plain"), ErrFileWrite))
}

func TestDefaultErrorHandler(t *testing.T) {
	h := NewDefaultErrorHandler()

	assert.True(t, h.Handle(fmt.Errorf("wrapped: %w", NewError(ErrConfig, "bad"))))
	assert.False(t, h.Handle(errors.New("plain")))

	for _, typ := range []ErrorType{ErrFileNotFound, ErrFileRead, ErrFileWrite, ErrAPI, ErrConfig, ErrNetwork, ErrTranslation, ErrUnknown} {
		assert.NotEmpty(t, h.GetAdvice(NewError(typ, "x")), typ.String())
	}
}

func TestErrorTypeString(t *testing.T) {
	assert.Equal(t, "FileNotFound", ErrFileNotFound.String())
	assert.Equal(t, "Unknown", ErrorType(99).String())
}
