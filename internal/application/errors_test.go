package application

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	cause := errors.New("dial tcp: refused")

	assert.Equal(t, KindValidation, KindOf(ValidationError("bad")))
	assert.Equal(t, KindConflict, KindOf(ConflictError("dup")))
	assert.Equal(t, KindAuthentication, KindOf(AuthenticationError(MsgUnauthorized)))
	assert.Equal(t, KindDependency, KindOf(fmt.Errorf("wrapped: %w", DependencyError(MsgInternal, cause))))
	assert.Equal(t, KindUnknown, KindOf(cause))
	assert.Equal(t, KindUnknown, KindOf(nil))
}

func TestDependencyErrorKeepsCause(t *testing.T) {
	cause := errors.New("dial tcp: refused")
	err := DependencyError(MsgInternal, cause)

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "Something went wrong: dial tcp: refused", err.Error())

	var e *Error
	assert.True(t, errors.As(err, &e))
	assert.Equal(t, MsgInternal, e.Message)
}

func TestErrorKindString(t *testing.T) {
	assert.Equal(t, "validation", KindValidation.String())
	assert.Equal(t, "dependency", KindDependency.String())
	assert.Equal(t, "unknown", ErrorKind(42).String())
}
