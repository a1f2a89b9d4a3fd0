package failure

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorFormatting(t *testing.T) {
	cause := errors.New("disk full")

	assert.Equal(t, "SAVE_FAILED: persist documents: disk full", Save("persist documents", cause).Error())
	assert.Equal(t, `NOT_FOUND: document "abc" not found`, NotFound("document", "abc").Error())
	assert.Equal(t, "NOT_FOUND: no active document", NoActiveDocument().Error())
}

func TestIsHelpersSeeThroughWrapping(t *testing.T) {
	err := fmt.Errorf("switch document: %w", Save("persist documents", errors.New("boom")))

	assert.True(t, IsSave(err))
	assert.False(t, IsLoad(err))
	assert.Equal(t, CodeSave, CodeOf(err))
}

func TestUnwrapExposesCause(t *testing.T) {
	cause := errors.New("corrupt json")
	err := Load("read documents", cause)

	assert.ErrorIs(t, err, cause)
	assert.True(t, IsLoad(err))
}

func TestCodeOfPlainError(t *testing.T) {
	assert.Equal(t, Code(""), CodeOf(errors.New("plain")))
	assert.False(t, IsNotFound(nil))
}

func TestEachConstructorSetsCode(t *testing.T) {
	tests := []struct {
		err  *Error
		code Code
		is   func(error) bool
	}{
		{Load("m", nil), CodeLoad, IsLoad},
		{Save("m", nil), CodeSave, IsSave},
		{Convert("m", nil), CodeConvert, IsConvert},
		{Export("m", nil), CodeExport, IsExport},
		{NotFound("tag", "x"), CodeNotFound, IsNotFound},
	}

	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			assert.Equal(t, tt.code, tt.err.Code)
			assert.True(t, tt.is(tt.err))
		})
	}
}
