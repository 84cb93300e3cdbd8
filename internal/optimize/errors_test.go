package optimize

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorFormatting(t *testing.T) {
	tests := []struct {
		name string
		err  *Error
		want string
	}{
		{
			name: "message only",
			err:  NewError("bad input"),
			want: "bad input",
		},
		{
			name: "with component and op",
			err:  NewError("bad input").WithComponent("step").WithOp("NewConstant"),
			want: "step: NewConstant: bad input",
		},
		{
			name: "component only",
			err:  NewError("bad input").WithComponent("golden"),
			want: "golden: bad input",
		},
		{
			name: "wrapped",
			err:  WrapError(errors.New("root cause"), "setup failed").WithOp("New"),
			want: "New: setup failed: root cause",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
		})
	}
}

func TestErrorUnwrap(t *testing.T) {
	cause := errors.New("root cause")
	err := WrapError(cause, "setup failed")
	assert.ErrorIs(t, err, cause)

	assert.Nil(t, WrapError(nil, "ignored"))
}

func TestAsValidationError(t *testing.T) {
	e, ok := AsValidationError(NewErrorf("bad order %d", -1))
	assert.True(t, ok)
	assert.Equal(t, "bad order -1", e.Message)

	_, ok = AsValidationError(fmt.Errorf("plain"))
	assert.False(t, ok)

	_, ok = AsValidationError(nil)
	assert.False(t, ok)
}
