package vectordb

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type nativeErr struct{ code int }

func (e *nativeErr) Error() string { return fmt.Sprintf("native %d", e.code) }

func TestErrorKinds(t *testing.T) {
	native := &nativeErr{code: 503}

	tests := []struct {
		name string
		err  error
		kind ErrorKind
		is   error
	}{
		{"not found", NewNotFoundError("Index: %s was not found", "us-central1"), KindNotFound, ErrNotFound},
		{"backend", NewBackendError("pinecone", native), KindBackend, ErrBackend},
		{"other", NewOtherError("vector is required"), KindOther, ErrOther},
		{"unimplemented", NewUnimplementedError("scroll_points"), KindUnimplemented, ErrUnimplemented},
		{"foreign", errors.New("plain"), KindOther, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.kind, KindOf(tt.err))
			if tt.is != nil {
				assert.ErrorIs(t, tt.err, tt.is)
			}
			wrapped := fmt.Errorf("ctx: %w", tt.err)
			assert.Equal(t, tt.kind, KindOf(wrapped))
		})
	}
}

func TestBackendErrorPreservesNative(t *testing.T) {
	native := &nativeErr{code: 429}
	err := WrapBackendError("qdrant", native, "upsert %s", "docs")

	var got *nativeErr
	require.ErrorAs(t, err, &got)
	assert.Same(t, native, got)
	assert.Equal(t, "qdrant: upsert docs: native 429", err.Error())
	assert.True(t, IsBackendError(err))
	assert.False(t, IsNotFoundError(err))
}

func TestNilBackendError(t *testing.T) {
	assert.Nil(t, NewBackendError("pinecone", nil))
	assert.Nil(t, WrapBackendError("pinecone", nil, "x"))
}

func TestOtherErrorMessageNeverEmpty(t *testing.T) {
	assert.NotEmpty(t, NewOtherError("").Error())
}

func TestUnimplementedMessage(t *testing.T) {
	err := NewUnimplementedError("scroll_points")
	assert.Equal(t, "scroll_points is not implemented", err.Error())
	assert.True(t, IsUnimplementedError(err))
}
