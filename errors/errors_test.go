package errors

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	err := New("test error")
	require.NotNil(t, err)
	assert.Equal(t, "test error", err.Error())
}

func TestNewf(t *testing.T) {
	err := Newf("error: %s %d", "test", 42)
	require.NotNil(t, err)
	assert.Equal(t, "error: test 42", err.Error())
}

func TestWrap(t *testing.T) {
	original := New("original")
	wrapped := Wrap(original, "wrapped")

	assert.Contains(t, wrapped.Error(), "wrapped")
	assert.Contains(t, wrapped.Error(), "original")
	assert.True(t, Is(wrapped, original))
}

func TestIs(t *testing.T) {
	err1 := New("error 1")
	err2 := New("error 2")
	wrapped := Wrap(err1, "wrapped")

	assert.True(t, Is(wrapped, err1))
	assert.False(t, Is(wrapped, err2))
	assert.False(t, Is(nil, err1))
}

type customError struct {
	msg string
}

func (e *customError) Error() string {
	return e.msg
}

func TestAs(t *testing.T) {
	original := &customError{msg: "custom"}
	wrapped := Wrap(original, "wrapped")

	var target *customError
	require.True(t, As(wrapped, &target))
	assert.Equal(t, "custom", target.msg)
}

func TestWithHint(t *testing.T) {
	err := New("error")
	withHint := WithHint(err, "try this fix")

	hints := GetAllHints(withHint)
	require.Len(t, hints, 1)
	assert.Equal(t, "try this fix", hints[0])
}

func TestSentinels(t *testing.T) {
	assert.True(t, IsNotFoundError(Wrap(ErrNotFound, "schema file")))
	assert.False(t, IsNotFoundError(New("other")))
	assert.False(t, IsNotFoundError(nil))

	assert.True(t, IsMalformedQueryError(WrapMalformedQuery(New("bad json"), "record 7")))
	assert.False(t, IsMalformedQueryError(ErrMalformedRecord))

	assert.True(t, IsInvalidSchemaError(NewInvalidSchemaError("no views in %s", "fdh.json")))
}

func TestWrapMalformedQueryKeepsContext(t *testing.T) {
	err := WrapMalformedQuery(New("unexpected end of JSON input"), "record 3")

	assert.Contains(t, err.Error(), "record 3")
	assert.Contains(t, err.Error(), "unexpected end of JSON input")
	assert.True(t, Is(err, ErrMalformedQuery))
}

func TestNewNotFoundError(t *testing.T) {
	err := NewNotFoundError("input %s", "queries.csv")
	assert.True(t, Is(err, ErrNotFound))
	assert.Contains(t, err.Error(), "queries.csv")
}
