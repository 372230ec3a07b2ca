package errors

import (
	stdErrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetadataFor(t *testing.T) {
	assert.Equal(t, http.StatusNotFound, MetadataFor(CodeNotFound).HTTPStatus)
	assert.Equal(t, http.StatusBadRequest, MetadataFor(CodeValidation).HTTPStatus)
	// unknown codes degrade to internal
	assert.Equal(t, http.StatusInternalServerError, MetadataFor(Code("BOGUS")).HTTPStatus)
}

func TestWrapPreservesCause(t *testing.T) {
	cause := stdErrors.New("row not found")
	err := Wrap(CodeNotFound, cause, "bill missing")

	require.NotNil(t, err)
	assert.Equal(t, CodeNotFound, err.Code())
	assert.Equal(t, "bill missing", err.Message())
	assert.ErrorIs(t, err, cause)
}

func TestAsUnwrapsThroughChain(t *testing.T) {
	inner := New(CodeConflict, "duplicate stock key")
	wrapped := fmt.Errorf("saving stock item: %w", inner)

	typed := As(wrapped)
	require.NotNil(t, typed)
	assert.Equal(t, CodeConflict, typed.Code())

	assert.Nil(t, As(stdErrors.New("plain")))
	assert.Nil(t, As(nil))
}

func TestDumpBuildsChain(t *testing.T) {
	err := Wrap(CodeDependency, stdErrors.New("connection refused"), "adjusting stock")
	d := Dump(err)

	assert.Equal(t, CodeDependency, d.Code)
	assert.Len(t, d.Chain, 2)
	assert.Contains(t, d.TopMessage, "adjusting stock")
}

func TestWithDetails(t *testing.T) {
	err := New(CodeValidation, "validation failed").WithDetails(map[string]string{"quantity": "must be at least 1"})
	details, ok := err.Details().(map[string]string)
	require.True(t, ok)
	assert.Equal(t, "must be at least 1", details["quantity"])
}
