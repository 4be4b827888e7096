package errorx

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	err := New(NotFound, "Not found group %s", "g1")
	require.Equal(t, "Not found group g1", err.Error())
	require.Equal(t, http.StatusNotFound, err.Code.HTTPStatus())

	var errx Error
	require.True(t, errors.As(fmt.Errorf("wrap: %w", err), &errx))
	require.Equal(t, NotFound, errx.Code)
}

func TestCode_HTTPStatus(t *testing.T) {
	require.Equal(t, http.StatusBadRequest, EmptyBindings.HTTPStatus())
	require.Equal(t, http.StatusUnauthorized, Unauthenticated.HTTPStatus())
	require.Equal(t, http.StatusConflict, AlreadyExists.HTTPStatus())
	require.Equal(t, http.StatusInternalServerError, Unknown.Code.HTTPStatus())
}
