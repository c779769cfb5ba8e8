package cerr_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/momeni/phoenix/pkg/core/cerr"
	"github.com/stretchr/testify/assert"
)

func TestSentinelsSurviveWrapping(t *testing.T) {
	err := fmt.Errorf("search: %w", cerr.DuplicateRequest())
	assert.ErrorIs(t, err, cerr.ErrDuplicateRequest)

	var ce *cerr.Error
	if assert.True(t, errors.As(err, &ce)) {
		assert.Equal(t, http.StatusConflict, ce.HTTPStatusCode)
	}
	assert.Equal(t, "[401] unknown session", cerr.UnknownSession().Error())
	assert.Equal(t, http.StatusNotFound, cerr.UnknownUser().HTTPStatusCode)
}

func TestStatusOf(t *testing.T) {
	code, ce := cerr.StatusOf(fmt.Errorf("queueing: %w", cerr.Unavailable(
		errors.New("closed"),
	)))
	assert.Equal(t, http.StatusServiceUnavailable, code)
	if assert.NotNil(t, ce) {
		assert.EqualError(t, ce.Err, "closed")
	}

	code, ce = cerr.StatusOf(errors.New("boom"))
	assert.Equal(t, http.StatusInternalServerError, code)
	assert.Nil(t, ce)
}
