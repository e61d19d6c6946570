package sitetext_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/fwojciec/sitetext"
	"github.com/stretchr/testify/assert"
)

func TestErrorf(t *testing.T) {
	t.Parallel()

	err := sitetext.Errorf(sitetext.EINVALID, "max depth %d out of range", -1)

	assert.Equal(t, sitetext.EINVALID, sitetext.ErrorCode(err))
	assert.Equal(t, "max depth -1 out of range", sitetext.ErrorMessage(err))
}

func TestErrorCode_WrappedError(t *testing.T) {
	t.Parallel()

	err := fmt.Errorf("fetch page: %w", sitetext.Errorf(sitetext.EUNAVAILABLE, "gave up"))

	assert.Equal(t, sitetext.EUNAVAILABLE, sitetext.ErrorCode(err))
	assert.Equal(t, "gave up", sitetext.ErrorMessage(err))
}

func TestErrorCode_NonApplicationError(t *testing.T) {
	t.Parallel()

	err := errors.New("boom")

	assert.Equal(t, sitetext.EINTERNAL, sitetext.ErrorCode(err))
	assert.Equal(t, "Internal error", sitetext.ErrorMessage(err))
}

func TestErrorCode_NilError(t *testing.T) {
	t.Parallel()

	assert.Empty(t, sitetext.ErrorCode(nil))
}

func TestErrorMessage_NilError(t *testing.T) {
	t.Parallel()

	assert.Empty(t, sitetext.ErrorMessage(nil))
}
