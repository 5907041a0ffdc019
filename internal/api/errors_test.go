package api

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/dmitrijs2005/gophauth/internal/common"
)

func TestErrorFromStatus(t *testing.T) {
	err := ErrorFromStatus(status.Error(codes.NotFound, "invalid_activation_link: activation link is invalid"))
	assert.ErrorIs(t, err, common.ErrInvalidActivationLink)
	assert.Equal(t, "invalid_activation_link: activation link is invalid", err.Error())

	err = ErrorFromStatus(status.Error(codes.NotFound, "unknown_account: account with email a@x.com does not exist"))
	assert.ErrorIs(t, err, common.ErrUnknownAccount)

	err = ErrorFromStatus(status.Error(codes.Internal, "internal_failure"))
	assert.Equal(t, common.KindInternal, common.KindOf(err))
	assert.Equal(t, "internal_failure", err.Error())
}

func TestErrorFromStatus_ForeignErrors(t *testing.T) {
	unavailable := status.Error(codes.Unavailable, "connection refused")
	assert.Equal(t, unavailable, ErrorFromStatus(unavailable))

	plain := errors.New("boom")
	assert.Equal(t, plain, ErrorFromStatus(plain))

	assert.NoError(t, ErrorFromStatus(nil))
}
