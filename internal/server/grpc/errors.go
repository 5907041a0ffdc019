package grpc

import (
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/dmitrijs2005/gophauth/internal/common"
)

var kindStatus = map[common.ErrorKind]codes.Code{
	common.KindDuplicateAccount:      codes.AlreadyExists,
	common.KindInvalidActivationLink: codes.NotFound,
	common.KindUnknownAccount:        codes.NotFound,
	common.KindBadCredentials:        codes.Unauthenticated,
	common.KindUnauthorized:          codes.Unauthenticated,
	common.KindInvalidInput:          codes.InvalidArgument,
	common.KindInternal:              codes.Internal,
}

// toStatus maps a workflow error to a gRPC status. The message starts
// with the stable error code; internal failures carry nothing else.
func toStatus(err error) error {
	if err == nil {
		return nil
	}
	return status.Error(kindStatus[common.KindOf(err)], common.PublicMessage(err))
}
