package api

import (
	"strings"

	"google.golang.org/grpc/status"

	"github.com/dmitrijs2005/gophauth/internal/common"
)

// ErrorFromStatus turns a status returned by the auth service back into a
// *common.Error so clients can branch on the kind. Errors that did not
// come from the service (transport failures) are returned unchanged.
func ErrorFromStatus(err error) error {
	st, ok := status.FromError(err)
	if !ok || err == nil {
		return err
	}
	code, detail, _ := strings.Cut(st.Message(), ": ")
	kind := common.KindFromCode(code)
	if kind == common.KindInternal && code != common.KindInternal.Code() {
		return err
	}
	return common.NewError(kind, "%s", detail)
}
