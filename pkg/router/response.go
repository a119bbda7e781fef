package router

import (
	"errors"

	"github.com/TheoSfak/volunteer-ops-sub005/pkg/errorx"
)

// response is the envelope of every API reply. Code zero means success;
// otherwise it carries the machine-readable failure kind of pkg/errorx.
type response struct {
	Code  int64  `json:"code"`
	Error string `json:"error,omitempty"`
	Data  any    `json:"data,omitempty"`
}

func newResponse(data any) response {
	return response{Code: 0, Data: data}
}

func newErrorResponse(err error) response {
	errx := errorx.Error{}
	if errors.As(err, &errx) {
		return response{
			Code:  int64(errx.Code),
			Error: errx.Message,
		}
	}

	return response{
		Code:  int64(errorx.Unknown.Code),
		Error: errorx.Unknown.Message,
	}
}

func newBindErrorResponse(err error) response {
	return response{
		Code:  int64(errorx.BadRequest),
		Error: err.Error(),
	}
}
