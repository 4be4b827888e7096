package router

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/questx-lab/reactrole/pkg/errorx"
	"github.com/questx-lab/reactrole/pkg/xcontext"
)

// Response is the envelope of every API.
type Response struct {
	Code    int64  `json:"code"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

func newResponse(data any) Response {
	return Response{
		Code: 0,
		Data: data,
	}
}

func newErrorResponse(err error) (int, Response) {
	errx := errorx.Error{}
	if errors.As(err, &errx) {
		return errx.Code.HTTPStatus(), Response{
			Code:    int64(errx.Code),
			Message: errx.Message,
		}
	}

	return http.StatusInternalServerError, Response{
		Code:    int64(errorx.Unknown.Code),
		Message: errorx.Unknown.Message,
	}
}

func writeResponse(ctx context.Context, w http.ResponseWriter) {
	status, resp := http.StatusOK, newResponse(xcontext.Response(ctx))
	if err := xcontext.Error(ctx); err != nil {
		status, resp = newErrorResponse(err)
	}

	if err := WriteJson(w, status, resp); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot write the response: %v", err)
	}
}

func WriteJson(w http.ResponseWriter, status int, resp any) error {
	b, err := json.Marshal(resp)
	if err != nil {
		return err
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(b); err != nil {
		return err
	}

	return nil
}
