package serializer

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Response
type Response struct {
	Code  int         `json:"code"`
	Data  interface{} `json:"data,omitempty"`
	Msg   string      `json:"msg"`
	Error string      `json:"error,omitempty"`
}

// TrackedErrorResponse
type TrackedErrorResponse struct {
	Response
	TraceID string `json:"trace_id"`
}

// OK
func OK(data interface{}) Response {
	return Response{
		Code: http.StatusOK,
		Data: data,
		Msg:  "ok",
	}
}

// Err
func Err(errCode int, msg string, err error) Response {
	res := Response{
		Code: errCode,
		Msg:  msg,
	}
	// development mode, show error detail
	if err != nil && gin.Mode() != gin.ReleaseMode {
		res.Error = fmt.Sprintf("%+v", err)
	}
	return res
}

// DBErr
func DBErr(msg string, err error) Response {
	if msg == "" {
		msg = "database error"
	}
	return Err(http.StatusInternalServerError, msg, err)
}

// ParamErr
func ParamErr(msg string, err error) Response {
	if msg == "" {
		msg = "parameter error"
	}
	return Err(http.StatusBadRequest, msg, err)
}

// NotFoundErr
func NotFoundErr(msg string) Response {
	if msg == "" {
		msg = "not found"
	}
	return Err(http.StatusNotFound, msg, nil)
}

// AuthErr
func AuthErr(msg string) Response {
	if msg == "" {
		msg = "authentication error"
	}
	return Err(http.StatusUnauthorized, msg, nil)
}

// StorageErr
func StorageErr(msg string, err error) Response {
	if msg == "" {
		msg = "storage error"
	}
	return Err(http.StatusBadGateway, msg, err)
}
