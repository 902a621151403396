package httpserver

import (
	"fmt"
	"net/http"
	"time"

	"moviefav/errs"
	"moviefav/pkg/sentry"

	"github.com/labstack/echo/v4"
)

const internalErrorMessage = "Internal server error"

type ErrorResponse struct {
	StatusCode int    `json:"statusCode"`
	Timestamp  string `json:"timestamp"`
	Path       string `json:"path"`
	Method     string `json:"method"`
	Message    string `json:"message"`
}

// handleHTTPError maps application errors to appropriate HTTP status codes.
// Messages of internal errors are never sent to the client.
func (s *Server) handleHTTPError(err error, c echo.Context) {
	code, message := statusAndMessage(err)

	if code >= http.StatusInternalServerError {
		s.Logger.Errorw(err.Error(), "request_id", s.requestID(c), "status", code)
		sentry.WithContext(c).Error(err)
	} else {
		s.Logger.Warnw(message, "request_id", s.requestID(c), "status", code)
	}

	// Don't write response if already committed
	if c.Response().Committed {
		return
	}

	req := c.Request()
	body := ErrorResponse{
		StatusCode: code,
		Timestamp:  time.Now().UTC().Format("2006-01-02T15:04:05.000Z07:00"),
		Path:       req.URL.RequestURI(),
		Method:     req.Method,
		Message:    message,
	}

	if req.Method == http.MethodHead {
		err = c.NoContent(code)
	} else {
		err = c.JSON(code, body)
	}
	if err != nil {
		s.Logger.Errorw("write error response", "error", err)
	}
}

func statusAndMessage(err error) (int, string) {
	if he, ok := err.(*echo.HTTPError); ok {
		msg, isString := he.Message.(string)
		if !isString {
			msg = fmt.Sprint(he.Message)
		}
		if he.Code >= http.StatusInternalServerError {
			msg = internalErrorMessage
		}
		return he.Code, msg
	}

	switch errs.ErrorCode(err) {
	case errs.EINVALID:
		return http.StatusBadRequest, errs.ErrorMessage(err)
	case errs.ENOTFOUND:
		return http.StatusNotFound, errs.ErrorMessage(err)
	case errs.ECONFLICT:
		return http.StatusConflict, errs.ErrorMessage(err)
	case errs.EUNAUTHORIZED:
		return http.StatusUnauthorized, errs.ErrorMessage(err)
	case errs.ENOTIMPLEMENTED:
		return http.StatusNotImplemented, errs.ErrorMessage(err)
	case errs.EUNAVAILABLE:
		return http.StatusServiceUnavailable, errs.ErrorMessage(err)
	}
	return http.StatusInternalServerError, internalErrorMessage
}
