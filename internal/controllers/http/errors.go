package http

import (
	"errors"
	"net/http"

	"cake-order-service/internal/domain"

	"github.com/gin-gonic/gin"
)

var kindStatus = map[domain.ErrorKind]int{
	domain.KindNotFound:          http.StatusNotFound,
	domain.KindInvalidInput:      http.StatusBadRequest,
	domain.KindUnavailable:       http.StatusConflict,
	domain.KindConflict:          http.StatusConflict,
	domain.KindResourceExhausted: http.StatusServiceUnavailable,
	domain.KindInternal:          http.StatusInternalServerError,
}

// writeError renders err as {"error": code, "message": text}. Errors that
// carry no code are reported as internal without leaking their text.
func writeError(c *gin.Context, err error) {
	_ = c.Error(err)

	code, ok := domain.CodeOf(err)
	if !ok {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "INTERNAL_ERROR", Message: "internal error"})
		return
	}
	kind := domain.KindOf(err)
	status, ok := kindStatus[kind]
	if !ok {
		status = http.StatusInternalServerError
	}

	msg := string(code)
	var de *domain.Error
	if errors.As(err, &de) && de.Message != "" {
		msg = de.Message
	}
	c.JSON(status, ErrorResponse{Error: string(code), Message: msg})
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, ErrorResponse{Error: "BAD_REQUEST", Message: msg})
}
