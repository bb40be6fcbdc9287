package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/minsuk-ha/go-shop-ddd/internal/domain/apperrors"
	"github.com/minsuk-ha/go-shop-ddd/pkg/response"
)

// statusByKind is the single place where domain error variants gain an HTTP
// status. Handlers never pick status codes for domain failures themselves.
var statusByKind = map[apperrors.Kind]int{
	apperrors.KindEmptyField:            http.StatusBadRequest,
	apperrors.KindInvalidUsernameLength: http.StatusBadRequest,
	apperrors.KindInvalidPrice:          http.StatusBadRequest,
	apperrors.KindInvalidCategory:       http.StatusBadRequest,
	apperrors.KindInvalidArgument:       http.StatusBadRequest,
	apperrors.KindDuplicateEmail:        http.StatusConflict,
	apperrors.KindDuplicateUsername:     http.StatusConflict,
	apperrors.KindPasswordNotMatch:      http.StatusUnauthorized,
	apperrors.KindMemberNotFound:        http.StatusNotFound,
	apperrors.KindProductNotFound:       http.StatusNotFound,
	apperrors.KindInternal:              http.StatusInternalServerError,
}

// StatusForKind returns the HTTP status for a domain error kind, defaulting
// to 500 for anything outside the mapped set.
func StatusForKind(k apperrors.Kind) int {
	if s, ok := statusByKind[k]; ok {
		return s
	}
	return http.StatusInternalServerError
}

// respondError converts a domain error into the API error envelope. Internal
// failures hide their cause behind a generic message.
func respondError(c *gin.Context, err error) {
	kind := apperrors.KindOf(err)
	status := StatusForKind(kind)

	msg := err.Error()
	var details any
	var appErr *apperrors.Error
	if errors.As(err, &appErr) && appErr.Field != "" {
		details = map[string]string{appErr.Field: appErr.Message}
	}
	if kind == apperrors.KindInternal {
		msg = "internal error"
		details = nil
	}
	resp := response.Error[any](c, status, msg, details)
	c.JSON(status, resp)
}
