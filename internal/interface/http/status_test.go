package handlers

import (
	"net/http"
	"testing"

	"github.com/minsuk-ha/go-shop-ddd/internal/domain/apperrors"
)

func TestStatusForKind(t *testing.T) {
	cases := []struct {
		kind apperrors.Kind
		want int
	}{
		{apperrors.KindEmptyField, http.StatusBadRequest},
		{apperrors.KindInvalidUsernameLength, http.StatusBadRequest},
		{apperrors.KindInvalidPrice, http.StatusBadRequest},
		{apperrors.KindInvalidCategory, http.StatusBadRequest},
		{apperrors.KindInvalidArgument, http.StatusBadRequest},
		{apperrors.KindDuplicateEmail, http.StatusConflict},
		{apperrors.KindDuplicateUsername, http.StatusConflict},
		{apperrors.KindPasswordNotMatch, http.StatusUnauthorized},
		{apperrors.KindMemberNotFound, http.StatusNotFound},
		{apperrors.KindProductNotFound, http.StatusNotFound},
		{apperrors.KindInternal, http.StatusInternalServerError},
		{apperrors.Kind("unmapped"), http.StatusInternalServerError},
	}
	for _, c := range cases {
		if got := StatusForKind(c.kind); got != c.want {
			t.Errorf("StatusForKind(%q) = %d, want %d", c.kind, got, c.want)
		}
	}
}
