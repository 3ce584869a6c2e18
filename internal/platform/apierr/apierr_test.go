package apierr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_ToHTTPStatus(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{ErrInvalid("bad input"), http.StatusBadRequest},
		{ErrNotFound("missing"), http.StatusNotFound},
		{ErrConflict("duplicate"), http.StatusConflict},
		{ErrUnavailable("no copies"), http.StatusConflict},
		{ErrInternal("boom"), http.StatusInternalServerError},
		{errors.New("plain error"), http.StatusInternalServerError},
		// ラップされていても種別は拾える
		{fmt.Errorf("context: %w", ErrNotFound("missing")), http.StatusNotFound},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, ToHTTPStatus(tt.err))
	}
}

func Test_FromErr_HidesInternalDetail(t *testing.T) {
	body := FromErr(errors.New("pq: connection refused"))
	dto, ok := body.(errorDTO)
	assert.True(t, ok)
	assert.Equal(t, CodeInternal, dto.Error.Code)
	assert.Equal(t, "internal error", dto.Error.Message)

	body = FromErr(ErrConflict("already reserved"))
	dto, ok = body.(errorDTO)
	assert.True(t, ok)
	assert.Equal(t, CodeConflict, dto.Error.Code)
	assert.Equal(t, "already reserved", dto.Error.Message)
}
