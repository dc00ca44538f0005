package controller

import (
	"errors"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"restaurant_hub_202601/internal/api/dto"
	"restaurant_hub_202601/internal/repository"
	"restaurant_hub_202601/internal/service"
)

// ==================== 统一响应 ====================

func respondOK(ctx *gin.Context, status int, message string, data interface{}) {
	ctx.JSON(status, gin.H{
		"code":    0,
		"message": message,
		"data":    data,
	})
}

func respondBadRequest(ctx *gin.Context, message string) {
	ctx.JSON(http.StatusBadRequest, gin.H{
		"code":    "bad_request",
		"message": message,
	})
}

// respondError 按业务错误类别映射 HTTP 状态
func respondError(ctx *gin.Context, err error) {
	be, ok := service.AsBizError(err)
	if !ok {
		ctx.JSON(http.StatusInternalServerError, gin.H{
			"code":    service.CodeInternal,
			"message": "服务器内部错误，请稍后重试",
		})
		return
	}

	body := gin.H{
		"code":    be.Code,
		"message": be.Message,
	}
	if be.Field != "" {
		body["field"] = be.Field
	}
	if be.Code == service.CodeAlreadyManages {
		body["data"] = gin.H{"redirect": "/api/manage"}
	}
	ctx.JSON(statusOf(be), body)
}

func statusOf(be *service.BizError) int {
	switch be.Kind {
	case service.KindValidation, service.KindUnsupportedFormat, service.KindDecode:
		return http.StatusBadRequest
	case service.KindDuplicate:
		return http.StatusConflict
	case service.KindNotFound:
		return http.StatusNotFound
	case service.KindForbidden:
		if be.Code == service.CodeBlocked {
			return http.StatusForbidden
		}
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// ==================== 参数解析 ====================

func parseIDParam(ctx *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(ctx.Param(name), 10, 64)
	if err != nil || id <= 0 {
		respondBadRequest(ctx, "无效的 "+name)
		return 0, false
	}
	return id, true
}

// formUpload 读取表单文件，未上传时返回 nil 由服务层给出具体提示
func formUpload(ctx *gin.Context, field string) (*service.Upload, func(), error) {
	fh, err := ctx.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			return nil, func() {}, nil
		}
		return nil, func() {}, err
	}
	f, err := fh.Open()
	if err != nil {
		return nil, func() {}, err
	}
	return newUpload(fh, f), func() { _ = f.Close() }, nil
}

func newUpload(fh *multipart.FileHeader, f multipart.File) *service.Upload {
	return &service.Upload{Filename: fh.Filename, Reader: f}
}

func deleteResponse(report *repository.CascadeReport) dto.DeleteResponse {
	return dto.DeleteResponse{Rows: report.Rows, Total: report.Total()}
}
