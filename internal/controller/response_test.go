package controller

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"restaurant_hub_202601/internal/service"
)

func TestStatusOf(t *testing.T) {
	tests := []struct {
		kind   service.ErrorKind
		code   string
		status int
	}{
		{service.KindValidation, service.CodeBadPrice, http.StatusBadRequest},
		{service.KindUnsupportedFormat, service.CodeBadFormat, http.StatusBadRequest},
		{service.KindDecode, service.CodeBadImage, http.StatusBadRequest},
		{service.KindDuplicate, service.CodeNameTaken, http.StatusConflict},
		{service.KindNotFound, service.CodeNotFound, http.StatusNotFound},
		{service.KindForbidden, service.CodeAlreadyManages, http.StatusConflict},
		{service.KindForbidden, service.CodeBlocked, http.StatusForbidden},
		{service.KindStorage, service.CodeInternal, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(string(tt.kind)+"/"+tt.code, func(t *testing.T) {
			assert.Equal(t, tt.status, statusOf(&service.BizError{Kind: tt.kind, Code: tt.code}))
		})
	}
}

func TestRespondError_HidesInternalDetail(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	ctx, _ := gin.CreateTestContext(w)

	respondError(ctx, errors.New("pq: connection refused"))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, service.CodeInternal, body["code"])
	assert.NotContains(t, w.Body.String(), "connection refused")
}

func TestParseIDParam(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/x/:id", func(c *gin.Context) {
		if id, ok := parseIDParam(c, "id"); ok {
			c.JSON(http.StatusOK, gin.H{"id": id})
		}
	})

	for path, want := range map[string]int{"/x/12": http.StatusOK, "/x/abc": http.StatusBadRequest, "/x/-1": http.StatusBadRequest} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, want, w.Code, path)
	}
}
