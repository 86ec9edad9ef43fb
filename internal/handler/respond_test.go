package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/leboweric/eos-platform-sub008/internal/svcerr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func respondWith(t *testing.T, err error) (int, map[string]interface{}) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	respondError(c, err)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return w.Code, body
}

func TestRespondErrorConflictIs400WithMessage(t *testing.T) {
	code, body := respondWith(t, svcerr.Conflict("同一位置下已存在同名文件夹"))

	// 冲突与校验失败同为 400，靠具体的业务文案区分
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, false, body["success"])
	assert.Contains(t, body["error"], "同一位置下已存在同名文件夹")
}

func TestRespondErrorValidationCarriesField(t *testing.T) {
	code, body := respondWith(t, svcerr.Validation("departmentId", "department 可见性必须指定团队"))

	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "departmentId", body["field"])
	assert.Equal(t, "department 可见性必须指定团队", body["error"])
}

func TestRespondErrorStatusMapping(t *testing.T) {
	cases := []struct {
		err  error
		code int
	}{
		{svcerr.NotFound("文档"), http.StatusNotFound},
		{svcerr.Forbidden("没有该组织的访问权限"), http.StatusForbidden},
		{svcerr.ErrUnauthorized, http.StatusUnauthorized},
		{svcerr.ErrCooldown, http.StatusTooManyRequests},
	}
	for _, tc := range cases {
		code, body := respondWith(t, tc.err)
		assert.Equal(t, tc.code, code)
		assert.Equal(t, false, body["success"])
	}
}
