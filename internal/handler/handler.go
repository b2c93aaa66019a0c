package handler

import (
	"Nova_Social/internal/middleware"
	"Nova_Social/internal/pkg"

	"github.com/gin-gonic/gin"
)

// fail 错误统一按 {"error": ...} 返回，状态码按错误分类映射
func fail(c *gin.Context, err error) {
	c.JSON(pkg.HTTPStatus(err), gin.H{"error": err.Error()})
}

func userIDFromCtx(c *gin.Context) uint64 {
	if v, ok := c.Get(middleware.ContextUserIDKey); ok {
		if id, ok2 := v.(uint64); ok2 {
			return id
		}
	}
	return 0
}
