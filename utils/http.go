package utils

import (
	"github.com/blaaiz/blaaiz-go/types"
	"github.com/gin-gonic/gin"
)

// APIResponse writes the standard response envelope
func APIResponse(ctx *gin.Context, code int, status string, message string, data interface{}) {
	ctx.JSON(code, types.Response{
		Status:  status,
		Message: message,
		Data:    data,
	})
}
