// Package response writes the JSON envelopes of the RealWorld API.
package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ErrorBody is the error envelope. Keys of Errors are field names, or "body"
// for errors that are not tied to a field.
type ErrorBody struct {
	Errors    map[string][]string `json:"errors"`
	RequestID string              `json:"request_id,omitempty"`
}

// JSON writes {key: payload}.
func JSON(ctx *gin.Context, status int, key string, payload any) {
	if status == 0 {
		status = http.StatusOK
	}
	ctx.JSON(status, gin.H{key: payload})
}

// Raw writes payload as is, for bodies with more than one top-level key.
func Raw(ctx *gin.Context, status int, payload any) {
	ctx.JSON(status, payload)
}

func Error(ctx *gin.Context, status int, messages ...string) {
	Fields(ctx, status, map[string][]string{"body": messages})
}

func Fields(ctx *gin.Context, status int, fields map[string][]string) {
	if status == 0 {
		status = http.StatusUnprocessableEntity
	}
	ctx.AbortWithStatusJSON(status, ErrorBody{
		Errors:    fields,
		RequestID: ctx.GetString("request_id"),
	})
}
