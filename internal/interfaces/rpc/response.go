package rpc

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// reply wraps every RPC result in the envelope the clients expect: the
// handler's return value sits under "message".
func reply(c *gin.Context, result any) {
	c.JSON(http.StatusOK, gin.H{"message": result})
}

// replySuccess wraps a write result: success flag, localized message and
// any extra fields merged in.
func replySuccess(c *gin.Context, message string, extra gin.H) {
	payload := gin.H{"success": true, "message": message}
	for k, v := range extra {
		payload[k] = v
	}
	reply(c, payload)
}

// replyFailure reports a handled business failure with HTTP 200; clients
// read the success flag from the payload, not the status code. Extra
// fields (e.g. shortfall rows) are merged into the payload.
func replyFailure(c *gin.Context, message string, extra gin.H) {
	payload := gin.H{"success": false, "message": message}
	for k, v := range extra {
		payload[k] = v
	}
	reply(c, payload)
}
