package response

import (
	"log"
	"net/http"

	"booknest.app/bookreviewapi/pkg/apperror"
	"github.com/gin-gonic/gin"
)

// Envelope is the uniform body every endpoint returns, success or failure.
// Result is always present, null when there is nothing to return.
type Envelope struct {
	Result     any    `json:"result"`
	StatusCode int    `json:"statusCode"`
	Message    string `json:"message"`
	Success    bool   `json:"success"`
}

func send(c *gin.Context, code int, result any, message string) {
	c.JSON(code, Envelope{
		Result:     result,
		StatusCode: code,
		Message:    message,
		Success:    code < 400,
	})
}

func Success(c *gin.Context, result any, message string) {
	send(c, http.StatusOK, result, message)
}

func Created(c *gin.Context, result any, message string) {
	send(c, http.StatusCreated, result, message)
}

// Error renders any error through the single status-mapping table.
// Internal errors are logged with the request id; clients only ever see the
// envelope message.
func Error(c *gin.Context, err error) {
	code := apperror.MapErrorToStatus(err)

	if code == http.StatusInternalServerError {
		log.Printf("[internal error] request_id=%s: %v", c.GetString("request_id"), err)
	}

	send(c, code, nil, err.Error())
}
