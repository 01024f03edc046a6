package httperr

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Seconds a client should wait before retrying after a 503.
const retryAfterSeconds = "1"

type Response struct {
	Status int `json:"-"`
	Error  struct {
		Code    string `json:"code,omitempty"`
		Message string `json:"message"`
	} `json:"error"`
	Detail any `json:"detail,omitempty"`
}

// preserves original error for future monitoring
func AbortWithError(c *gin.Context, status int, err error, msg string, detail any) {
	abort(c, status, err, "", msg, detail)
}

// AbortWithEngineError renders a booking engine failure with its status and code.
func AbortWithEngineError(c *gin.Context, err error) {
	out := Classify(err)
	if out.Status == http.StatusServiceUnavailable {
		c.Header("Retry-After", retryAfterSeconds)
	}
	abort(c, out.Status, err, out.Code, out.Message, nil)
}

// NewResponse builds the body ErrorHandler writes for unrendered errors.
func NewResponse(out Outcome) Response {
	resp := Response{Status: out.Status}
	resp.Error.Code = out.Code
	resp.Error.Message = out.Message
	return resp
}

func abort(c *gin.Context, status int, err error, code, msg string, detail any) {
	if err == nil {
		panic("httperr: err cannot be nil")
	}

	resp := Response{Status: status}
	resp.Error.Code = code
	resp.Error.Message = msg
	resp.Detail = detail

	_ = c.Error(gin.Error{
		Err:  err,
		Type: gin.ErrorTypePublic,
		Meta: resp,
	})
	c.AbortWithStatusJSON(status, resp)
}
