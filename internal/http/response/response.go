package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/voltera/site-backend/internal/platform/apierr"
)

type APIError struct {
	Message string            `json:"message"`
	Code    string            `json:"code,omitempty"`
	Fields  map[string]string `json:"fields,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

func RespondError(c *gin.Context, status int, code string, err error) {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	c.JSON(status, ErrorEnvelope{
		Error: APIError{
			Message: msg,
			Code:    code,
		},
	})
}

// RespondAPIError renders an *apierr.Error (or anything wrapping one). Other
// errors become a 500 with fallbackCode and a generic message.
func RespondAPIError(c *gin.Context, err error, fallbackCode string) {
	ae := apierr.As(err, fallbackCode)
	msg := ae.Error()
	if ae.Status >= http.StatusInternalServerError && ae.Code == fallbackCode {
		_ = c.Error(err)
		msg = "internal server error"
	}
	c.JSON(ae.Status, ErrorEnvelope{
		Error: APIError{
			Message: msg,
			Code:    ae.Code,
			Fields:  ae.Fields,
		},
	})
}

func RespondOK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}

func RespondCreated(c *gin.Context, payload any) {
	c.JSON(http.StatusCreated, payload)
}
