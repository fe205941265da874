package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/draftwell/grantdocs/internal/apierr"
)

type APIError struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
	Phase   string `json:"phase,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

// RespondError maps service errors to the wire envelope. Anything that is
// not an apierr.Error comes out as a 500 internal.
func RespondError(c *gin.Context, err error) {
	ae := apierr.From(err)
	c.JSON(ae.Status, ErrorEnvelope{
		Error: APIError{
			Message: ae.Error(),
			Code:    ae.Code,
			Phase:   ae.Phase,
		},
	})
}

func RespondOK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}
