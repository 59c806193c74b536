package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// GenericErrorMessage is the only detail clients ever see for an
// unexpected fault; specifics stay in the server logs.
const GenericErrorMessage = "Something went wrong"

// ErrorBody is the standard error payload.
type ErrorBody struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// Error sends an error response with the given status and message.
func Error(c *gin.Context, status int, message string) {
	c.JSON(status, ErrorBody{Error: message})
}

// ErrorWithDetails sends an error response with field-level detail.
func ErrorWithDetails(c *gin.Context, status int, message, details string) {
	c.JSON(status, ErrorBody{Error: message, Details: details})
}

// BadRequest sends a 400 error
func BadRequest(c *gin.Context, message string) {
	Error(c, http.StatusBadRequest, message)
}

// NotFound sends a 404 error
func NotFound(c *gin.Context, message string) {
	Error(c, http.StatusNotFound, message)
}

// Conflict sends a 409 error
func Conflict(c *gin.Context, message string) {
	Error(c, http.StatusConflict, message)
}

// InternalError sends a 500 error with the generic message only.
func InternalError(c *gin.Context) {
	Error(c, http.StatusInternalServerError, GenericErrorMessage)
}

// MethodNotAllowed sends a 405 error
func MethodNotAllowed(c *gin.Context) {
	Error(c, http.StatusMethodNotAllowed, "Method not allowed")
}
