package response

import (
	"mime"
	"net/http"

	"github.com/gin-gonic/gin"

	appErrors "github.com/noah-isme/course-registration-api/pkg/errors"
)

const jsonContentType = "application/json; charset=utf-8"

// Message is the body of acknowledgements that carry no resource.
type Message struct {
	Message string `json:"message"`
}

// Responses are per-user and must never be cached by intermediaries.
func noStore(c *gin.Context) {
	c.Header("Cache-Control", "no-store")
	c.Header("Pragma", "no-cache")
}

// JSON writes data as the top-level body.
func JSON(c *gin.Context, status int, data interface{}) {
	noStore(c)
	c.JSON(status, data)
}

// Created responds with HTTP 201 Created.
func Created(c *gin.Context, data interface{}) {
	JSON(c, http.StatusCreated, data)
}

// OK acknowledges with a message.
func OK(c *gin.Context, message string) {
	JSON(c, http.StatusOK, Message{Message: message})
}

// Raw relays an already encoded document. An empty content type means JSON.
func Raw(c *gin.Context, status int, contentType string, body []byte) {
	if contentType == "" {
		contentType = jsonContentType
	}
	noStore(c)
	c.Data(status, contentType, body)
}

// Attachment sends body as a download named filename. Non-ASCII names are
// encoded per RFC 2231 so browsers keep them.
func Attachment(c *gin.Context, filename, contentType string, body []byte) {
	disposition := mime.FormatMediaType("attachment", map[string]string{"filename": filename})
	if disposition == "" {
		disposition = "attachment"
	}
	c.Header("Content-Disposition", disposition)
	Raw(c, http.StatusOK, contentType, body)
}

// Error renders err as {code, message, status, detail}. Causes of untyped
// errors are never written to the client.
func Error(c *gin.Context, err error) {
	appErr := appErrors.FromError(err)
	noStore(c)
	c.JSON(appErr.Status, appErr)
}

// NoContent sends a 204 response.
func NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}
