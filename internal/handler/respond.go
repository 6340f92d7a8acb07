package handler

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"campfire/internal/middleware"
	"campfire/internal/pkg"
)

// abortError maps kinded errors to their HTTP status. Internal detail stays
// in the server log; the client gets a generic message.
func abortError(c *gin.Context, err error) {
	var ae *pkg.Error
	if errors.As(err, &ae) && ae.Kind != pkg.KindInternal {
		c.JSON(ae.Kind.HTTPStatus(), gin.H{"error": ae.Msg})
		return
	}
	log.Printf("%s %s: %v", c.Request.Method, c.Request.URL.Path, err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
}

// abortBindError reports the first violated field of a binding failure.
func abortBindError(c *gin.Context, err error) {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid field: " + verrs[0].Field()})
		return
	}
	c.JSON(http.StatusBadRequest, gin.H{"error": "invalid params"})
}

// currentUser pulls the authenticated user id injected by the auth
// middleware; its absence means the route was mounted without auth.
func currentUser(c *gin.Context) (uint64, bool) {
	v, exists := c.Get(middleware.ContextUserIDKey)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
		return 0, false
	}
	id, ok := v.(uint64)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
		return 0, false
	}
	return id, true
}
