package handlers

import (
	"github.com/gin-gonic/gin"

	"echobox/internal/models"
)

// getIdentity reads the Identity the auth middleware placed into the context.
func getIdentity(c *gin.Context) (models.Identity, bool) {
	v, ok := c.Get("identity")
	if !ok {
		return models.Identity{}, false
	}
	id, ok := v.(models.Identity)
	return id, ok
}
