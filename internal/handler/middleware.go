package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"autopilot/internal/identity"
	"autopilot/internal/models"
)

const credentialKey = "credential"

func CORSMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET,POST,PUT,DELETE,OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type,Authorization,X-API-Key")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	}
}

// AuthMiddleware resolves the X-API-Key header into a credential and applies
// the credential's hourly allowance. The resolved credential is stored on the
// request context for handlers.
func AuthMiddleware(registry *identity.Registry) gin.HandlerFunc {
	return func(c *gin.Context) {
		cred, err := registry.Authenticate(c.Request.Context(), c.GetHeader("X-API-Key"))
		if err != nil {
			Fail(c, err)
			c.Abort()
			return
		}
		if err := registry.AllowRequest(cred); err != nil {
			Fail(c, err)
			c.Abort()
			return
		}
		c.Set(credentialKey, cred)
		c.Next()
	}
}

// credentialFrom returns the authenticated credential set by AuthMiddleware.
func credentialFrom(c *gin.Context) *models.Credential {
	v, ok := c.Get(credentialKey)
	if !ok {
		return nil
	}
	cred, _ := v.(*models.Credential)
	return cred
}
