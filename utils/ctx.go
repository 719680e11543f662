package utils

import "github.com/gin-gonic/gin"

// CurrentUserID reads the id the auth middleware stored from the token
// claims. Zero means unauthenticated.
func CurrentUserID(c *gin.Context) uint {
	return c.GetUint("userId")
}

func CurrentRole(c *gin.Context) string {
	return c.GetString("role")
}
