package middleware

import (
	"bookshelf/permissions"

	"github.com/gin-gonic/gin"
)

// Gate runs the rules against the request's caller. Place it after
// AuthRequired or OptionalAuth.
func Gate(rules ...permissions.Rule) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := permissions.Check(CallerFrom(c), rules...); err != nil {
			abortWith(c, err)
			return
		}
		c.Next()
	}
}

func PermissionRequired(codename string) gin.HandlerFunc {
	return Gate(permissions.HasPermission(codename))
}

func RoleRequired(roles ...string) gin.HandlerFunc {
	return Gate(permissions.HasRole(roles...))
}
