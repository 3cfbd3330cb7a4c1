package middleware

import "github.com/gin-gonic/gin"

// userIDKey is the key used to store the authenticated user's ID in the Gin context.
// Using a custom type prevents collisions.
const userIDKey = contextKey("userID")

// companyIDKey stores the tenant the authenticated request is scoped to.
const companyIDKey = contextKey("companyID")

// GetUserIDFromContext retrieves the authenticated user ID from the Gin context.
// It returns the user ID and a boolean indicating if it was found.
func GetUserIDFromContext(c *gin.Context) (string, bool) {
	userIDVal, exists := c.Get(string(userIDKey))
	if !exists {
		// check in the request context as well
		userIDVal := c.Request.Context().Value(userIDKey)
		if userIDVal != nil {
			return userIDVal.(string), true
		}
		return "", false
	}

	userID, ok := userIDVal.(string)
	if !ok {
		// This should not happen if the auth middleware sets it correctly
		return "", false
	}

	return userID, true
}

// GetCompanyIDFromContext retrieves the tenant company ID from the Gin context.
func GetCompanyIDFromContext(c *gin.Context) (string, bool) {
	companyIDVal, exists := c.Get(string(companyIDKey))
	if !exists {
		companyIDVal := c.Request.Context().Value(companyIDKey)
		if companyIDVal != nil {
			return companyIDVal.(string), true
		}
		return "", false
	}

	companyID, ok := companyIDVal.(string)
	if !ok {
		return "", false
	}

	return companyID, true
}
