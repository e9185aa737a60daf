package util

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

// ParseInt parses a string to an integer, returning defaultValue if parsing fails
func ParseInt(s string, defaultValue int) int {
	if val, err := strconv.Atoi(s); err == nil {
		return val
	}
	return defaultValue
}

// ParsePagination reads limit/offset query parameters. Unparseable values fall back
// to zero and are normalized by the repository.
func ParsePagination(c *gin.Context) (limit, offset int) {
	return ParseInt(c.Query("limit"), 0), ParseInt(c.Query("offset"), 0)
}
