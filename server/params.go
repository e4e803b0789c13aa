package server

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/orderdesk/sales-admin-api/internal/shared/pagination"
)

func parseIDParam(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil {
		respondBadRequest(c, errors.New(name+" must be a numeric id"))
		return 0, false
	}
	return id, true
}

// parsePage reads page/pageSize query parameters. Non-numeric and
// out-of-range values clamp to the defaults instead of erroring.
func parsePage(c *gin.Context) pagination.Request {
	page, _ := strconv.Atoi(c.Query("page"))
	pageSize, _ := strconv.Atoi(c.Query("pageSize"))
	return pagination.Clamp(page, pageSize)
}

func queryInt64(c *gin.Context, name string) int64 {
	value, _ := strconv.ParseInt(c.Query(name), 10, 64)
	return value
}
