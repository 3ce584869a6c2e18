package audit

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"libris-backend/internal/platform/apierr"
)

type Handler struct{ logger *Logger }

func RegisterRoutes(r gin.IRoutes, logger *Logger) {
	h := &Handler{logger: logger}
	r.GET("/users/:user_id/logs", h.List)
}

func (h *Handler) List(c *gin.Context) {
	userID, err := strconv.ParseInt(c.Param("user_id"), 10, 64)
	if err != nil || userID <= 0 {
		c.JSON(http.StatusBadRequest, apierr.Body(apierr.CodeInvalidArgument, "invalid user_id"))
		return
	}
	entries, err := h.logger.ListByUser(c.Request.Context(), userID)
	if err != nil {
		c.JSON(apierr.ToHTTPStatus(err), apierr.FromErr(err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"logs": entries})
}
