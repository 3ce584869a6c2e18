package reports

import (
	"database/sql"
	"net/http"

	"github.com/gin-gonic/gin"

	"libris-backend/internal/platform/apierr"
)

type Handler struct{ store *Store }

func RegisterRoutes(r gin.IRoutes, conn *sql.DB) {
	h := &Handler{store: NewStore(conn)}

	r.GET("/reports/popular-books", h.PopularBooks)
	r.GET("/reports/overdue-books", h.OverdueBooks)
	r.GET("/reports/most-reserved-books", h.MostReservedBooks)
	r.GET("/reports/currently-borrowed-books", h.CurrentlyBorrowedBooks)
	r.GET("/reports/late-returners", h.LateReturners)
}

func (h *Handler) PopularBooks(c *gin.Context) {
	items, err := h.store.PopularBooks(c.Request.Context())
	if err != nil {
		c.JSON(apierr.ToHTTPStatus(err), apierr.FromErr(err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"popular_books": items})
}

func (h *Handler) OverdueBooks(c *gin.Context) {
	items, err := h.store.OverdueBooks(c.Request.Context())
	if err != nil {
		c.JSON(apierr.ToHTTPStatus(err), apierr.FromErr(err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"overdue_books": items})
}

func (h *Handler) MostReservedBooks(c *gin.Context) {
	items, err := h.store.MostReservedBooks(c.Request.Context())
	if err != nil {
		c.JSON(apierr.ToHTTPStatus(err), apierr.FromErr(err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"most_reserved_books": items})
}

func (h *Handler) CurrentlyBorrowedBooks(c *gin.Context) {
	items, err := h.store.CurrentlyBorrowedBooks(c.Request.Context())
	if err != nil {
		c.JSON(apierr.ToHTTPStatus(err), apierr.FromErr(err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"currently_borrowed_books": items})
}

func (h *Handler) LateReturners(c *gin.Context) {
	items, err := h.store.LateReturners(c.Request.Context())
	if err != nil {
		c.JSON(apierr.ToHTTPStatus(err), apierr.FromErr(err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"late_returners": items})
}
