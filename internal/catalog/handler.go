package catalog

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"libris-backend/internal/platform/apierr"
)

type Handler struct{ svc *Service }

func RegisterRoutes(r gin.IRoutes, svc *Service) {
	h := &Handler{svc: svc}

	r.POST("/books", h.AddBook)
	r.GET("/books", h.ListBooks)
	r.PUT("/books/:book_id", h.UpdateBook)

	r.GET("/genres", h.ListGenres)
	r.POST("/genres", h.AddGenre)

	r.GET("/authors", h.ListAuthors)
	r.POST("/authors", h.AddAuthor)

	r.GET("/reservation-statuses", h.ListStatuses)
}

func (h *Handler) AddBook(c *gin.Context) {
	var req AddBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, apierr.Body(apierr.CodeInvalidArgument, "invalid json or missing required fields"))
		return
	}
	res, err := h.svc.AddBook(c.Request.Context(), req)
	if err != nil {
		c.JSON(apierr.ToHTTPStatus(err), apierr.FromErr(err))
		return
	}
	c.Header("Location", "/books/"+strconv.FormatInt(res.BookID, 10))
	c.JSON(http.StatusCreated, res)
}

func (h *Handler) UpdateBook(c *gin.Context) {
	var req UpdateBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, apierr.Body(apierr.CodeInvalidArgument, "invalid json or missing required fields"))
		return
	}
	// パスとボディのIDが食い違う場合はパス優先
	if id, err := strconv.ParseInt(c.Param("book_id"), 10, 64); err == nil && id > 0 {
		req.BookID = id
	}
	res, err := h.svc.UpdateBook(c.Request.Context(), req)
	if err != nil {
		c.JSON(apierr.ToHTTPStatus(err), apierr.FromErr(err))
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *Handler) ListBooks(c *gin.Context) {
	items, err := h.svc.ListBooks(c.Request.Context())
	if err != nil {
		c.JSON(apierr.ToHTTPStatus(err), apierr.FromErr(err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"books": items})
}

func (h *Handler) ListGenres(c *gin.Context) {
	items, err := h.svc.ListGenres(c.Request.Context())
	if err != nil {
		c.JSON(apierr.ToHTTPStatus(err), apierr.FromErr(err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"genres": items})
}

func (h *Handler) AddGenre(c *gin.Context) {
	var req AddGenreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, apierr.Body(apierr.CodeInvalidArgument, "invalid json"))
		return
	}
	id, err := h.svc.AddGenre(c.Request.Context(), req.GenreName)
	if err != nil {
		c.JSON(apierr.ToHTTPStatus(err), apierr.FromErr(err))
		return
	}
	c.JSON(http.StatusCreated, gin.H{"genre_id": id})
}

func (h *Handler) ListAuthors(c *gin.Context) {
	items, err := h.svc.ListAuthors(c.Request.Context())
	if err != nil {
		c.JSON(apierr.ToHTTPStatus(err), apierr.FromErr(err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"authors": items})
}

func (h *Handler) AddAuthor(c *gin.Context) {
	var req AddAuthorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, apierr.Body(apierr.CodeInvalidArgument, "invalid json"))
		return
	}
	id, err := h.svc.AddAuthor(c.Request.Context(), req.AuthorName)
	if err != nil {
		c.JSON(apierr.ToHTTPStatus(err), apierr.FromErr(err))
		return
	}
	c.JSON(http.StatusCreated, gin.H{"author_id": id})
}

func (h *Handler) ListStatuses(c *gin.Context) {
	items, err := h.svc.ListStatuses(c.Request.Context())
	if err != nil {
		c.JSON(apierr.ToHTTPStatus(err), apierr.FromErr(err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"statuses": items})
}
