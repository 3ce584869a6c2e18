package circulation

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"libris-backend/internal/platform/apierr"
)

type Handler struct{ svc *Service }

func RegisterRoutes(r gin.IRoutes, svc *Service) {
	h := &Handler{svc: svc}

	// 予約
	r.POST("/reservations", h.Reserve)
	r.GET("/reservations", h.ListReserved)
	r.PUT("/reservations/:reservation_id/status", h.UpdateReservationStatus)

	// 貸出・返却
	r.POST("/borrows", h.Borrow)
	r.GET("/borrows", h.ListBorrowed)
	r.GET("/borrows/returned-pending", h.ListReturnedPending)
	r.POST("/borrows/:borrow_id/return", h.Return)
	r.POST("/borrows/:borrow_id/confirm", h.ConfirmReturn)

	// 一括リマインダー（cron等の外部トリガー想定）
	r.POST("/sweeps/overdue-notices", h.SendOverdueNotices)
	r.POST("/sweeps/reservation-expiry-reminders", h.SendReservationExpiryReminders)
	r.POST("/sweeps/due-date-reminders", h.SendDueDateReminders)
}

func (h *Handler) Reserve(c *gin.Context) {
	var req ReserveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, apierr.Body(apierr.CodeInvalidArgument, "invalid json or missing required fields"))
		return
	}
	res, err := h.svc.ReserveBook(c.Request.Context(), req)
	if err != nil {
		c.JSON(apierr.ToHTTPStatus(err), apierr.FromErr(err))
		return
	}
	c.Header("Location", "/reservations/"+strconv.FormatInt(res.ReservationID, 10))
	c.JSON(http.StatusCreated, res)
}

func (h *Handler) UpdateReservationStatus(c *gin.Context) {
	var req UpdateReservationStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, apierr.Body(apierr.CodeInvalidArgument, "invalid json or missing required fields"))
		return
	}
	if id, err := strconv.ParseInt(c.Param("reservation_id"), 10, 64); err == nil && id > 0 {
		req.ReservationID = id
	}
	if err := h.svc.UpdateReservationStatus(c.Request.Context(), req); err != nil {
		c.JSON(apierr.ToHTTPStatus(err), apierr.FromErr(err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "reservation status updated"})
}

func (h *Handler) Borrow(c *gin.Context) {
	var req BorrowRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, apierr.Body(apierr.CodeInvalidArgument, "invalid json or missing required fields"))
		return
	}
	res, err := h.svc.BorrowBook(c.Request.Context(), req)
	if err != nil {
		c.JSON(apierr.ToHTTPStatus(err), apierr.FromErr(err))
		return
	}
	c.Header("Location", "/borrows/"+strconv.FormatInt(res.BorrowID, 10))
	c.JSON(http.StatusCreated, res)
}

func (h *Handler) Return(c *gin.Context) {
	var req ReturnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, apierr.Body(apierr.CodeInvalidArgument, "invalid json or missing required fields"))
		return
	}
	if id, err := strconv.ParseInt(c.Param("borrow_id"), 10, 64); err == nil && id > 0 {
		req.BorrowID = id
	}
	res, err := h.svc.ReturnBook(c.Request.Context(), req)
	if err != nil {
		c.JSON(apierr.ToHTTPStatus(err), apierr.FromErr(err))
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *Handler) ConfirmReturn(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("borrow_id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, apierr.Body(apierr.CodeInvalidArgument, "invalid borrow_id"))
		return
	}
	if err := h.svc.ConfirmReturn(c.Request.Context(), ConfirmReturnRequest{BorrowID: id}); err != nil {
		c.JSON(apierr.ToHTTPStatus(err), apierr.FromErr(err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "return confirmed and book is now available for borrowing"})
}

func (h *Handler) ListReserved(c *gin.Context) {
	userID := optionalUserID(c)
	items, err := h.svc.ListReserved(c.Request.Context(), userID)
	if err != nil {
		c.JSON(apierr.ToHTTPStatus(err), apierr.FromErr(err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"reserved_books": items})
}

func (h *Handler) ListBorrowed(c *gin.Context) {
	userID := optionalUserID(c)
	items, err := h.svc.ListBorrowed(c.Request.Context(), userID)
	if err != nil {
		c.JSON(apierr.ToHTTPStatus(err), apierr.FromErr(err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"borrowed_books": items})
}

func (h *Handler) ListReturnedPending(c *gin.Context) {
	items, err := h.svc.ListReturnedPending(c.Request.Context())
	if err != nil {
		c.JSON(apierr.ToHTTPStatus(err), apierr.FromErr(err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"returned_books": items})
}

func (h *Handler) SendOverdueNotices(c *gin.Context) {
	n, err := h.svc.SendOverdueNotices(c.Request.Context())
	if err != nil {
		c.JSON(apierr.ToHTTPStatus(err), apierr.FromErr(err))
		return
	}
	c.JSON(http.StatusOK, SweepResponse{NoticesSent: n})
}

func (h *Handler) SendReservationExpiryReminders(c *gin.Context) {
	n, err := h.svc.SendReservationExpiryReminders(c.Request.Context())
	if err != nil {
		c.JSON(apierr.ToHTTPStatus(err), apierr.FromErr(err))
		return
	}
	c.JSON(http.StatusOK, SweepResponse{NoticesSent: n})
}

func (h *Handler) SendDueDateReminders(c *gin.Context) {
	n, err := h.svc.SendDueDateReminders(c.Request.Context())
	if err != nil {
		c.JSON(apierr.ToHTTPStatus(err), apierr.FromErr(err))
		return
	}
	c.JSON(http.StatusOK, SweepResponse{NoticesSent: n})
}

func optionalUserID(c *gin.Context) *int64 {
	if v := c.Query("user_id"); v != "" {
		if id, err := strconv.ParseInt(v, 10, 64); err == nil && id > 0 {
			return &id
		}
	}
	return nil
}
