package refunds

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"tourly/internal/policies"
	"tourly/internal/shared/utils/response"
)

type Controller struct {
	service Service
}

func NewController(service Service) *Controller {
	return &Controller{service: service}
}

// currentUserID pulls the authenticated user out of the JWT context set by
// the auth middleware.
func currentUserID(ctx *gin.Context) (uuid.UUID, bool) {
	userIDInterface, exists := ctx.Get("user_id")
	if !exists {
		return uuid.Nil, false
	}
	userIDStr, ok := userIDInterface.(string)
	if !ok {
		return uuid.Nil, false
	}
	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		return uuid.Nil, false
	}
	return userID, true
}

func isAdmin(ctx *gin.Context) bool {
	role, exists := ctx.Get("user_role")
	if !exists {
		return false
	}
	roleStr, ok := role.(string)
	return ok && roleStr == "ADMIN"
}

// SubmitRequest handles POST /api/v1/refund-requests
func (c *Controller) SubmitRequest(ctx *gin.Context) {
	customerID, ok := currentUserID(ctx)
	if !ok {
		response.RespondJSON(ctx, "error", http.StatusUnauthorized, "User not authenticated", nil, nil)
		return
	}

	var req SubmitRefundRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusUnprocessableEntity, "Invalid request body", nil, response.FieldErrors(err))
		return
	}

	request, err := c.service.CreateRequest(ctx.Request.Context(), customerID, req, time.Now().UTC())
	if err != nil {
		respondRefundError(ctx, err)
		return
	}
	response.RespondJSON(ctx, "success", http.StatusCreated, "Refund request submitted", toRefundRequestResponse(request), nil)
}

// GetRequest handles GET /api/v1/refund-requests/:id
func (c *Controller) GetRequest(ctx *gin.Context) {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid refund request ID", nil, nil)
		return
	}

	request, err := c.service.GetRequest(ctx.Request.Context(), id)
	if err != nil {
		respondRefundError(ctx, err)
		return
	}

	// Customers only see their own requests.
	if !isAdmin(ctx) {
		customerID, ok := currentUserID(ctx)
		if !ok || request.CustomerID != customerID {
			response.RespondJSON(ctx, "error", http.StatusNotFound, "Refund request not found", nil, nil)
			return
		}
	}
	response.RespondJSON(ctx, "success", http.StatusOK, "Refund request retrieved", toRefundRequestResponse(request), nil)
}

// PreviewRefund handles GET /api/v1/refund-requests/preview
func (c *Controller) PreviewRefund(ctx *gin.Context) {
	bookingID, err := uuid.Parse(ctx.Query("booking_id"))
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid booking ID", nil, nil)
		return
	}
	refundType := policies.RefundType(ctx.DefaultQuery("refund_type", string(policies.RefundTypeUserCancellation)))
	if !refundType.IsValid() {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid refund type", nil, nil)
		return
	}

	preview, err := c.service.PreviewRefund(ctx.Request.Context(), bookingID, refundType, time.Now().UTC())
	if err != nil {
		respondRefundError(ctx, err)
		return
	}
	response.RespondJSON(ctx, "success", http.StatusOK, "Refund preview calculated", toRefundPreviewResponse(preview), nil)
}

// CancelRequest handles POST /api/v1/refund-requests/:id/cancel
func (c *Controller) CancelRequest(ctx *gin.Context) {
	customerID, ok := currentUserID(ctx)
	if !ok {
		response.RespondJSON(ctx, "error", http.StatusUnauthorized, "User not authenticated", nil, nil)
		return
	}
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid refund request ID", nil, nil)
		return
	}

	request, err := c.service.CancelRequest(ctx.Request.Context(), id, customerID, time.Now().UTC())
	if err != nil {
		respondRefundError(ctx, err)
		return
	}
	response.RespondJSON(ctx, "success", http.StatusOK, "Refund request cancelled", toRefundRequestResponse(request), nil)
}

// ListRequests handles GET /api/v1/admin/refund-requests
func (c *Controller) ListRequests(ctx *gin.Context) {
	query := RequestListQuery{}

	if statusStr := ctx.Query("status"); statusStr != "" {
		status := Status(statusStr)
		if !status.IsValid() {
			response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid status filter", nil, nil)
			return
		}
		query.Status = status
	}
	if customerStr := ctx.Query("customer_id"); customerStr != "" {
		customerID, err := uuid.Parse(customerStr)
		if err != nil {
			response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid customer ID filter", nil, nil)
			return
		}
		query.CustomerID = customerID
	}
	if adminStr := ctx.Query("admin_id"); adminStr != "" {
		adminID, err := uuid.Parse(adminStr)
		if err != nil {
			response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid admin ID filter", nil, nil)
			return
		}
		query.AdminID = adminID
	}
	if fromStr := ctx.Query("from"); fromStr != "" {
		from, err := time.Parse(time.RFC3339, fromStr)
		if err != nil {
			response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid from date, expected RFC3339", nil, nil)
			return
		}
		query.From = &from
	}
	if toStr := ctx.Query("to"); toStr != "" {
		to, err := time.Parse(time.RFC3339, toStr)
		if err != nil {
			response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid to date, expected RFC3339", nil, nil)
			return
		}
		query.To = &to
	}
	query.Page, _ = strconv.Atoi(ctx.DefaultQuery("page", "1"))
	query.Limit, _ = strconv.Atoi(ctx.DefaultQuery("limit", "20"))

	requests, total, err := c.service.ListRequests(ctx.Request.Context(), query)
	if err != nil {
		respondRefundError(ctx, err)
		return
	}
	response.RespondJSON(ctx, "success", http.StatusOK, "Refund requests retrieved",
		toRefundRequestListResponse(requests, total, query.Page, query.Limit), nil)
}

// ApproveRequest handles POST /api/v1/admin/refund-requests/:id/approve
func (c *Controller) ApproveRequest(ctx *gin.Context) {
	c.processRequest(ctx, c.service.ApproveRequest, "Refund request approved")
}

// RejectRequest handles POST /api/v1/admin/refund-requests/:id/reject
func (c *Controller) RejectRequest(ctx *gin.Context) {
	c.processRequest(ctx, c.service.RejectRequest, "Refund request rejected")
}

func (c *Controller) processRequest(ctx *gin.Context,
	process func(context.Context, uuid.UUID, uuid.UUID, ProcessRefundRequest, time.Time) (*RefundRequest, error),
	message string) {

	adminID, ok := currentUserID(ctx)
	if !ok {
		response.RespondJSON(ctx, "error", http.StatusUnauthorized, "User not authenticated", nil, nil)
		return
	}
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid refund request ID", nil, nil)
		return
	}

	var req ProcessRefundRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusUnprocessableEntity, "Invalid request body", nil, response.FieldErrors(err))
		return
	}

	request, err := process(ctx.Request.Context(), id, adminID, req, time.Now().UTC())
	if err != nil {
		respondRefundError(ctx, err)
		return
	}
	response.RespondJSON(ctx, "success", http.StatusOK, message, toRefundRequestResponse(request), nil)
}

// CompleteRequest handles POST /api/v1/admin/refund-requests/:id/complete
func (c *Controller) CompleteRequest(ctx *gin.Context) {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid refund request ID", nil, nil)
		return
	}

	var req CompleteRefundRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusUnprocessableEntity, "Invalid request body", nil, response.FieldErrors(err))
		return
	}

	request, err := c.service.CompleteRequest(ctx.Request.Context(), id, req, time.Now().UTC())
	if err != nil {
		respondRefundError(ctx, err)
		return
	}
	response.RespondJSON(ctx, "success", http.StatusOK, "Refund request completed", toRefundRequestResponse(request), nil)
}

// respondRefundError maps service errors onto HTTP status codes.
func respondRefundError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrRequestNotFound):
		response.RespondJSON(ctx, "error", http.StatusNotFound, err.Error(), nil, nil)
	case errors.Is(err, ErrNotRequestOwner):
		response.RespondJSON(ctx, "error", http.StatusForbidden, err.Error(), nil, nil)
	case errors.Is(err, ErrRequestExists),
		errors.Is(err, ErrInvalidTransition),
		errors.Is(err, ErrStatusConflict):
		response.RespondJSON(ctx, "error", http.StatusConflict, err.Error(), nil, nil)
	case errors.Is(err, ErrNoApplicablePolicy),
		errors.Is(err, ErrBookingNotRefundable),
		errors.Is(err, ErrAmountExceedsRequested),
		errors.Is(err, ErrNegativeAmount),
		errors.Is(err, ErrAdminNotesRequired),
		errors.Is(err, ErrTransactionRefRequired):
		response.RespondJSON(ctx, "error", http.StatusUnprocessableEntity, err.Error(), nil, nil)
	default:
		response.RespondJSON(ctx, "error", http.StatusBadRequest, err.Error(), nil, nil)
	}
}
