package policies

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"tourly/internal/shared/utils/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type Controller struct {
	service Service
}

func NewController(service Service) *Controller {
	return &Controller{service: service}
}

// CreatePolicy handles POST /api/v1/admin/refund-policies
func (c *Controller) CreatePolicy(ctx *gin.Context) {
	var req PolicyRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request body", nil, response.FieldErrors(err))
		return
	}

	policy, err := c.service.CreatePolicy(ctx.Request.Context(), req)
	if err != nil {
		c.respondPolicyError(ctx, err)
		return
	}

	response.RespondJSON(ctx, "success", http.StatusCreated, "Refund policy created", toPolicyResponse(policy), nil)
}

// UpdatePolicy handles PUT /api/v1/admin/refund-policies/:id
func (c *Controller) UpdatePolicy(ctx *gin.Context) {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid policy ID", nil, nil)
		return
	}

	var req PolicyRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request body", nil, response.FieldErrors(err))
		return
	}

	policy, err := c.service.UpdatePolicy(ctx.Request.Context(), id, req)
	if err != nil {
		c.respondPolicyError(ctx, err)
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Refund policy updated", toPolicyResponse(policy), nil)
}

// DeactivatePolicy handles POST /api/v1/admin/refund-policies/:id/deactivate
func (c *Controller) DeactivatePolicy(ctx *gin.Context) {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid policy ID", nil, nil)
		return
	}

	if err := c.service.DeactivatePolicy(ctx.Request.Context(), id); err != nil {
		c.respondPolicyError(ctx, err)
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Refund policy deactivated", nil, nil)
}

// DeletePolicy handles DELETE /api/v1/admin/refund-policies/:id
func (c *Controller) DeletePolicy(ctx *gin.Context) {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid policy ID", nil, nil)
		return
	}

	if err := c.service.DeletePolicy(ctx.Request.Context(), id); err != nil {
		c.respondPolicyError(ctx, err)
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Refund policy deleted", nil, nil)
}

// GetPolicy handles GET /api/v1/admin/refund-policies/:id
func (c *Controller) GetPolicy(ctx *gin.Context) {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid policy ID", nil, nil)
		return
	}

	policy, err := c.service.GetPolicy(ctx.Request.Context(), id)
	if err != nil {
		c.respondPolicyError(ctx, err)
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Refund policy retrieved", toPolicyResponse(policy), nil)
}

// ListPolicies handles GET /api/v1/admin/refund-policies
func (c *Controller) ListPolicies(ctx *gin.Context) {
	query := PolicyListQuery{
		RefundType: ctx.Query("refund_type"),
	}

	if enabledStr := ctx.Query("enabled"); enabledStr != "" {
		enabled, err := strconv.ParseBool(enabledStr)
		if err != nil {
			response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid enabled filter", nil, nil)
			return
		}
		query.Enabled = &enabled
	}

	if asOfStr := ctx.Query("as_of"); asOfStr != "" {
		asOf, err := time.Parse(time.RFC3339, asOfStr)
		if err != nil {
			response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid as_of timestamp (expected RFC 3339)", nil, nil)
			return
		}
		query.AsOf = &asOf
	}

	query.Page, _ = strconv.Atoi(ctx.DefaultQuery("page", "1"))
	query.Limit, _ = strconv.Atoi(ctx.DefaultQuery("limit", "20"))

	items, totalCount, err := c.service.ListPolicies(ctx.Request.Context(), query)
	if err != nil {
		c.respondPolicyError(ctx, err)
		return
	}

	resp := PolicyListResponse{
		Policies:   make([]PolicyResponse, 0, len(items)),
		TotalCount: totalCount,
		Page:       query.Page,
		Limit:      query.Limit,
	}
	for i := range items {
		resp.Policies = append(resp.Policies, toPolicyResponse(&items[i]))
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Refund policies retrieved", resp, nil)
}

// NextFreePriority handles GET /api/v1/admin/refund-policies/next-priority
func (c *Controller) NextFreePriority(ctx *gin.Context) {
	refundType := RefundType(ctx.Query("refund_type"))
	if !refundType.IsValid() {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid refund_type", nil, nil)
		return
	}

	priority, err := c.service.NextFreePriority(ctx.Request.Context(), refundType)
	if err != nil {
		c.respondPolicyError(ctx, err)
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Next free priority slot", gin.H{
		"refund_type": refundType.String(),
		"priority":    priority,
	}, nil)
}

// ResolvePolicy handles GET /api/v1/admin/refund-policies/resolve
func (c *Controller) ResolvePolicy(ctx *gin.Context) {
	refundType := RefundType(ctx.Query("refund_type"))
	if !refundType.IsValid() {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid refund_type", nil, nil)
		return
	}

	days, err := strconv.Atoi(ctx.Query("days_before_event"))
	if err != nil || days < 0 {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid days_before_event", nil, nil)
		return
	}

	asOf := time.Now().UTC()
	if asOfStr := ctx.Query("as_of"); asOfStr != "" {
		asOf, err = time.Parse(time.RFC3339, asOfStr)
		if err != nil {
			response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid as_of timestamp (expected RFC 3339)", nil, nil)
			return
		}
	}

	policy, err := c.service.ResolvePolicy(ctx.Request.Context(), refundType, days, asOf)
	if err != nil {
		c.respondPolicyError(ctx, err)
		return
	}

	if policy == nil {
		response.RespondJSON(ctx, "success", http.StatusOK, "No applicable refund policy", nil, nil)
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Applicable refund policy resolved", toPolicyResponse(policy), nil)
}

// respondPolicyError maps service errors to HTTP status codes
func (c *Controller) respondPolicyError(ctx *gin.Context, err error) {
	if ve, ok := AsValidationError(err); ok {
		response.RespondJSON(ctx, "error", http.StatusUnprocessableEntity, "Refund policy validation failed", nil, ve.Fields)
		return
	}

	switch {
	case errors.Is(err, ErrPolicyNotFound):
		response.RespondJSON(ctx, "error", http.StatusNotFound, "Refund policy not found", nil, nil)
	case errors.Is(err, ErrPolicyOverlap):
		response.RespondJSON(ctx, "error", http.StatusConflict, "Refund policy overlaps an existing policy at the same priority", nil, nil)
	case errors.Is(err, ErrNoFreePriority):
		response.RespondJSON(ctx, "error", http.StatusConflict, "No free priority slot for refund type", nil, nil)
	default:
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Refund policy operation failed", nil, gin.H{"details": err.Error()})
	}
}
