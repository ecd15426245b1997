package handler

import (
	"net/http"
	"strconv"

	"medimarket/internal/domain/entity"
	"medimarket/internal/usecase"
	"medimarket/pkg/response"
)

const maxAuditPageSize = 100

type AuditLogHandler struct {
	auditLogUsecase usecase.AuditLogUsecase
}

func NewAuditLogHandler(auditLogUsecase usecase.AuditLogUsecase) *AuditLogHandler {
	return &AuditLogHandler{
		auditLogUsecase: auditLogUsecase,
	}
}

func (h *AuditLogHandler) GetAuditLogs(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	page, _ := strconv.Atoi(query.Get("page"))
	limit, _ := strconv.Atoi(query.Get("limit"))

	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}
	if limit > maxAuditPageSize {
		limit = maxAuditPageSize
	}

	filter := &entity.AuditLogFilter{
		EntityType: query.Get("entity_type"),
		Action:     query.Get("action"),
		Limit:      limit,
		Offset:     (page - 1) * limit,
	}

	result, err := h.auditLogUsecase.GetAuditLogs(r.Context(), filter)
	if err != nil {
		response.InternalServerError(w, "Failed to get audit logs")
		return
	}

	response.SuccessWithMeta(w, http.StatusOK, "Audit logs retrieved successfully", result.Logs, response.NewMeta(page, limit, result.Total))
}
