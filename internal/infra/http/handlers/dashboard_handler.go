package handlers

import (
	"net/http"

	"github.com/xavierca1/lead-engine/internal/usecase"
	"go.uber.org/zap"
)

type DashboardHandler struct {
	DashboardUC *usecase.GetDashboardUseCase
	Logger      *zap.Logger
}

func NewDashboardHandler(uc *usecase.GetDashboardUseCase, logger *zap.Logger) *DashboardHandler {
	return &DashboardHandler{DashboardUC: uc, Logger: logger.Named("dashboard")}
}

func (h *DashboardHandler) Handle(w http.ResponseWriter, r *http.Request) {
	output, err := h.DashboardUC.Execute(r.Context())
	if err != nil {
		writeUseCaseError(w, h.Logger, err)
		return
	}
	writeJSON(w, http.StatusOK, output)
}
