package handler

import (
	"net/http"

	"github.com/abdlelah2024/abdlelah2024-shefaa-clinic-app/internal/delivery/dto"
	"github.com/abdlelah2024/abdlelah2024-shefaa-clinic-app/internal/domain/entity"
	"github.com/abdlelah2024/abdlelah2024-shefaa-clinic-app/pkg/response"
)

// SettingsHandler exposes the clinic settings loaded at startup.
type SettingsHandler struct {
	settings dto.SettingsResponse
}

func NewSettingsHandler(settings dto.SettingsResponse) *SettingsHandler {
	if settings.Permissions == nil {
		for _, p := range entity.AllPermissions() {
			settings.Permissions = append(settings.Permissions, string(p))
		}
	}
	return &SettingsHandler{settings: settings}
}

func (h *SettingsHandler) GetSettings(w http.ResponseWriter, r *http.Request) {
	response.Success(w, http.StatusOK, "Settings retrieved successfully", h.settings)
}
