// AngelaMos | 2026
// handler.go

package analytics

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/leasehub/backend/internal/core"
	"github.com/leasehub/backend/internal/middleware"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(
	r chi.Router,
	authenticator func(http.Handler) http.Handler,
) {
	r.Group(func(r chi.Router) {
		r.Use(authenticator)
		r.Use(middleware.RequireLandlord)

		r.Get("/analytics", h.GetReport)
	})
}

func (h *Handler) GetReport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	actor := core.Actor{
		UserID: middleware.GetUserID(ctx),
		Role:   middleware.GetUserRole(ctx),
		RoleID: middleware.GetRoleID(ctx),
	}

	q := r.URL.Query()
	filters := Filters{
		City:   q.Get("city"),
		State:  q.Get("state"),
		Status: q.Get("status"),
	}

	report, err := h.service.Report(ctx, actor, filters)
	if err != nil {
		if core.IsAppError(err) {
			core.JSONError(w, err)
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, report)
}
