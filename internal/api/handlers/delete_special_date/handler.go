package delete_special_date

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/termini-mk/AvailabilityService/internal/api/handlers"
	"github.com/termini-mk/AvailabilityService/internal/api/middleware"
	"github.com/termini-mk/AvailabilityService/internal/service/schedule"
)

const (
	msgInvalidBusinessID    = "некорректный ID бизнеса"
	msgInvalidSpecialDateID = "некорректный ID особой даты"
	msgMissingUserID        = "отсутствует ID пользователя"
	msgForbidden            = "доступ запрещен"
	msgBusinessNotFound     = "бизнес не найден"
	msgNotFound             = "особая дата не найдена"
)

type Handler struct {
	service ScheduleService
	logger  Logger
}

func NewHandler(service ScheduleService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle DELETE /api/v1/businesses/{businessId}/special-dates/{specialDateId}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	businessID, err := strconv.ParseInt(vars["businessId"], 10, 64)
	if err != nil {
		h.logger.Warn("DELETE /businesses/{id}/special-dates/{id} - Invalid business ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBusinessID)
		return
	}

	specialDateID, err := strconv.ParseInt(vars["specialDateId"], 10, 64)
	if err != nil {
		h.logger.Warn("DELETE /businesses/{id}/special-dates/{id} - Invalid special date ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidSpecialDateID)
		return
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("DELETE /businesses/{id}/special-dates/{id} - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	if err := h.service.DeleteSpecialDate(r.Context(), businessID, specialDateID, userID); err != nil {
		switch {
		case errors.Is(err, schedule.ErrBusinessNotFound):
			h.logger.Warn("DELETE /businesses/{id}/special-dates/{id} - Business not found: business_id=%d", businessID)
			handlers.RespondNotFound(w, msgBusinessNotFound)

		case errors.Is(err, schedule.ErrSpecialDateNotFound):
			h.logger.Warn("DELETE /businesses/{id}/special-dates/{id} - Special date not found: special_date_id=%d",
				specialDateID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, schedule.ErrAccessDenied):
			h.logger.Warn("DELETE /businesses/{id}/special-dates/{id} - Access denied: business_id=%d, user_id=%d",
				businessID, userID)
			handlers.RespondForbidden(w, msgForbidden)

		default:
			h.logger.Error("DELETE /businesses/{id}/special-dates/{id} - Failed to delete special date: special_date_id=%d, error=%v",
				specialDateID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("DELETE /businesses/{id}/special-dates/{id} - Special date deleted: special_date_id=%d, business_id=%d",
		specialDateID, businessID)
	handlers.RespondJSON(w, http.StatusNoContent, nil)
}
