// Package preview_day_availability превью доступности дня для владельца
// бизнеса: тот же расчёт, что и публичная доступность, но с прошедшими
// слотами (ручная запись задним числом).
package preview_day_availability

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/termini-mk/AvailabilityService/internal/api/handlers"
	"github.com/termini-mk/AvailabilityService/internal/api/middleware"
	"github.com/termini-mk/AvailabilityService/internal/domain"
	getDayAvailability "github.com/termini-mk/AvailabilityService/internal/usecase/get_day_availability"
)

const (
	msgInvalidBusinessID  = "некорректный ID бизнеса"
	msgMissingServiceID   = "ID услуги обязателен"
	msgMissingDate        = "дата обязательна"
	msgMissingUserID      = "отсутствует ID пользователя"
	msgInvalidParams      = "некорректные параметры запроса"
	msgForbidden          = "доступ запрещен"
	msgBusinessNotFound   = "бизнес не найден"
	msgServiceNotFound    = "услуга не найдена"
	msgEmployeeNotFound   = "сотрудник не найден"
	msgEmployeeNotAllowed = "бизнес не поддерживает запись к конкретному сотруднику"
)

type Handler struct {
	useCase GetDayAvailabilityUseCase
	logger  Logger
}

func NewHandler(useCase GetDayAvailabilityUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/businesses/{businessId}/availability/preview
// Query params: serviceId (required), date (required, YYYY-MM-DD), employeeId (optional)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	businessID, err := strconv.ParseInt(vars["businessId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /businesses/{id}/availability/preview - Invalid business ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBusinessID)
		return
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("GET /businesses/{id}/availability/preview - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	serviceIDStr := r.URL.Query().Get("serviceId")
	if serviceIDStr == "" {
		h.logger.Warn("GET /businesses/{id}/availability/preview - Missing service ID")
		handlers.RespondBadRequest(w, msgMissingServiceID)
		return
	}

	dateStr := r.URL.Query().Get("date")
	if dateStr == "" {
		h.logger.Warn("GET /businesses/{id}/availability/preview - Missing date")
		handlers.RespondBadRequest(w, msgMissingDate)
		return
	}

	useCaseReq, err := toUseCaseRequest(businessID, userID, serviceIDStr, r.URL.Query().Get("employeeId"), dateStr)
	if err != nil {
		h.logger.Warn("GET /businesses/{id}/availability/preview - Invalid parameters: %v", err)
		handlers.RespondBadRequest(w, msgInvalidParams)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, getDayAvailability.ErrBusinessNotFound):
			h.logger.Warn("GET /businesses/{id}/availability/preview - Business not found: business_id=%d", businessID)
			handlers.RespondNotFound(w, msgBusinessNotFound)

		case errors.Is(err, getDayAvailability.ErrAccessDenied):
			h.logger.Warn("GET /businesses/{id}/availability/preview - Access denied: business_id=%d, user_id=%d",
				businessID, userID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, getDayAvailability.ErrServiceNotFound):
			h.logger.Warn("GET /businesses/{id}/availability/preview - Service not found: business_id=%d, service_id=%s",
				businessID, serviceIDStr)
			handlers.RespondNotFound(w, msgServiceNotFound)

		case errors.Is(err, getDayAvailability.ErrEmployeeNotFound):
			h.logger.Warn("GET /businesses/{id}/availability/preview - Employee not found: business_id=%d", businessID)
			handlers.RespondNotFound(w, msgEmployeeNotFound)

		case errors.Is(err, getDayAvailability.ErrEmployeeBookingNotAllowed):
			h.logger.Warn("GET /businesses/{id}/availability/preview - Employee booking not allowed: business_id=%d", businessID)
			handlers.RespondBadRequest(w, msgEmployeeNotAllowed)

		case errors.Is(err, getDayAvailability.ErrInvalidInput):
			h.logger.Warn("GET /businesses/{id}/availability/preview - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidParams)

		default:
			h.logger.Error("GET /businesses/{id}/availability/preview - Failed to compute availability: business_id=%d, error=%v",
				businessID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /businesses/{id}/availability/preview - Availability computed: business_id=%d, date=%s, slots=%d",
		businessID, result.Date, result.TotalSlots)
	handlers.RespondJSON(w, http.StatusOK, result)
}

// toUseCaseRequest создает запрос превью: всегда с прошедшими слотами
func toUseCaseRequest(businessID, userID int64, serviceIDStr, employeeIDStr, dateStr string) (*getDayAvailability.Request, error) {
	serviceID, err := strconv.ParseInt(serviceIDStr, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid serviceId: %v", err)
	}

	var employeeID *int64
	if employeeIDStr != "" {
		id, err := strconv.ParseInt(employeeIDStr, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid employeeId: %v", err)
		}
		employeeID = &id
	}

	date, err := time.Parse(domain.DateFormat, dateStr)
	if err != nil {
		return nil, fmt.Errorf("invalid date: %v", err)
	}

	return &getDayAvailability.Request{
		BusinessID:     businessID,
		ServiceID:      serviceID,
		EmployeeID:     employeeID,
		Date:           date,
		AllowPastSlots: true,
		UserID:         userID,
	}, nil
}
