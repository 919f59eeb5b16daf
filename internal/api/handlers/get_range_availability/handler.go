package get_range_availability

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/termini-mk/AvailabilityService/internal/api/handlers"
	getRangeAvailability "github.com/termini-mk/AvailabilityService/internal/usecase/get_range_availability"
)

const (
	msgInvalidBusinessID  = "некорректный ID бизнеса"
	msgMissingServiceID   = "ID услуги обязателен"
	msgMissingDates       = "параметры startDate и endDate обязательны"
	msgInvalidParams      = "некорректные параметры запроса"
	msgInvalidRange       = "некорректный диапазон дат"
	msgRangeTooLong       = "диапазон дат слишком длинный"
	msgBusinessNotFound   = "бизнес не найден"
	msgServiceNotFound    = "услуга не найдена"
	msgEmployeeNotFound   = "сотрудник не найден"
	msgEmployeeNotAllowed = "бизнес не поддерживает запись к конкретному сотруднику"
)

type Handler struct {
	useCase GetRangeAvailabilityUseCase
	logger  Logger
}

func NewHandler(useCase GetRangeAvailabilityUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/businesses/{businessId}/availability/range
// Query params: serviceId (required), startDate, endDate (required, YYYY-MM-DD),
// employeeId (optional)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	businessID, err := strconv.ParseInt(vars["businessId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /businesses/{id}/availability/range - Invalid business ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBusinessID)
		return
	}

	serviceIDStr := r.URL.Query().Get("serviceId")
	if serviceIDStr == "" {
		h.logger.Warn("GET /businesses/{id}/availability/range - Missing service ID")
		handlers.RespondBadRequest(w, msgMissingServiceID)
		return
	}

	startDateStr := r.URL.Query().Get("startDate")
	endDateStr := r.URL.Query().Get("endDate")
	if startDateStr == "" || endDateStr == "" {
		h.logger.Warn("GET /businesses/{id}/availability/range - Missing date range")
		handlers.RespondBadRequest(w, msgMissingDates)
		return
	}

	useCaseReq, err := ToUseCaseRequest(businessID, serviceIDStr, r.URL.Query().Get("employeeId"),
		startDateStr, endDateStr)
	if err != nil {
		h.logger.Warn("GET /businesses/{id}/availability/range - Invalid parameters: %v", err)
		handlers.RespondBadRequest(w, msgInvalidParams)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, getRangeAvailability.ErrBusinessNotFound):
			h.logger.Warn("GET /businesses/{id}/availability/range - Business not found: business_id=%d", businessID)
			handlers.RespondNotFound(w, msgBusinessNotFound)

		case errors.Is(err, getRangeAvailability.ErrServiceNotFound):
			h.logger.Warn("GET /businesses/{id}/availability/range - Service not found: business_id=%d, service_id=%s",
				businessID, serviceIDStr)
			handlers.RespondNotFound(w, msgServiceNotFound)

		case errors.Is(err, getRangeAvailability.ErrEmployeeNotFound):
			h.logger.Warn("GET /businesses/{id}/availability/range - Employee not found: business_id=%d", businessID)
			handlers.RespondNotFound(w, msgEmployeeNotFound)

		case errors.Is(err, getRangeAvailability.ErrEmployeeBookingNotAllowed):
			h.logger.Warn("GET /businesses/{id}/availability/range - Employee booking not allowed: business_id=%d", businessID)
			handlers.RespondBadRequest(w, msgEmployeeNotAllowed)

		case errors.Is(err, getRangeAvailability.ErrRangeTooLong):
			h.logger.Warn("GET /businesses/{id}/availability/range - Range too long: business_id=%d, start=%s, end=%s",
				businessID, startDateStr, endDateStr)
			handlers.RespondBadRequest(w, msgRangeTooLong)

		case errors.Is(err, getRangeAvailability.ErrInvalidRange):
			h.logger.Warn("GET /businesses/{id}/availability/range - Invalid range: business_id=%d, start=%s, end=%s",
				businessID, startDateStr, endDateStr)
			handlers.RespondBadRequest(w, msgInvalidRange)

		case errors.Is(err, getRangeAvailability.ErrInvalidInput):
			h.logger.Warn("GET /businesses/{id}/availability/range - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidParams)

		default:
			h.logger.Error("GET /businesses/{id}/availability/range - Failed to compute availability: business_id=%d, error=%v",
				businessID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /businesses/{id}/availability/range - Availability computed: business_id=%d, days=%d",
		businessID, len(result.Days))
	handlers.RespondJSON(w, http.StatusOK, result)
}
