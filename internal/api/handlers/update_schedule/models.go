package update_schedule

import (
	"github.com/termini-mk/AvailabilityService/internal/service/schedule/models"
)

// UpdateScheduleRequest HTTP модель запроса на замену еженедельного расписания
type UpdateScheduleRequest struct {
	EmployeeID *int64              `json:"employeeId,omitempty"`
	Rules      []models.WeeklyRule `json:"rules"`
}

// ToServiceRequest конвертирует HTTP запрос в модель сервиса
func (r *UpdateScheduleRequest) ToServiceRequest(businessID, userID int64) *models.ReplaceScheduleRequest {
	return &models.ReplaceScheduleRequest{
		UserID:     userID,
		BusinessID: businessID,
		EmployeeID: r.EmployeeID,
		Rules:      r.Rules,
	}
}
