package create_special_date

import (
	"github.com/termini-mk/AvailabilityService/internal/service/schedule/models"
	"github.com/termini-mk/AvailabilityService/pkg/types"
)

// CreateSpecialDateRequest HTTP модель запроса на создание особой даты
type CreateSpecialDateRequest struct {
	EmployeeID  *int64            `json:"employeeId,omitempty"`
	Date        string            `json:"date"` // YYYY-MM-DD
	IsAvailable bool              `json:"isAvailable"`
	StartTime   *types.TimeString `json:"startTime,omitempty"`
	EndTime     *types.TimeString `json:"endTime,omitempty"`
	Reason      *string           `json:"reason,omitempty"`
}

// ToServiceRequest конвертирует HTTP запрос в модель сервиса
func (r *CreateSpecialDateRequest) ToServiceRequest(businessID, userID int64) *models.CreateSpecialDateRequest {
	return &models.CreateSpecialDateRequest{
		UserID:      userID,
		BusinessID:  businessID,
		EmployeeID:  r.EmployeeID,
		Date:        r.Date,
		IsAvailable: r.IsAvailable,
		StartTime:   r.StartTime,
		EndTime:     r.EndTime,
		Reason:      r.Reason,
	}
}
