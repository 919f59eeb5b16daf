package get_business_appointments

import (
	"fmt"
	"strconv"
	"time"

	"github.com/termini-mk/AvailabilityService/internal/domain"
	"github.com/termini-mk/AvailabilityService/internal/service/appointments/models"
)

// ToServiceRequest создает запрос сервиса из path и query параметров
func ToServiceRequest(businessID, userID int64, employeeIDStr, startDateStr, endDateStr, statusStr string) (*models.GetBusinessAppointmentsRequest, error) {
	req := &models.GetBusinessAppointmentsRequest{
		UserID:     userID,
		BusinessID: businessID,
	}

	if employeeIDStr != "" {
		employeeID, err := strconv.ParseInt(employeeIDStr, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid employeeId: %v", err)
		}
		req.EmployeeID = &employeeID
	}

	if startDateStr != "" {
		startDate, err := time.Parse(domain.DateFormat, startDateStr)
		if err != nil {
			return nil, fmt.Errorf("invalid startDate: %v", err)
		}
		req.StartDate = &startDate
	}

	if endDateStr != "" {
		endDate, err := time.Parse(domain.DateFormat, endDateStr)
		if err != nil {
			return nil, fmt.Errorf("invalid endDate: %v", err)
		}
		req.EndDate = &endDate
	}

	if statusStr != "" {
		req.Status = &statusStr
	}

	return req, nil
}
