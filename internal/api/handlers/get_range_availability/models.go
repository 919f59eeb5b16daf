package get_range_availability

import (
	"fmt"
	"strconv"
	"time"

	"github.com/termini-mk/AvailabilityService/internal/domain"
	getRangeAvailability "github.com/termini-mk/AvailabilityService/internal/usecase/get_range_availability"
)

// ToUseCaseRequest создает запрос use case из path и query параметров
func ToUseCaseRequest(businessID int64, serviceIDStr, employeeIDStr, startDateStr, endDateStr string) (*getRangeAvailability.Request, error) {
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

	startDate, err := time.Parse(domain.DateFormat, startDateStr)
	if err != nil {
		return nil, fmt.Errorf("invalid startDate: %v", err)
	}

	endDate, err := time.Parse(domain.DateFormat, endDateStr)
	if err != nil {
		return nil, fmt.Errorf("invalid endDate: %v", err)
	}

	return &getRangeAvailability.Request{
		BusinessID: businessID,
		ServiceID:  serviceID,
		EmployeeID: employeeID,
		StartDate:  startDate,
		EndDate:    endDate,
	}, nil
}
