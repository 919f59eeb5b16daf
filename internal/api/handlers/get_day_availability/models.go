package get_day_availability

import (
	"fmt"
	"strconv"
	"time"

	"github.com/termini-mk/AvailabilityService/internal/domain"
	getDayAvailability "github.com/termini-mk/AvailabilityService/internal/usecase/get_day_availability"
)

// ToUseCaseRequest создает запрос use case из path и query параметров
func ToUseCaseRequest(businessID int64, serviceIDStr, employeeIDStr, dateStr string) (*getDayAvailability.Request, error) {
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
		BusinessID: businessID,
		ServiceID:  serviceID,
		EmployeeID: employeeID,
		Date:       date,
	}, nil
}
