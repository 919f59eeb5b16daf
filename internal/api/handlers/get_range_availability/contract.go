package get_range_availability

import (
	"context"

	getRangeAvailability "github.com/termini-mk/AvailabilityService/internal/usecase/get_range_availability"
)

type GetRangeAvailabilityUseCase interface {
	Execute(ctx context.Context, req *getRangeAvailability.Request) (*getRangeAvailability.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
