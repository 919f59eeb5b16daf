package create_special_date

import (
	"context"

	"github.com/termini-mk/AvailabilityService/internal/service/schedule/models"
)

type ScheduleService interface {
	CreateSpecialDate(ctx context.Context, req *models.CreateSpecialDateRequest) (*models.SpecialDateResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
