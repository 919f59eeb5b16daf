package delete_special_date

import "context"

type ScheduleService interface {
	DeleteSpecialDate(ctx context.Context, businessID, specialDateID, userID int64) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
