package get_range_availability

import "errors"

var (
	// ErrBusinessNotFound возвращается, когда бизнес не найден
	ErrBusinessNotFound = errors.New("get_range_availability: business not found")

	// ErrServiceNotFound возвращается, когда услуга не найдена или неактивна
	ErrServiceNotFound = errors.New("get_range_availability: service not found")

	// ErrEmployeeNotFound возвращается, когда сотрудник не найден или неактивен
	ErrEmployeeNotFound = errors.New("get_range_availability: employee not found")

	// ErrEmployeeBookingNotAllowed возвращается, когда бизнес не разрешает выбор сотрудника
	ErrEmployeeBookingNotAllowed = errors.New("get_range_availability: employee selection is not allowed")

	// ErrInvalidRange возвращается при некорректном диапазоне дат
	ErrInvalidRange = errors.New("get_range_availability: invalid date range")

	// ErrRangeTooLong возвращается, когда диапазон превышает MaxRangeDays
	ErrRangeTooLong = errors.New("get_range_availability: date range is too long")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("get_range_availability: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("get_range_availability: internal error")
)
