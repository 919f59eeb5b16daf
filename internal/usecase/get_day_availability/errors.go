package get_day_availability

import "errors"

var (
	// ErrBusinessNotFound возвращается, когда бизнес не найден
	ErrBusinessNotFound = errors.New("get_day_availability: business not found")

	// ErrServiceNotFound возвращается, когда услуга не найдена или неактивна
	ErrServiceNotFound = errors.New("get_day_availability: service not found")

	// ErrEmployeeNotFound возвращается, когда сотрудник не найден или неактивен
	ErrEmployeeNotFound = errors.New("get_day_availability: employee not found")

	// ErrEmployeeBookingNotAllowed возвращается, когда бизнес не разрешает выбор сотрудника
	ErrEmployeeBookingNotAllowed = errors.New("get_day_availability: employee selection is not allowed")

	// ErrAccessDenied возвращается, когда превью запрашивает не владелец бизнеса
	ErrAccessDenied = errors.New("get_day_availability: access denied")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("get_day_availability: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("get_day_availability: internal error")
)
