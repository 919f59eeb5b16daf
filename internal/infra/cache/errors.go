package cache

import "errors"

var (
	// ErrCacheMiss возвращается, когда значения нет в кэше
	ErrCacheMiss = errors.New("cache: miss")

	// ErrCacheUnavailable возвращается при ошибках соединения с Redis
	ErrCacheUnavailable = errors.New("cache: unavailable")
)
