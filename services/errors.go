package services

import "errors"

// Общие ошибки, используемые в разных сервисах и маппинге HTTP.
var (
	// Ресурс не найден
	ErrTeamNotFound    = errors.New("team not found")
	ErrPlayerNotFound  = errors.New("player not found")
	ErrMatchNotFound   = errors.New("match not found")
	ErrArchiveNotFound = errors.New("archive not found")

	// Ошибки валидации матчей
	ErrMatchSameTeam       = errors.New("a match requires two distinct teams")
	ErrMatchInvalidScore   = errors.New("match goals must be non-negative integers")
	ErrScorerInvalidGoals  = errors.New("scorer goals must be a positive integer")
	ErrScorerUnknownPlayer = errors.New("scorer references an unknown player")

	// Прочая валидация
	ErrPlayerNameRequired  = errors.New("player name is required")
	ErrArchiveNameRequired = errors.New("archive name is required")

	// Ошибки аутентификации
	ErrInvalidCredentials = errors.New("invalid admin password")

	// Синхронизация с удалённым хранилищем
	ErrSyncNotConfigured = errors.New("remote synchronization is not configured")
)
