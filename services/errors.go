package services

import "errors"

// Общие ошибки сервисного слоя; маппинг в HTTP-статусы живёт в handlers.
var (
	// Не найдено
	ErrStageNotFound       = errors.New("stage not found")
	ErrGroupNotFound       = errors.New("group not found")
	ErrMatchNotFound       = errors.New("match not found")
	ErrLeagueEmpty         = errors.New("league has no approved players")
	ErrSourceStageNotFound = errors.New("no confirmed group stage precedes this stage")

	// Валидация и бизнес-правила
	ErrValidationFailed      = errors.New("validation failed")
	ErrInsufficientPlayers   = errors.New("not enough players for the requested group layout")
	ErrInvalidGroupLayout    = errors.New("group count or players-per-group must be positive")
	ErrInvalidScore          = errors.New("set scores are malformed or do not produce a winner")
	ErrMatchMissingOccupants = errors.New("match does not have both players assigned")
	ErrMatchNotPlayable      = errors.New("match is a bye or cancelled and cannot take a result")

	// Конфликты
	ErrStageAlreadyStarted = errors.New("stage already has recorded results")
	ErrStageOrderConflict  = errors.New("stage order already taken in this league")
	ErrStageTypeMismatch   = errors.New("operation does not apply to this stage type")
	ErrDownstreamCompleted = errors.New("a later round match already has a result")

	// Аутентификация
	ErrInvalidCredentials = errors.New("invalid email or password")

	// Хранилище
	// ErrTransientStorage: транзакция упёрлась в deadlock/lock timeout и не
	// прошла даже после ретраев. Клиент может повторить запрос.
	ErrTransientStorage = errors.New("storage conflict persisted after retries")

	// ErrStructuralInconsistency: сетка или связи матчей в состоянии,
	// которое движок не может гарантировать. Не ретраится, только ремонт.
	ErrStructuralInconsistency = errors.New("bracket structure is inconsistent")
)
