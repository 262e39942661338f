package services

import "errors"

// Общие ошибки, используемые в разных сервисах и маппинге HTTP.
var (
	ErrNotFound = errors.New("requested resource not found")

	// Валидация
	ErrValidationFailed  = errors.New("validation failed")
	ErrTeamNameRequired  = errors.New("team name is required")
	ErrPlayerNameMissing = errors.New("player last name is required")
	ErrSameTeams         = errors.New("home and away teams must differ")
	ErrInvalidStage      = errors.New("not a knockout stage")
	ErrImportEmpty       = errors.New("import file is empty")
	ErrUnknownTeams      = errors.New("import references unknown teams")

	// Предусловия стадий плей-офф: операция ничего не изменила
	ErrStageNotReady = errors.New("stage prerequisites are not met")
	ErrStageExists   = errors.New("stage already exists")

	// Конфликты
	ErrTeamNameConflict = errors.New("team name is already in use")
	ErrSlotConflict     = errors.New("knockout slot is already taken")

	// Аутентификация
	ErrAuthInvalidCode = errors.New("invalid admin code")
	ErrInvalidToken    = errors.New("invalid or expired token")

	ErrTeamNotFound   = errors.New("team not found")
	ErrMatchNotFound  = errors.New("match not found")
	ErrPlayerNotFound = errors.New("player not found")

	ErrUploadsDisabled = errors.New("logo uploads are not configured")
)
