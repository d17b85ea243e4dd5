package models

import "time"

// ConflictRecord describes a version conflict reported by the server:
// the client submitted ClientVersion while the server holds ServerVersion.
// BaseFields is the last state both sides agreed on, when the client still
// has it; without a base the resolver cannot attribute field changes.
type ConflictRecord struct {
	DetectedAt    time.Time      `json:"detected_at"`
	ClientFields  map[string]any `json:"client_fields"`
	ServerFields  map[string]any `json:"server_fields"`
	BaseFields    map[string]any `json:"base_fields,omitempty"`
	EntityID      string         `json:"entity_id"`
	Type          EntityType     `json:"type"`
	ClientVersion int64          `json:"client_version"`
	ServerVersion int64          `json:"server_version"`
}

// ResolutionOutcome определяет исход разрешения конфликта
type ResolutionOutcome string

// Исходы разрешения
const (
	ResolutionAutoMerged ResolutionOutcome = "auto_merged" // пополевое слияние
	ResolutionPrecedence ResolutionOutcome = "precedence"  // сработало правило приоритета
	ResolutionManual     ResolutionOutcome = "manual"      // требуется ручное разрешение
)

// Resolution is the resolver's verdict for one conflict. For automatic
// outcomes Fields holds the resolved state and Version the server's version
// (only the server assigns versions). For manual outcomes both are unset.
type Resolution struct {
	Fields  map[string]any    `json:"fields,omitempty"`
	Outcome ResolutionOutcome `json:"outcome"`
	Version int64             `json:"version"`
}

// Auto reports whether the conflict was resolved without user input.
func (r *Resolution) Auto() bool {
	return r.Outcome == ResolutionAutoMerged || r.Outcome == ResolutionPrecedence
}

// ManualChoice определяет выбор пользователя при ручном разрешении
type ManualChoice string

// Варианты ручного разрешения
const (
	ChoiceKeepMine   ManualChoice = "keep_mine"   // оставить локальную версию
	ChoiceKeepTheirs ManualChoice = "keep_theirs" // принять серверную версию
	ChoiceMerge      ManualChoice = "merge"       // пользовательское слияние полей
)
