package settlersdb

import (
	"time"
)

// Account is a row of the users table.
type Account struct {
	Nickname  string    `json:"nickname" validate:"required,max=20"`
	Host      string    `json:"host" validate:"max=50"`
	Password  string    `json:"-" validate:"max=20"`
	Email     string    `json:"email,omitempty" validate:"omitempty,max=50"`
	LastLogin time.Time `json:"last_login"`
}

// Seat is one player position at the end of a game.
type Seat struct {
	Name   string `json:"name"`
	Score  int    `json:"score"`
	Robot  bool   `json:"robot"`
	Vacant bool   `json:"vacant"`
}

// GameResult is the outcome of a finished game, as produced by the game engine.
type GameResult struct {
	Name      string        `json:"name"`
	Seats     []Seat        `json:"seats"`
	Winner    int           `json:"winner"` // seat number, or -1 if nobody won
	StartTime time.Time     `json:"start_time"`
	Duration  time.Duration `json:"duration"`
}

// RobotParams are the tuning values stored for a named robot player.
type RobotParams struct {
	MaxGameLength           int     `db:"maxgamelength" json:"max_game_length"`
	MaxETA                  int     `db:"maxeta" json:"max_eta"`
	ETABonusFactor          float64 `db:"etabonusfactor" json:"eta_bonus_factor"`
	AdversarialFactor       float64 `db:"adversarialfactor" json:"adversarial_factor"`
	LeaderAdversarialFactor float64 `db:"leaderadversarialfactor" json:"leader_adversarial_factor"`
	DevCardMultiplier       float64 `db:"devcardmultiplier" json:"dev_card_multiplier"`
	ThreatMultiplier        float64 `db:"threatmultiplier" json:"threat_multiplier"`
	StrategyType            int     `db:"strategytype" json:"strategy_type"`
	TradeFlag               int     `db:"tradeflag" json:"trade_flag"`
}

// SchemaInfo describes the schema of the connected database.
type SchemaInfo struct {
	Dialect string          `json:"dialect"`
	Version int             `json:"version"`
	Latest  bool            `json:"latest"`
	Tables  map[string]bool `json:"tables,omitempty"`
}
