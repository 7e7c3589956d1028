package model

// UserProgress is the per-session game state persisted between turns.
// Terminal state: GameCompleted=true once Level passes the last catalog entry.
type UserProgress struct {
	Chat          *ChatSession `json:"chat"`
	Level         int          `json:"level"`
	GameCompleted bool         `json:"game_completed"`
}

// NewUserProgress starts a session at level 1 with a fresh chat.
func NewUserProgress() *UserProgress {
	return &UserProgress{Chat: NewChatSession(""), Level: 1}
}
