package domain

// Role tags who authored a conversation message.
type Role string

const (
	RoleUser  Role = "user"
	RoleModel Role = "model"
)

// ConversationMessage is one turn in a diagnosis discussion. The sequence a
// session owns is append-only and strictly ordered: the first two entries are
// the synthetic turns seeded at diagnosis time, and every later user message is
// followed by at most one model message.
type ConversationMessage struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}
