package constant

// Sender kinds for chat messages. Exactly two are persisted.
const (
	SenderTypeUser = "USER"
	SenderTypeBot  = "BOT"
)

// Artifact lifecycle. PENDING -> PROCESSING -> COMPLETED, or
// PROCESSING -> FAILED (terminal). Only COMPLETED artifacts are
// eligible as chat context.
const (
	ArtifactStatusPending    = "PENDING"
	ArtifactStatusProcessing = "PROCESSING"
	ArtifactStatusCompleted  = "COMPLETED"
	ArtifactStatusFailed     = "FAILED"
)

// Session title is derived from the first turn's text.
const (
	SessionTitleMaxLen  = 40
	DefaultSessionTitle = "New Chat"
)

// Message history page size for the paginated read API.
const ChatPageSize = 20

// Answers returned when the generator fails or replies with nothing useful.
// These get persisted as the bot message so the turn stays navigable.
const (
	FallbackAnswer = "Sorry, something went wrong while generating a reply. Please try again."
	EmptyAnswer    = "No response."
)
