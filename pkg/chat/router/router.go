package router

import "tuddy-chat-be/internal/entity"

// Mode decides which generator endpoint answers a turn.
type Mode string

const (
	ModePlain      Mode = "PLAIN"
	ModeContextual Mode = "CONTEXTUAL"
)

// Router maps a resolved context set to a generator path. An empty set goes
// to the plain endpoint; anything else goes to the context-aware one.
type Router struct {
	plainPath   string
	contextPath string
}

func New(plainPath, contextPath string) *Router {
	return &Router{plainPath: plainPath, contextPath: contextPath}
}

func (r *Router) Route(contextSet []*entity.Artifact) (Mode, string) {
	if len(contextSet) == 0 {
		return ModePlain, r.plainPath
	}
	return ModeContextual, r.contextPath
}
