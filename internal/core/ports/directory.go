package ports

import "github.com/skilllink/skilllink-client/internal/core/domain"

// UserDirectory resolves user ids to identities for conversation previews.
// A false return means the id is unknown; the caller drops the conversation.
type UserDirectory interface {
	UserByID(id string) (domain.User, bool)
}
