package credential

import (
	"database/sql"
	"errors"
	"sync"
	"time"

	"github.com/DallasMorningNews/fb-instant-article-insights/internal/graph"
)

// ErrExchange means the provider rejected the user token or it lacks the page scope.
// The provider's message is wrapped verbatim.
var ErrExchange = errors.New("credential exchange failed")

// Kind is the row key of a stored credential. Only page credentials are persisted.
type Kind string

const KindPage Kind = "page"

// Credential is an access token for the Graph API.
type Credential struct {
	Kind      Kind
	Token     string
	PageID    string
	CreatedAt time.Time
	UpdatedAt time.Time
}

type store struct {
	db        *sql.DB
	mu        sync.RWMutex
	exchanger graph.TokenExchanger
	pageID    string
	now       func() time.Time
}
