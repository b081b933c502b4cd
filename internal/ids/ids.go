package ids

import (
	mathrand "math/rand"
	"strconv"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// Entity prefixes keep identifiers readable in logs and API payloads.
const (
	PrefixUser         = "u_"
	PrefixConference   = "c_"
	PrefixPaper        = "p_"
	PrefixDecision     = "d_"
	PrefixProposal     = "prop_"
	PrefixTask         = "t_"
	PrefixNotification = "n_"
	PrefixToast        = "toast_"
)

var (
	entropyMu sync.Mutex
	entropy   = ulid.Monotonic(mathrand.New(mathrand.NewSource(time.Now().UnixNano())), 0)
)

// New returns a lexicographically sortable identifier suitable for storage keys.
// Identifiers minted within the same millisecond are still strictly increasing.
func New() string {
	entropyMu.Lock()
	defer entropyMu.Unlock()
	return ulid.MustNew(ulid.Timestamp(time.Now()), entropy).String()
}

// WithPrefix returns New() prefixed with an entity marker such as PrefixPaper.
func WithPrefix(prefix string) string {
	return prefix + New()
}

// Generator mints identifiers for a single entity kind.
type Generator func() string

// For returns a Generator bound to the given prefix.
func For(prefix string) Generator {
	return func() string { return WithPrefix(prefix) }
}

// Sequence returns a deterministic Generator ("<prefix>1", "<prefix>2", ...).
// Used by tests and seed fixtures where stable ids matter.
func Sequence(prefix string) Generator {
	var (
		mu sync.Mutex
		n  int
	)
	return func() string {
		mu.Lock()
		defer mu.Unlock()
		n++
		return prefix + strconv.Itoa(n)
	}
}
