package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// DefaultPort is the sentinel meaning "use the protocol default".
const DefaultPort = -1

// Credentials holds the login of a bookmark.
// Password is only ever populated in memory between parsing and
// normalization; once a bookmark joins a collection it is empty.
type Credentials struct {
	Username string `json:"username,omitempty"`
	Password string `json:"-"`
}

// Bookmark is a normalized host/connection record.
type Bookmark struct {
	// ─────────────────────────────
	// Identity
	// ─────────────────────────────

	// ID is derived from the equality key (see Key) so the same host
	// always lands on the same storage entry.
	ID string `json:"id"`

	// Hostname of the remote server.
	// Example: ftp.example.net
	Hostname string `json:"hostname"`

	// Protocol resolved from the source format.
	Protocol Protocol `json:"protocol"`

	// Port is DefaultPort (-1) when the protocol default applies.
	Port int `json:"port"`

	Credentials Credentials `json:"credentials"`

	// ─────────────────────────────
	// Presentation
	// ─────────────────────────────

	Nickname    string `json:"nickname,omitempty"`
	WebURL      string `json:"web_url,omitempty"`
	Comment     string `json:"comment,omitempty"`
	DefaultPath string `json:"default_path,omitempty"`

	// ─────────────────────────────
	// Provenance
	// ─────────────────────────────

	// Source is the bundle identifier of the client it was imported from.
	// Example: com.crossftp
	Source string `json:"source,omitempty"`

	// CreatedAt is the time the bookmark was imported.
	CreatedAt time.Time `json:"created_at"`
}

// NewBookmark returns a bookmark for hostname using the default port.
func NewBookmark(protocol Protocol, hostname string) *Bookmark {
	return &Bookmark{
		Hostname: hostname,
		Protocol: protocol,
		Port:     DefaultPort,
	}
}

// EffectivePort resolves the DefaultPort sentinel against the protocol.
func (b *Bookmark) EffectivePort() int {
	if b.Port == DefaultPort {
		return b.Protocol.DefaultPort()
	}
	return b.Port
}

// Key is the identity used for duplicate detection:
// hostname (case-insensitive), effective port, protocol and username.
func (b *Bookmark) Key() string {
	return strings.Join([]string{
		string(b.Protocol),
		strings.ToLower(strings.TrimSpace(b.Hostname)),
		strconv.Itoa(b.EffectivePort()),
		b.Credentials.Username,
	}, "|")
}

// SameHost is the default equality notion for collections.
func SameHost(a, b *Bookmark) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Key() == b.Key()
}

// GenerateID derives a short stable identifier from the equality key.
func GenerateID(b *Bookmark) string {
	hash := sha256.Sum256([]byte(b.Key()))
	return hex.EncodeToString(hash[:])[:16]
}

func (b *Bookmark) String() string {
	user := b.Credentials.Username
	if user != "" {
		user += "@"
	}
	return fmt.Sprintf("%s://%s%s:%d", b.Protocol, user, b.Hostname, b.EffectivePort())
}
