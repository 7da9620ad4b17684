package importer

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/MrSnakeDoc/harbor/internal/domain"
	"github.com/MrSnakeDoc/harbor/internal/i18n"
	"github.com/MrSnakeDoc/harbor/internal/logger"
)

// Normalizer turns raw records into finished bookmarks.
type Normalizer struct {
	secrets   SecretStore
	localizer Localizer
	logger    logger.Logger
	now       func() time.Time
}

// NewNormalizer creates a normalizer writing passwords to secrets.
func NewNormalizer(secrets SecretStore, localizer Localizer, log logger.Logger) *Normalizer {
	return &Normalizer{
		secrets:   secrets,
		localizer: localizer,
		logger:    log,
		now:       time.Now,
	}
}

// Normalize builds a bookmark from raw.
//
// A nil raw record is rejected with (nil, nil). The only error returned is
// a secret store failure; the password is cleared in every case.
func (n *Normalizer) Normalize(ctx context.Context, raw *RawRecord, src Source) (*domain.Bookmark, error) {
	if raw == nil {
		n.logger.Warn("parsing bookmark failed, dropping record",
			logger.String("source", src.BundleID()))
		return nil, nil
	}

	b := domain.NewBookmark(src.DefaultProtocol(), strings.TrimSpace(raw.Host))
	b.Nickname = raw.Nickname
	b.Credentials.Username = raw.Username
	b.WebURL = raw.WebURL
	b.DefaultPath = raw.Path
	b.Source = src.BundleID()
	b.CreatedAt = n.now()

	n.resolveProtocol(b, raw, src)
	n.resolvePort(b, raw)

	b.Comment = n.comment(raw.Comment, src.Name())
	b.ID = domain.GenerateID(b)

	n.logger.Debug("create new bookmark from import",
		logger.String("bookmark", b.String()))

	password := raw.Password
	raw.Password = ""
	if strings.TrimSpace(password) == "" {
		return b, nil
	}

	err := n.secrets.Put(ctx, b.Protocol.Scheme(), b.EffectivePort(), b.Hostname, b.Credentials.Username, password)
	b.Credentials.Password = ""
	if err != nil {
		return nil, fmt.Errorf("failed to store password for %s: %w", b, err)
	}
	return b, nil
}

// resolveProtocol applies the source code. A parsable code always resets
// the port to the protocol default, even when the code itself is unknown.
func (n *Normalizer) resolveProtocol(b *domain.Bookmark, raw *RawRecord, src Source) {
	code := strings.TrimSpace(raw.Protocol)
	if code == "" {
		return
	}

	value, err := strconv.Atoi(code)
	if err != nil {
		n.logger.Warn("invalid protocol code, keeping default protocol",
			logger.String("source", src.BundleID()),
			logger.String("host", b.Hostname),
			logger.String("code", code),
			logger.String("protocol", b.Protocol.String()))
		return
	}

	if protocol, ok := src.Protocol(value); ok {
		b.Protocol = protocol
	} else {
		n.logger.Warn("unknown protocol code, keeping default protocol",
			logger.String("source", src.BundleID()),
			logger.String("host", b.Hostname),
			logger.Int("code", value),
			logger.String("protocol", b.Protocol.String()))
	}
	b.Port = domain.DefaultPort
}

func (n *Normalizer) resolvePort(b *domain.Bookmark, raw *RawRecord) {
	value := strings.TrimSpace(raw.Port)
	if value == "" {
		return
	}

	port, err := strconv.Atoi(value)
	if err != nil || port < 1 || port > 65535 {
		n.logger.Warn("invalid port, using protocol default",
			logger.String("host", b.Hostname),
			logger.String("port", value))
		return
	}
	b.Port = port
}

func (n *Normalizer) comment(source, name string) string {
	suffix := n.localizer.Format(i18n.ImportedFrom, name)

	source = strings.TrimSpace(source)
	if source == "" {
		return suffix
	}
	if !strings.HasSuffix(source, ".") {
		source += "."
	}
	return source + " " + suffix
}
