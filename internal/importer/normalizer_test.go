package importer_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrSnakeDoc/harbor/internal/domain"
	"github.com/MrSnakeDoc/harbor/internal/i18n"
	"github.com/MrSnakeDoc/harbor/internal/importer"
	"github.com/MrSnakeDoc/harbor/internal/sources/crossftp"
)

func newNormalizer(t *testing.T, lang string) (*importer.Normalizer, *memSecrets, func() int) {
	t.Helper()
	log, logs := observedLogger()
	secrets := &memSecrets{}
	n := importer.NewNormalizer(secrets, i18n.New(lang), log)
	return n, secrets, func() int { return warnCount(logs) }
}

func TestNormalizeProtocolCodes(t *testing.T) {
	tests := []struct {
		name     string
		code     string
		port     string
		protocol domain.Protocol
		wantPort int
		warnings int
	}{
		{"ftp", "1", "", domain.ProtocolFTP, -1, 0},
		{"ftps", "3", "", domain.ProtocolFTPS, -1, 0},
		{"webdav", "6", "", domain.ProtocolDAV, -1, 0},
		{"webdav tls", "7", "", domain.ProtocolDAVS, -1, 0},
		{"s3", "8", "", domain.ProtocolS3, -1, 0},
		{"no code keeps default", "", "", domain.ProtocolFTP, -1, 0},
		{"unknown code", "5", "", domain.ProtocolFTP, -1, 1},
		{"non numeric code", "sftp", "", domain.ProtocolFTP, -1, 1},
		{"explicit port", "1", "2121", domain.ProtocolFTP, 2121, 0},
		{"port abc", "1", "abc", domain.ProtocolFTP, -1, 1},
		{"port zero", "1", "0", domain.ProtocolFTP, -1, 1},
		{"port too large", "1", "70000", domain.ProtocolFTP, -1, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n, _, warnings := newNormalizer(t, "en")
			raw := &importer.RawRecord{Host: "h.example.net", Protocol: tt.code, Port: tt.port}

			b, err := n.Normalize(context.Background(), raw, crossftp.New(""))
			require.NoError(t, err)
			require.NotNil(t, b)

			assert.Equal(t, tt.protocol, b.Protocol)
			assert.Equal(t, tt.wantPort, b.Port)
			assert.NotEqual(t, domain.ProtocolUnresolved, b.Protocol)
			assert.Equal(t, tt.warnings, warnings())
		})
	}
}

func TestNormalizeResetsPortForProtocolCode(t *testing.T) {
	n, _, _ := newNormalizer(t, "en")
	raw := &importer.RawRecord{Host: "dav.example.net", Protocol: "7"}

	b, err := n.Normalize(context.Background(), raw, crossftp.New(""))
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultPort, b.Port)
	assert.Equal(t, 443, b.EffectivePort())
}

func TestNormalizeComment(t *testing.T) {
	tests := []struct {
		name    string
		lang    string
		comment string
		want    string
	}{
		{"blank", "en", "", "Imported from CrossFTP"},
		{"whitespace", "en", "   ", "Imported from CrossFTP"},
		{"adds period", "en", "Team drop", "Team drop. Imported from CrossFTP"},
		{"keeps period", "en", "Team drop.", "Team drop. Imported from CrossFTP"},
		{"trims", "en", " Team drop ", "Team drop. Imported from CrossFTP"},
		{"localized", "fr", "Équipe", "Équipe. Importé depuis CrossFTP"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n, _, _ := newNormalizer(t, tt.lang)
			b, err := n.Normalize(context.Background(), &importer.RawRecord{Host: "h", Comment: tt.comment}, crossftp.New(""))
			require.NoError(t, err)
			assert.Equal(t, tt.want, b.Comment)
		})
	}
}

func TestNormalizeMovesPasswordToSecretStore(t *testing.T) {
	n, secrets, _ := newNormalizer(t, "en")
	raw := &importer.RawRecord{
		Host:     "files.example.net",
		Username: "bob",
		Password: "hunter2",
		Protocol: "8",
	}

	b, err := n.Normalize(context.Background(), raw, crossftp.New(""))
	require.NoError(t, err)

	assert.Empty(t, raw.Password)
	assert.Empty(t, b.Credentials.Password)
	require.Len(t, secrets.calls, 1)
	assert.Equal(t, putCall{"https", 443, "files.example.net", "bob", "hunter2"}, secrets.calls[0])
}

func TestNormalizeBlankPasswordIsNotStored(t *testing.T) {
	n, secrets, _ := newNormalizer(t, "en")
	_, err := n.Normalize(context.Background(), &importer.RawRecord{Host: "h", Password: "  "}, crossftp.New(""))
	require.NoError(t, err)
	assert.Empty(t, secrets.calls)
}

func TestNormalizeNilRecord(t *testing.T) {
	n, _, warnings := newNormalizer(t, "en")
	b, err := n.Normalize(context.Background(), nil, crossftp.New(""))
	require.NoError(t, err)
	assert.Nil(t, b)
	assert.Equal(t, 1, warnings())
}
