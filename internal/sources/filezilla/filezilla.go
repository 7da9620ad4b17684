// Package filezilla reads the FileZilla site manager (sitemanager.xml).
//
// Unlike CrossFTP the values are child elements of Server:
//
//	<Server>
//	  <Host>ftp.example.net</Host>
//	  <Port>21</Port>
//	  <Protocol>0</Protocol>
//	  <User>alice</User>
//	  <Pass encoding="base64">c2VjcmV0</Pass>
//	  <Name>Work</Name>
//	</Server>
//
// Servers may be nested in any number of Folder elements.
package filezilla

import (
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/MrSnakeDoc/harbor/internal/domain"
	"github.com/MrSnakeDoc/harbor/internal/importer"
	"github.com/MrSnakeDoc/harbor/internal/markup"
	"github.com/MrSnakeDoc/harbor/internal/sources"
)

const (
	BundleID = "org.filezilla-project.filezilla"
	Name     = "FileZilla"

	// LocationKey is the preference naming the sitemanager.xml path.
	LocationKey = "bookmark.import.filezilla.location"
)

// Codes maps the Protocol element.
var Codes = map[int]domain.Protocol{
	0: domain.ProtocolFTP,
	1: domain.ProtocolSFTP,
	3: domain.ProtocolFTPSImplicit,
	4: domain.ProtocolFTPS,
	6: domain.ProtocolFTP, // plain FTP only
}

// Record describes the Server element.
var Record = importer.RecordSpec{
	Boundary: "Server",
	Elements: map[string]importer.Rule{
		"Host":      {Field: importer.FieldHost},
		"Port":      {Field: importer.FieldPort},
		"Protocol":  {Field: importer.FieldProtocol},
		"User":      {Field: importer.FieldUsername},
		"Pass":      {Field: importer.FieldPassword, Decode: decodePass},
		"Name":      {Field: importer.FieldNickname},
		"Comments":  {Field: importer.FieldComment},
		"RemoteDir": {Field: importer.FieldPath},
	},
}

// New returns the FileZilla source reading location.
func New(location string) *sources.Format {
	return &sources.Format{
		ID:      BundleID,
		Title:   Name,
		Path:    location,
		Record:  Record,
		Default: domain.ProtocolFTP,
		Codes:   Codes,
	}
}

// decodePass handles the base64 encoding newer FileZilla versions use.
func decodePass(text string, attrs markup.Attributes) (string, error) {
	encoding, _ := attrs.Get("encoding")
	switch strings.ToLower(encoding) {
	case "":
		return text, nil
	case "base64":
		raw, err := base64.StdEncoding.DecodeString(text)
		if err != nil {
			return "", fmt.Errorf("invalid base64 password: %w", err)
		}
		return string(raw), nil
	default:
		// crypt: encrypted with the master password, nothing to recover
		return "", fmt.Errorf("unsupported password encoding %q", encoding)
	}
}
