// Package crossftp reads the CrossFTP site manager (sites.xml).
//
// Every site is a single element carrying all data as attributes:
//
//	<site name="Work" hName="ftp.example.net" port="21" un="alice"
//	      ftpPType="1" path="/pub" comm="shared drop" wURL="https://example.net"/>
package crossftp

import (
	"github.com/MrSnakeDoc/harbor/internal/domain"
	"github.com/MrSnakeDoc/harbor/internal/importer"
	"github.com/MrSnakeDoc/harbor/internal/sources"
)

const (
	BundleID = "com.crossftp"
	Name     = "CrossFTP"

	// LocationKey is the preference naming the sites.xml path.
	LocationKey = "bookmark.import.crossftp.location"
)

// Codes maps the ftpPType attribute.
var Codes = map[int]domain.Protocol{
	1: domain.ProtocolFTP,
	2: domain.ProtocolFTPS,
	3: domain.ProtocolFTPS,
	4: domain.ProtocolFTPS,
	6: domain.ProtocolDAV,
	7: domain.ProtocolDAVS,
	8: domain.ProtocolS3,
	9: domain.ProtocolS3,
}

// Record describes the site element.
var Record = importer.RecordSpec{
	Boundary: "site",
	Attributes: map[string]importer.Field{
		"hName":    importer.FieldHost,
		"name":     importer.FieldNickname,
		"un":       importer.FieldUsername,
		"pw":       importer.FieldPassword,
		"wURL":     importer.FieldWebURL,
		"comm":     importer.FieldComment,
		"path":     importer.FieldPath,
		"ftpPType": importer.FieldProtocol,
		"port":     importer.FieldPort,
	},
}

// New returns the CrossFTP source reading location.
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
