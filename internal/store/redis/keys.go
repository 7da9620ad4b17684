package redis

import (
	"fmt"
	"strings"
)

const (
	// KeyPrefixFact is the prefix for import facts (preferences)
	KeyPrefixFact = "harbor:fact:"
	// KeyPrefixSecret is the prefix for keychain entries
	KeyPrefixSecret = "harbor:secret:"
	// KeyPrefixBookmark is the prefix for bookmark keys
	KeyPrefixBookmark = "harbor:bookmark:"
	// KeyBookmarkOrder is the sorted set keeping bookmark insertion order
	KeyBookmarkOrder = "harbor:bookmarks:order"
)

// FactKey returns the Redis key for a fact such as "bookmark.import.com.crossftp"
func FactKey(name string) string {
	return KeyPrefixFact + name
}

// SecretKey returns the Redis key for the password of a login.
// Example: harbor:secret:ftp://alice@ftp.example.net:21
func SecretKey(scheme string, port int, hostname, username string) string {
	return fmt.Sprintf("%s%s://%s@%s:%d", KeyPrefixSecret, scheme, username, strings.ToLower(hostname), port)
}

// BookmarkKey returns the Redis key for a bookmark
func BookmarkKey(id string) string {
	return KeyPrefixBookmark + id
}

// BookmarkOrderKey returns the key of the insertion order set
func BookmarkOrderKey() string {
	return KeyBookmarkOrder
}
