package storage

import (
	"fmt"
	"path/filepath"
	"strings"
)

const (
	Separator     = "/"
	DefaultPrefix = "backups/"

	cosEndpointFormat = "cos.%s.myqcloud.com"
)

// NormalizePrefix makes sure a non empty prefix ends with a separator, so
// "backups" becomes "backups/". A leading separator is part of the key and is
// kept: "/" stays "/".
func NormalizePrefix(prefix string) string {
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		return ""
	}
	if !strings.HasSuffix(prefix, Separator) {
		prefix += Separator
	}
	return prefix
}

// ObjectKey returns the destination key of localPath under prefix.
func ObjectKey(prefix, localPath string) string {
	return NormalizePrefix(prefix) + filepath.Base(localPath)
}

// IsDirMarker reports whether key is a zero length "folder" placeholder.
func IsDirMarker(key string) bool {
	return strings.HasSuffix(key, Separator)
}

// ResolveEndpoint returns the host to dial and whether to use TLS. An empty
// endpoint resolves to the regional COS domain.
func ResolveEndpoint(region, endpoint string) (host string, secure bool) {
	endpoint = strings.TrimSpace(endpoint)
	if endpoint == "" {
		return fmt.Sprintf(cosEndpointFormat, region), true
	}

	secure = true
	switch {
	case strings.HasPrefix(endpoint, "http://"):
		endpoint = strings.TrimPrefix(endpoint, "http://")
		secure = false
	case strings.HasPrefix(endpoint, "https://"):
		endpoint = strings.TrimPrefix(endpoint, "https://")
	}
	return strings.TrimRight(endpoint, Separator), secure
}
