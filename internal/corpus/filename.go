package corpus

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
)

// Corpus files are named
//
//	<author>_<free text>_<link id>.<ext>
//
// The author token is everything before the first underscore and is only
// meaningful in the original-author partitions. The link id is the run of
// digits between the last underscore and the extension; files sharing a link
// id across partitions are variants of the same source passage. The link id
// is optional, the author token is not.
type FileName struct {
	Key         string
	AuthorToken string
	LinkID      int
	HasLinkID   bool
}

// ParseKey splits a corpus key into its author token and optional link id.
func ParseKey(key string) (FileName, error) {
	if key == "" || filepath.Base(key) != key {
		return FileName{}, fmt.Errorf("%w: %q", ErrMalformedKey, key)
	}

	stem := strings.TrimSuffix(key, filepath.Ext(key))
	parts := strings.Split(stem, "_")
	if len(parts) < 2 || parts[0] == "" {
		return FileName{}, fmt.Errorf("%w: %q has no author token", ErrMalformedKey, key)
	}

	fn := FileName{Key: key, AuthorToken: parts[0]}
	if id, ok := parseLinkID(parts[len(parts)-1]); ok {
		fn.LinkID = id
		fn.HasLinkID = true
	}
	return fn, nil
}

func parseLinkID(s string) (int, bool) {
	if s == "" {
		return 0, false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return 0, false
		}
	}
	id, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	return id, true
}
