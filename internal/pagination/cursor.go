// Package pagination provides the stateless cursor codec and navigation
// control construction for paginated lists. Identical cursor plus unchanged
// underlying list always yields the identical page; there is no server-side
// session.
package pagination

import (
	"fmt"
	"strconv"
	"strings"
)

// Separator delimits the page index from the list identifier inside a
// cursor. List identifiers may legitimately contain the separator themselves
// (inventory lists are keyed "inv:<actor>"), which is why decoding splits on
// the rightmost occurrence, never the first.
const Separator = ":"

// Encode builds the opaque cursor for one page of a list. Cursors are stable
// across process restarts.
func Encode(listID string, page int) string {
	return listID + Separator + strconv.Itoa(page)
}

// Decode splits a cursor into its list identifier and page index. The final
// separator-delimited token is the page index; everything before it is the
// list identifier, even when the identifier embeds the separator.
func Decode(cursor string) (listID string, page int, err error) {
	i := strings.LastIndex(cursor, Separator)
	if i < 0 {
		return "", 0, fmt.Errorf("invalid cursor %q: missing separator", cursor)
	}
	listID = cursor[:i]
	if listID == "" {
		return "", 0, fmt.Errorf("invalid cursor %q: empty list id", cursor)
	}
	page, err = strconv.Atoi(cursor[i+1:])
	if err != nil {
		return "", 0, fmt.Errorf("invalid cursor %q: bad page index: %w", cursor, err)
	}
	if page < 0 {
		return "", 0, fmt.Errorf("invalid cursor %q: negative page index", cursor)
	}
	return listID, page, nil
}
