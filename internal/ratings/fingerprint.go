package ratings

import (
	"fmt"
	"hash/crc32"
	"strconv"
	"strings"

	"github.com/jakekressley/Reel-Hot-Takes-api-v2/internal/scrape"
)

// Fingerprint hashes an ordered set of (title, rating) pairs into eight hex
// digits. It only has to be cheap and deterministic: equal page-1 content
// must produce equal fingerprints, and any content change should change it.
func Fingerprint(pairs []scrape.RatedFilm) string {
	parts := make([]string, len(pairs))
	for i, p := range pairs {
		parts[i] = p.Title + "::" + strconv.Itoa(p.Rating)
	}
	raw := strings.Join(parts, "|")
	return fmt.Sprintf("%08x", crc32.ChecksumIEEE([]byte(raw)))
}
