package generator

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/oaeproject/model-loader/internal/model"
	"github.com/oaeproject/model-loader/internal/sampler"
)

var nonAlphanumeric = regexp.MustCompile(`[^a-z0-9]+`)

const maxIDAttempts = 20

// newID returns an id of the form batch<N>-<seed words>-<0..1000> that is not yet used in b.
// If the random suffix keeps colliding an attempt counter is appended.
func newID(s *sampler.Sampler, b *model.Batch, seed ...string) string {
	prefix := fmt.Sprintf("batch%d-%s", b.Index, strings.ToLower(strings.Join(seed, "-")))
	for attempt := 0; ; attempt++ {
		id := fmt.Sprintf("%s-%d", prefix, s.Intn(1001))
		if attempt >= maxIDAttempts {
			id = fmt.Sprintf("%s-%d", id, attempt)
		}
		id = strings.Trim(nonAlphanumeric.ReplaceAllString(strings.ToLower(id), "-"), "-")
		if !b.HasID(id) {
			return id
		}
	}
}
