package identity

import (
	"fmt"

	gslug "github.com/gosimple/slug"
)

// Slugify derives a URL-safe slug from a display name.
func Slugify(name string) string {
	return gslug.Make(name)
}

// NextSlug returns base when free, otherwise the first "base-N" (N >= 2)
// not present in taken.
func NextSlug(base string, taken []string) string {
	used := make(map[string]struct{}, len(taken))
	for _, s := range taken {
		used[s] = struct{}{}
	}

	if _, ok := used[base]; !ok {
		return base
	}

	for i := 2; ; i++ {
		candidate := fmt.Sprintf("%s-%d", base, i)
		if _, ok := used[candidate]; !ok {
			return candidate
		}
	}
}
