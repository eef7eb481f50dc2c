package pipeline

import (
	"path/filepath"
	"strings"
)

// knownSuffixes are the osmium/shell-orchestration naming conventions the
// source sometimes appends before handing a file to this core (§9: "the
// source sometimes appears to treat source-file names with various suffix
// convention ... the spec mandates the canonical stem"). Longest first so
// "-filtered-admins" strips in one pass regardless of order.
var knownSuffixes = []string{"-filtered-admins", "-admins-filtered", "-filtered", "-admins"}

// CanonicalSourceFile normalizes a PBF path into the §3 source_file value:
// the basename with its extension(s) and any known pipeline suffix
// stripped. Normalization happens once, here, on write — never only on the
// refresh-delete path (§9).
func CanonicalSourceFile(path string) string {
	base := filepath.Base(path)
	for {
		ext := filepath.Ext(base)
		if ext == "" {
			break
		}
		base = strings.TrimSuffix(base, ext)
	}
	for _, suffix := range knownSuffixes {
		if strings.HasSuffix(base, suffix) {
			base = strings.TrimSuffix(base, suffix)
			break
		}
	}
	return base
}
