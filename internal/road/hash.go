package road

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/cespare/xxhash/v2"
)

// stableID renders the §3/§9 merged-road id: a 64-bit xxhash digest of the
// canonical byte sequence (lower-case name, highway class, ascending
// comma-joined way ids) as 16 lowercase hex characters. Sorting the way ids
// before hashing makes the id independent of bucket/adjacency-graph
// iteration order.
func stableID(name, highwayClass string, wayIDs []int64) string {
	sorted := append([]int64(nil), wayIDs...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	idStrs := make([]string, len(sorted))
	for i, id := range sorted {
		idStrs[i] = strconv.FormatInt(id, 10)
	}

	canonical := strings.ToLower(name) + "|" + highwayClass + "|" + strings.Join(idStrs, ",")
	sum := xxhash.Sum64String(canonical)
	return fmt.Sprintf("road/%016x", sum)
}
