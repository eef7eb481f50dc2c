// Package road implements the §4.2 road merger (S2): it buckets eligible
// named highway ways by (name, class), unions adjacent ways sharing an
// endpoint into single polylines, and assigns each merged road a stable id.
package road
