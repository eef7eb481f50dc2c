// Package place implements the §4.3 place extractor (S3): it classifies
// OSM nodes and unmerged ways into layers, resolves a representative
// position, attaches the admin hierarchy via S1's index, and finalizes the
// merged-road records produced by S2 into the same Place shape.
package place
