// Package admin implements the §4.1 admin assembler (S1): it turns OSM
// boundary relations into closed polygons and publishes an immutable,
// bbox-indexed point-in-polygon lookup over them.
package admin
