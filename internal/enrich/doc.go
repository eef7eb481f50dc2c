// Package enrich implements the §4.4 enricher: loading an importance CSV,
// batched lookups against an external labels service with backoff, an
// optional Redis-backed label cache in front of it, and the combinator that
// wires all three into a place's name bundle and importance score.
package enrich
