package enrich

import (
	"context"

	"go.uber.org/zap"

	"github.com/location-microservice/geoingest/internal/domain"
)

// candidateLangs is the fixed set of languages checked in the label cache
// before falling back to the labels service — "default" plus the §3 name
// bundle fallback preference order.
var candidateLangs = append([]string{domain.DefaultKey}, domain.DefaultLangPreference...)

// Enricher combines importance scoring and optional label fetching/caching
// into the single operation S4 applies to a batch of places (§4.4).
type Enricher struct {
	importance ImportanceTable
	labels     *LabelsClient
	cache      *LabelCache
	log        *zap.Logger
}

func NewEnricher(importance ImportanceTable, labels *LabelsClient, cache *LabelCache, log *zap.Logger) *Enricher {
	return &Enricher{importance: importance, labels: labels, cache: cache, log: log}
}

// Enrich attaches importance and (if a labels client is configured)
// multilingual labels to each place with a wikidata tag, in place. Any
// enrichment failure leaves the affected place's name/importance untouched
// rather than propagating (§7: "enrichment failures ... recoverable").
func (e *Enricher) Enrich(ctx context.Context, places []domain.Place) {
	for i := range places {
		p := &places[i]
		if p.Wikidata == "" {
			continue
		}
		if e.importance != nil {
			p.Importance = e.importance.Lookup(p.Wikidata)
		}
	}

	if e.labels == nil {
		return
	}

	needFetch := make([]string, 0)
	seen := make(map[string]bool)
	cached := make(map[string]map[string]string)

	for _, p := range places {
		if p.Wikidata == "" || seen[p.Wikidata] {
			continue
		}
		seen[p.Wikidata] = true

		hits := make(map[string]string)
		complete := true
		for _, lang := range candidateLangs {
			if v, ok := e.cache.Get(ctx, p.Wikidata, lang); ok {
				hits[lang] = v
			} else {
				complete = false
			}
		}
		if len(hits) > 0 {
			cached[p.Wikidata] = hits
		}
		if !complete {
			needFetch = append(needFetch, p.Wikidata)
		}
	}

	var fetched map[string]map[string]string
	if len(needFetch) > 0 {
		fetched = e.labels.FetchAll(ctx, needFetch)
		for qid, byLang := range fetched {
			for lang, val := range byLang {
				e.cache.Set(ctx, qid, lang, val)
			}
		}
	}

	for i := range places {
		p := &places[i]
		if p.Wikidata == "" {
			continue
		}
		merged := domain.NameBundle{}
		for lang, val := range cached[p.Wikidata] {
			merged[lang] = val
		}
		for lang, val := range fetched[p.Wikidata] {
			merged[lang] = val
		}
		if len(merged) > 0 {
			p.Name.Merge(merged)
		}
	}
}
