// Package search is the S4 client surface over the external search backend:
// index lifecycle, bulk indexing, delete-by-query, and the versioned
// key-value auxiliary index used for refresh bookkeeping (§4.5, §6).
package search

import "github.com/location-microservice/geoingest/internal/domain"

// Document is the exact §6 JSON document shape emitted on bulk_index. Field
// names and nesting match the document schema the query service consumes;
// this package never reads a Document back.
type Document struct {
	ID          string         `json:"id"`
	Layer       string         `json:"layer"`
	SourceFile  string         `json:"source_file"`
	Version     int64          `json:"version"`
	CenterPoint LatLon         `json:"center_point"`
	Geometry    GeoJSON        `json:"geometry"`
	BoundingBox [4]float64     `json:"bounding_box"`
	Name        map[string]string `json:"name"`
	Parent      ParentDoc      `json:"parent"`
	Categories  []string       `json:"categories"`
	Importance  *float64       `json:"importance,omitempty"`
}

// LatLon is the document schema's center_point.
type LatLon struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// GeoJSON is the document schema's geometry field: a GeoJSON Point or
// LineString, coordinates in [lon, lat] order per the GeoJSON spec.
type GeoJSON struct {
	Type        string      `json:"type"`
	Coordinates interface{} `json:"coordinates"`
}

// AdminRefDoc is the denormalized {id, name} pair under parent.<level>.
type AdminRefDoc struct {
	ID   string            `json:"id"`
	Name map[string]string `json:"name"`
}

// ParentDoc is the §6 parent hierarchy, one optional field per admin level.
type ParentDoc struct {
	Country       *AdminRefDoc `json:"country,omitempty"`
	Region        *AdminRefDoc `json:"region,omitempty"`
	County        *AdminRefDoc `json:"county,omitempty"`
	Locality      *AdminRefDoc `json:"locality,omitempty"`
	LocalAdmin    *AdminRefDoc `json:"localadmin,omitempty"`
	Neighbourhood *AdminRefDoc `json:"neighbourhood,omitempty"`
}

// ToDocument renders a domain.Place into its §6 wire document.
func ToDocument(p domain.Place) Document {
	center := p.Geometry.Center()
	doc := Document{
		ID:          p.ID,
		Layer:       string(p.Layer),
		SourceFile:  p.SourceFile,
		Version:     p.Version,
		CenterPoint: LatLon{Lat: center[1], Lon: center[0]},
		BoundingBox: [4]float64{p.Geometry.Bound.Min[0], p.Geometry.Bound.Min[1], p.Geometry.Bound.Max[0], p.Geometry.Bound.Max[1]},
		Name:        map[string]string(p.Name),
		Parent:      parentDoc(p.Parent),
		Categories:  p.Categories,
		Importance:  p.Importance,
	}
	if p.Geometry.Type == domain.GeometryLineString {
		coords := make([][2]float64, len(p.Geometry.Line))
		for i, pt := range p.Geometry.Line {
			coords[i] = [2]float64{pt[0], pt[1]}
		}
		doc.Geometry = GeoJSON{Type: "LineString", Coordinates: coords}
	} else {
		doc.Geometry = GeoJSON{Type: "Point", Coordinates: [2]float64{p.Geometry.Point[0], p.Geometry.Point[1]}}
	}
	return doc
}

func parentDoc(h domain.AdminHierarchy) ParentDoc {
	return ParentDoc{
		Country:       refDoc(h.Country),
		Region:        refDoc(h.Region),
		County:        refDoc(h.County),
		Locality:      refDoc(h.Locality),
		LocalAdmin:    refDoc(h.LocalAdmin),
		Neighbourhood: refDoc(h.Neighbourhood),
	}
}

func refDoc(r *domain.AdminRef) *AdminRefDoc {
	if r == nil {
		return nil
	}
	return &AdminRefDoc{ID: r.ID, Name: map[string]string(r.Name)}
}
