// Package osmsource wraps paulmach/osm/osmpbf decoding behind the small
// surface the ingest pipeline actually needs: typed node/way/relation
// records and the tag-extraction helpers every stage builds on.
package osmsource

import "github.com/paulmach/osm"

// Node is a decoded OSM node.
type Node struct {
	ID   int64
	Lat  float64
	Lon  float64
	Tags Tags
}

// WayNode is a single node reference inside a way, kept in order.
type WayNode struct {
	ID int64
}

// Way is a decoded OSM way.
type Way struct {
	ID    int64
	Nodes []WayNode
	Tags  Tags
}

// FirstNode and LastNode are the endpoint node ids used for adjacency and
// ring-stitching; a way with no nodes has neither, and a single-node way
// reports that node as both.
func (w *Way) FirstNode() (int64, bool) {
	if len(w.Nodes) == 0 {
		return 0, false
	}
	return w.Nodes[0].ID, true
}

func (w *Way) LastNode() (int64, bool) {
	if len(w.Nodes) == 0 {
		return 0, false
	}
	return w.Nodes[len(w.Nodes)-1].ID, true
}

// MemberRole is the role of a relation member, as written in the PBF.
type MemberRole string

const (
	RoleOuter MemberRole = "outer"
	RoleInner MemberRole = "inner"
)

// MemberType distinguishes what kind of entity a relation member refers to.
type MemberType string

const (
	MemberNode     MemberType = "node"
	MemberWay      MemberType = "way"
	MemberRelation MemberType = "relation"
)

// Member is one reference inside a relation.
type Member struct {
	Type MemberType
	Ref  int64
	Role MemberRole
}

// Relation is a decoded OSM relation.
type Relation struct {
	ID      int64
	Members []Member
	Tags    Tags
}

func nodeFrom(n *osm.Node) Node {
	return Node{ID: int64(n.ID), Lat: n.Lat, Lon: n.Lon, Tags: tagsFrom(n.Tags)}
}

func wayFrom(w *osm.Way) Way {
	nodes := make([]WayNode, len(w.Nodes))
	for i, wn := range w.Nodes {
		nodes[i] = WayNode{ID: int64(wn.ID)}
	}
	return Way{ID: int64(w.ID), Nodes: nodes, Tags: tagsFrom(w.Tags)}
}

func relationFrom(r *osm.Relation) Relation {
	members := make([]Member, 0, len(r.Members))
	for _, m := range r.Members {
		mt := MemberNode
		switch m.Type {
		case osm.TypeWay:
			mt = MemberWay
		case osm.TypeRelation:
			mt = MemberRelation
		}
		members = append(members, Member{Type: mt, Ref: m.Ref, Role: MemberRole(m.Role)})
	}
	return Relation{ID: int64(r.ID), Members: members, Tags: tagsFrom(r.Tags)}
}
