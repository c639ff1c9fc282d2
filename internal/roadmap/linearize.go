package roadmap

import (
	"sort"

	"github.com/skillforge/skillforge-backend/internal/types"
)

// Linearize flattens a node graph into a stable display order. It is total:
// every stored node appears exactly once, whatever the link structure, and
// the same roadmap always yields the same order.
//
// Heads are nodes whose prev reference is empty or does not resolve to a
// node in this roadmap. If the graph has no head at all (a pure cycle),
// every node becomes a candidate so the walk still covers it. Candidates are
// walked in skill-name order following next links, skipping anything already
// emitted; nodes reachable from no head are appended afterwards, also in
// skill-name order.
func Linearize(nodes []types.RoadmapNode) []types.RoadmapNode {
	if len(nodes) == 0 {
		return []types.RoadmapNode{}
	}

	byID := make(map[string]types.RoadmapNode, len(nodes))
	for _, n := range nodes {
		byID[n.ID] = n
	}

	var heads []types.RoadmapNode
	for _, n := range nodes {
		if n.PrevNodeID == "" {
			heads = append(heads, n)
			continue
		}
		if _, ok := byID[n.PrevNodeID]; !ok {
			heads = append(heads, n)
		}
	}
	if len(heads) == 0 {
		heads = append(heads, nodes...)
	}
	sort.Slice(heads, func(i, j int) bool {
		if heads[i].SkillName != heads[j].SkillName {
			return heads[i].SkillName < heads[j].SkillName
		}
		return heads[i].ID < heads[j].ID
	})

	visited := make(map[string]struct{}, len(nodes))
	ordered := make([]types.RoadmapNode, 0, len(nodes))
	for _, head := range heads {
		cur, ok := byID[head.ID]
		for ok {
			if _, done := visited[cur.ID]; done {
				break
			}
			visited[cur.ID] = struct{}{}
			ordered = append(ordered, cur)
			if cur.NextNodeID == "" {
				break
			}
			cur, ok = byID[cur.NextNodeID]
		}
	}

	if len(ordered) < len(nodes) {
		var orphans []types.RoadmapNode
		for _, n := range nodes {
			if _, done := visited[n.ID]; !done {
				orphans = append(orphans, n)
			}
		}
		sort.Slice(orphans, func(i, j int) bool {
			if orphans[i].SkillName != orphans[j].SkillName {
				return orphans[i].SkillName < orphans[j].SkillName
			}
			return orphans[i].ID < orphans[j].ID
		})
		ordered = append(ordered, orphans...)
	}
	return ordered
}
