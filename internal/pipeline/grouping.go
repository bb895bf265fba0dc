package pipeline

import "uiforge/internal/protocol"

// GroupByCategory collapses discovered elements into one group per
// category, in first-seen order. The representative is always the first
// instance encountered for its category; later sightings only append to
// Instances. One pass, O(n).
func GroupByCategory(records []protocol.ElementRecord) []ComponentGroup {
	groups := make([]ComponentGroup, 0, len(records))
	index := make(map[string]int, len(records))

	for _, rec := range records {
		i, seen := index[rec.Category]
		if !seen {
			index[rec.Category] = len(groups)
			groups = append(groups, ComponentGroup{
				Category:       rec.Category,
				Representative: rec,
				Instances:      []protocol.ElementRecord{rec},
			})
			continue
		}
		groups[i].Instances = append(groups[i].Instances, rec)
	}

	return groups
}
