// Package grouping partitions a flat story feed into one ring per user.
package grouping

import "github.com/craftfolio/story-engine/internal/domain"

// Group partitions items by owner, preserving each owner's relative order
// from the source sequence. Items owned by selfID are excluded: the
// viewer's own ring is rendered through a separate path and must not show
// up twice. The input is never mutated.
func Group(items []domain.StoryItem, selfID string) []domain.StoryGroup {
	index := make(map[string]int)
	groups := make([]domain.StoryGroup, 0)

	for _, item := range items {
		if item.OwnerID == "" || item.OwnerID == selfID {
			continue
		}

		i, ok := index[item.OwnerID]
		if !ok {
			i = len(groups)
			index[item.OwnerID] = i
			groups = append(groups, domain.StoryGroup{OwnerID: item.OwnerID})
		}
		groups[i].Items = append(groups[i].Items, item)
	}

	return groups
}

// Find returns the group owned by ownerID, or false when absent.
func Find(groups []domain.StoryGroup, ownerID string) (domain.StoryGroup, bool) {
	for _, g := range groups {
		if g.OwnerID == ownerID {
			return g, true
		}
	}
	return domain.StoryGroup{}, false
}
