package grouping

import (
	"testing"

	"github.com/craftfolio/story-engine/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func story(id, owner string) domain.StoryItem {
	return domain.StoryItem{ID: id, OwnerID: owner, MediaKind: domain.MediaKindImage}
}

func TestGroup_PartitionsByOwnerInFirstAppearanceOrder(t *testing.T) {
	items := []domain.StoryItem{
		story("s1", "alice"),
		story("s2", "bob"),
		story("s3", "alice"),
		story("s4", "carol"),
		story("s5", "bob"),
	}

	groups := Group(items, "")

	require.Len(t, groups, 3)
	assert.Equal(t, "alice", groups[0].OwnerID)
	assert.Equal(t, "bob", groups[1].OwnerID)
	assert.Equal(t, "carol", groups[2].OwnerID)

	assert.Equal(t, []string{"s1", "s3"}, ids(groups[0].Items))
	assert.Equal(t, []string{"s2", "s5"}, ids(groups[1].Items))
	assert.Equal(t, []string{"s4"}, ids(groups[2].Items))
}

func TestGroup_SizesSumToInput(t *testing.T) {
	items := []domain.StoryItem{
		story("s1", "alice"),
		story("s2", "bob"),
		story("s3", "alice"),
		story("s4", "bob"),
		story("s5", "bob"),
	}

	groups := Group(items, "")

	total := 0
	for _, g := range groups {
		total += len(g.Items)
	}
	assert.Equal(t, len(items), total)
}

func TestGroup_ExcludesSelf(t *testing.T) {
	items := []domain.StoryItem{
		story("s1", "me"),
		story("s2", "bob"),
		story("s3", "me"),
	}

	groups := Group(items, "me")

	require.Len(t, groups, 1)
	assert.Equal(t, "bob", groups[0].OwnerID)
}

func TestGroup_SkipsMissingOwner(t *testing.T) {
	items := []domain.StoryItem{
		story("s1", ""),
		story("s2", "bob"),
	}

	groups := Group(items, "")

	require.Len(t, groups, 1)
	assert.Equal(t, "bob", groups[0].OwnerID)
}

func TestGroup_EmptyInput(t *testing.T) {
	assert.Empty(t, Group(nil, "me"))
	assert.Empty(t, Group([]domain.StoryItem{}, "me"))
}

func TestFind(t *testing.T) {
	groups := Group([]domain.StoryItem{story("s1", "alice"), story("s2", "bob")}, "")

	g, ok := Find(groups, "bob")
	require.True(t, ok)
	assert.Equal(t, []string{"s2"}, ids(g.Items))

	_, ok = Find(groups, "nobody")
	assert.False(t, ok)
}

func ids(items []domain.StoryItem) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, it.ID)
	}
	return out
}
