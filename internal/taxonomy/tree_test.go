// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package taxonomy

import (
	"math/rand/v2"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"recree/internal/models"
)

func sampleForest() []models.Topic {
	kpop := topic("kpop", nil, 1)
	drama := topic("drama", nil, 0)
	idols := topic("idols", &kpop, 2)
	venues := topic("venues", &kpop, 0)
	stages := topic("stages", &venues, 1)
	cafes := topic("cafes", &venues, 0)
	sets := topic("filming-sets", &drama, 0)
	return []models.Topic{stages, kpop, idols, cafes, drama, venues, sets}
}

func TestBuildTree_SortsEveryLevel(t *testing.T) {
	forest := BuildTree(sampleForest())

	require.Len(t, forest, 2)
	assert.Equal(t, []string{"drama", "kpop"}, names(forest))
	assert.Equal(t, []string{"filming-sets"}, names(forest[0].Children))
	assert.Equal(t, []string{"venues", "idols"}, names(forest[1].Children))
	assert.Equal(t, []string{"cafes", "stages"}, names(forest[1].Children[0].Children))
}

func TestBuildTree_RoundTripsThroughFlatten(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))

	for run := 0; run < 25; run++ {
		var flat []models.Topic
		for i := 0; i < 40; i++ {
			var parent *models.Topic
			if len(flat) > 0 && rng.IntN(3) > 0 {
				p := flat[rng.IntN(len(flat))]
				parent = &p
			}
			flat = append(flat, topic(uuid.NewString(), parent, rng.IntN(10)))
		}
		rng.Shuffle(len(flat), func(i, j int) { flat[i], flat[j] = flat[j], flat[i] })

		forest := BuildTree(flat)
		out := Flatten(forest)

		assert.ElementsMatch(t, ids(flat), ids(out), "every node exactly once")
		assertSiblingsSorted(t, forest)
	}
}

func assertSiblingsSorted(t *testing.T, nodes []models.Topic) {
	t.Helper()
	for i := 1; i < len(nodes); i++ {
		assert.LessOrEqual(t, nodes[i-1].SortOrder, nodes[i].SortOrder)
	}
	for _, n := range nodes {
		assertSiblingsSorted(t, n.Children)
	}
}

func TestBuildTree_OrphanBecomesRoot(t *testing.T) {
	ghost := topic("ghost", nil, 0)
	orphan := topic("orphan", &ghost, 3)
	root := topic("root", nil, 5)

	forest := BuildTree([]models.Topic{root, orphan})

	assert.Equal(t, []string{"orphan", "root"}, names(forest))
}

func TestBuildTree_CycleDoesNotLoseNodes(t *testing.T) {
	a := topic("a", nil, 0)
	b := topic("b", &a, 0)
	aid, bid := a.ID, b.ID
	a.ParentID = &bid
	b.ParentID = &aid
	root := topic("root", nil, 0)

	forest := BuildTree([]models.Topic{a, b, root})

	assert.ElementsMatch(t, []uuid.UUID{a.ID, b.ID, root.ID}, ids(Flatten(forest)))
}

func TestBuildTree_EmptyInput(t *testing.T) {
	assert.Empty(t, BuildTree(nil))
	assert.Empty(t, Flatten(nil))
}

func TestFind(t *testing.T) {
	forest := BuildTree(sampleForest())

	found, ok := Find(forest, func(n *models.Topic) bool { return n.Slug == "stages" })
	require.True(t, ok)
	assert.Equal(t, 2, found.Level)

	_, ok = Find(forest, func(n *models.Topic) bool { return n.Slug == "missing" })
	assert.False(t, ok)
}

func TestPrune_DropsInactiveSubtrees(t *testing.T) {
	flat := sampleForest()
	for i := range flat {
		if flat[i].NameEn == "venues" {
			flat[i].IsActive = false
		}
	}

	pruned := Prune(BuildTree(flat))

	assert.Equal(t, []string{"drama", "filming-sets", "kpop", "idols"}, names(Flatten(pruned)))
}
