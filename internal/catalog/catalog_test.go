package catalog

import (
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xavierca1/lead-insights/internal/entity"
)

func TestDefaultCatalog(t *testing.T) {
	c, err := Default()
	require.NoError(t, err)

	require.Len(t, c.Leads, 6)
	require.Len(t, c.DataSources, 6)

	assert.Equal(t, 79, entity.AverageScore(c.Leads))
	assert.Equal(t, 3, entity.CountAtLeast(c.Leads, entity.HighScoreThreshold))
	assert.Equal(t, 1, entity.CountBelow(c.Leads, entity.LowScoreThreshold))
	assert.False(t, entity.CanPreview(c.DataSources))

	john := c.Leads[0]
	assert.Equal(t, entity.StageInterest, john.StageInFunnel)
	assert.Equal(t, entity.ChannelEmail, john.PreferredChannel)
	require.NotNil(t, john.DynamicPrice)
	assert.Equal(t, 2499.0, *john.DynamicPrice)
	assert.Equal(t, "Python Fundamentals", john.RecommendedLearningPath[0])
	assert.True(t, strings.HasPrefix(john.DraftContent, "Hi John"))
}

func TestLoadRejectsInvalidStage(t *testing.T) {
	doc := `
leads:
  - id: "1"
    name: A
    phone: "1"
    email: a@example.com
    dateOfInteraction: "2024-01-01"
    stageInFunnel: negotiation
    courseInterestedIn: Go
`
	_, err := Load(strings.NewReader(doc))
	assert.ErrorIs(t, err, entity.ErrInvalidStage)
}

func TestLoadRejectsDuplicateIDs(t *testing.T) {
	doc := `
dataSources:
  - {id: "1", name: A, type: crm}
  - {id: "1", name: B, type: social}
`
	_, err := Load(strings.NewReader(doc))
	assert.ErrorContains(t, err, "duplicate id")
}

func TestLoadRejectsUnknownFields(t *testing.T) {
	_, err := Load(strings.NewReader("prospects: []\n"))
	assert.Error(t, err)
}

func TestLoadFileMissing(t *testing.T) {
	_, err := LoadFile("does-not-exist.yaml")
	assert.Error(t, err)
}

func TestStoreConnect(t *testing.T) {
	c, err := Default()
	require.NoError(t, err)
	store := NewStore(c)

	before := store.DataSources()

	after, changed := store.Connect("4")
	assert.True(t, changed)
	assert.True(t, after[3].Connected)
	assert.False(t, before[3].Connected, "earlier snapshot must not change")

	again, changed := store.Connect("4")
	assert.False(t, changed)
	assert.Equal(t, after, again)

	unknown, changed := store.Connect("99")
	assert.False(t, changed)
	assert.Equal(t, after, unknown)

	assert.False(t, c.DataSources[3].Connected, "seed catalog must not change")
}

func TestStoreConcurrentConnect(t *testing.T) {
	c, err := Default()
	require.NoError(t, err)
	store := NewStore(c)

	var wg sync.WaitGroup
	for _, d := range c.DataSources {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			store.Connect(id)
			_ = store.DataSources()
		}(d.ID)
	}
	wg.Wait()

	assert.Equal(t, len(c.DataSources), entity.CountConnected(store.DataSources()))
}

func TestStoreSnapshotsAreIsolated(t *testing.T) {
	c, err := Default()
	require.NoError(t, err)
	store := NewStore(c)

	snap, changed := store.Connect("1")
	require.True(t, changed)
	snap[0].Connected = false
	store.DataSources()[0].Connected = false
	assert.True(t, store.DataSources()[0].Connected, "a connected source must stay connected")

	leads := store.Leads()
	leads[0].StageInFunnel = "churned"
	*leads[1].ConversionScore = 999
	*leads[1].DynamicPrice = 1
	leads[1].RecommendedLearningPath[0] = "changed"

	fresh := store.Leads()
	assert.Equal(t, entity.StageInterest, fresh[0].StageInFunnel)
	assert.Equal(t, 92, fresh[1].Score())
	assert.Equal(t, 1899.0, *fresh[1].DynamicPrice)
	assert.Equal(t, "HTML/CSS Fundamentals", fresh[1].RecommendedLearningPath[0])

	*c.Leads[0].ConversionScore = 1
	assert.Equal(t, 85, store.Leads()[0].Score(), "store must not share the seed catalog")
}
