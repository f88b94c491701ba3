package bot

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"social-service/internal/models"
)

// seqSource replays fixed sequences, making generated content deterministic.
type seqSource struct {
	floats []float64
	ints   []int
	fi, ii int
}

func (s *seqSource) Float64() float64 {
	if len(s.floats) == 0 {
		return 0
	}
	v := s.floats[s.fi%len(s.floats)]
	s.fi++
	return v
}

func (s *seqSource) Intn(n int) int {
	if len(s.ints) == 0 {
		return 0
	}
	v := s.ints[s.ii%len(s.ints)]
	s.ii++
	return v % n
}

func TestClassify(t *testing.T) {
	cases := []struct {
		content string
		want    bucket
	}{
		{"Hello there", bucketGreeting},
		{"hey", bucketGreeting},
		{"Good morning friends", bucketGreeting},
		{"thanks a lot", bucketThanks},
		{"I appreciate it", bucketThanks},
		{"does it work?", bucketQuestion},
		{"how does it run", bucketQuestion},
		{"I really enjoyed our conversation earlier", bucketGeneral},
		{"ok", bucketDefault},
		{"", bucketDefault},
		// Greetings win over the question mark.
		{"hi, can you tell me more?", bucketGreeting},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, classify(tc.content), "content=%q", tc.content)
	}
}

func TestResponsePoolsCoverEveryPersonalityAndBucket(t *testing.T) {
	buckets := []bucket{bucketGreeting, bucketThanks, bucketQuestion, bucketGeneral, bucketDefault}
	for _, p := range models.Personalities {
		pools, ok := responsePools[p]
		require.True(t, ok, "personality %s has no response pools", p)
		for _, b := range buckets {
			assert.NotEmpty(t, pools[b], "personality %s bucket %s is empty", p, b)
		}
		assert.NotEmpty(t, postTemplates[p], "personality %s has no post templates", p)
		assert.NotEmpty(t, proactiveMessages[p], "personality %s has no proactive messages", p)
	}
}

func TestPostUsesConfiguredTopicCategory(t *testing.T) {
	gen := NewGenerator(&seqSource{ints: []int{0}})
	b := models.Bot{Personality: models.PersonalityFriendly, Topics: models.StringList{"food"}}

	content, topic := gen.Post(b)

	assert.Contains(t, topicsByCategory["food"], topic)
	assert.Contains(t, content, topic)
	assert.NotContains(t, content, "{topic}")
}

func TestPostUnknownCategoryUsedVerbatim(t *testing.T) {
	gen := NewGenerator(&seqSource{ints: []int{0}})
	b := models.Bot{Personality: models.PersonalityAnalytical, Topics: models.StringList{"quantum knitting"}}

	content, topic := gen.Post(b)

	assert.Equal(t, "quantum knitting", topic)
	assert.Contains(t, content, "quantum knitting")
}

func TestPostWithoutTopicsDrawsFromAllCategories(t *testing.T) {
	gen := NewGenerator(&seqSource{ints: []int{2}})
	b := models.Bot{Personality: models.PersonalityFriendly}

	content, topic := gen.Post(b)

	found := false
	for _, topics := range topicsByCategory {
		for _, candidate := range topics {
			if candidate == topic {
				found = true
			}
		}
	}
	assert.True(t, found, "topic %q not drawn from the category table", topic)
	assert.Contains(t, content, topic)
}

func TestResponseMatchesBucketPool(t *testing.T) {
	gen := NewGenerator(&seqSource{ints: []int{1}})

	reply := gen.Response("hello!", models.PersonalityHumorous)
	assert.Contains(t, responsePools[models.PersonalityHumorous][bucketGreeting], reply)

	reply = gen.Response("why is the sky blue", models.PersonalityAnalytical)
	assert.Contains(t, responsePools[models.PersonalityAnalytical][bucketQuestion], reply)
}

func TestResponseUnknownPersonalityFallsBackToFriendly(t *testing.T) {
	gen := NewGenerator(&seqSource{ints: []int{0}})
	reply := gen.Response("hello", models.Personality("alien"))
	assert.Contains(t, responsePools[models.PersonalityFriendly][bucketGreeting], reply)
}

func TestProductStaysWithinBounds(t *testing.T) {
	gen := NewGenerator(&seqSource{floats: []float64{0.999}, ints: []int{3, 7, 1, 2, 4}})

	product := gen.Product(12)

	assert.Equal(t, 12, product.SellerID)
	assert.GreaterOrEqual(t, product.Price, 10.0)
	assert.LessOrEqual(t, product.Price, 500.0)
	assert.GreaterOrEqual(t, product.Stock, 1)
	assert.LessOrEqual(t, product.Stock, 10)
	assert.Contains(t, productConditions, product.Condition)
	assert.Contains(t, productCategories, product.Category)
	assert.Equal(t, "active", product.Status)
	assert.True(t, strings.Contains(product.Name, " "))
}

func TestBioMentionsInterests(t *testing.T) {
	gen := NewGenerator(&seqSource{})
	for _, p := range models.Personalities {
		bio := gen.Bio(p, []string{"chess", "hiking", "jazz", "origami"})
		assert.Contains(t, bio, "chess", "personality %s", p)
	}
}
