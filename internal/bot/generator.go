package bot

import (
	"fmt"
	"math/rand"
	"sort"
	"strings"
	"sync"
	"time"

	"social-service/internal/models"
)

// Source is the randomness a Generator draws from. Tests substitute a fixed
// sequence to make generated content deterministic.
type Source interface {
	Float64() float64
	Intn(n int) int
}

// NewSource returns a time-seeded Source safe for concurrent use.
func NewSource() Source {
	return &lockedSource{rng: rand.New(rand.NewSource(time.Now().UnixNano()))}
}

type lockedSource struct {
	mu  sync.Mutex
	rng *rand.Rand
}

func (s *lockedSource) Float64() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.Float64()
}

func (s *lockedSource) Intn(n int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.Intn(n)
}

// Generator produces bot content from the template pools.
type Generator struct {
	src Source
}

// NewGenerator constructs a Generator over the given randomness source.
func NewGenerator(src Source) *Generator {
	return &Generator{src: src}
}

func (g *Generator) pick(options []string) string {
	return options[g.src.Intn(len(options))]
}

// Post renders a feed post for the bot: a topic drawn from the bot's
// configured topic categories (all categories when none are configured),
// spliced into a personality template.
func (g *Generator) Post(b models.Bot) (content, topic string) {
	categories := []string(b.Topics)
	if len(categories) == 0 {
		categories = make([]string, 0, len(topicsByCategory))
		for category := range topicsByCategory {
			categories = append(categories, category)
		}
		sort.Strings(categories)
	}
	category := categories[g.src.Intn(len(categories))]

	topic = category
	if specific, ok := topicsByCategory[category]; ok {
		topic = g.pick(specific)
	}

	templates, ok := postTemplates[b.Personality]
	if !ok {
		templates = postTemplates[models.PersonalityFriendly]
	}
	content = strings.ReplaceAll(g.pick(templates), "{topic}", topic)
	return content, topic
}

// Response picks a reply to an inbound message, matched to the message's
// classification bucket and the bot's personality.
func (g *Generator) Response(content string, p models.Personality) string {
	pools, ok := responsePools[p]
	if !ok {
		pools = responsePools[models.PersonalityFriendly]
	}
	return g.pick(pools[classify(content)])
}

// classify sorts an inbound message into a response bucket. Marker checks
// are ordered: greetings win over thanks, thanks over questions. Anything
// longer than three words reads as conversation; the rest gets the default
// opener.
func classify(content string) bucket {
	lower := strings.ToLower(strings.TrimSpace(content))
	switch {
	case containsAny(lower, greetingMarkers):
		return bucketGreeting
	case containsAny(lower, thanksMarkers):
		return bucketThanks
	case containsAny(lower, questionMarkers):
		return bucketQuestion
	case len(strings.Fields(lower)) > 3:
		return bucketGeneral
	default:
		return bucketDefault
	}
}

func containsAny(s string, markers []string) bool {
	for _, marker := range markers {
		if strings.Contains(s, marker) {
			return true
		}
	}
	return false
}

// Product invents a marketplace listing for the bot to sell.
func (g *Generator) Product(sellerID int) models.Product {
	name := g.pick(productAdjectives) + " " + g.pick(productNames)
	price := 10 + g.src.Float64()*490
	return models.Product{
		SellerID:    sellerID,
		Name:        name,
		Description: g.pick(productDescriptions),
		Price:       float64(int(price*100)) / 100,
		Stock:       1 + g.src.Intn(10),
		Condition:   g.pick(productConditions),
		Category:    g.pick(productCategories),
		Status:      "active",
	}
}

// ChatLine picks an ambient line for the bot lounge.
func (g *Generator) ChatLine() string {
	return g.pick(botChatLines)
}

// Proactive picks an unprompted conversation opener for the personality.
func (g *Generator) Proactive(p models.Personality) string {
	options, ok := proactiveMessages[p]
	if !ok {
		options = proactiveMessages[models.PersonalityFriendly]
	}
	return g.pick(options)
}

// Name invents a display name for a seeded bot account.
func (g *Generator) Name() string {
	return g.pick(botFirstNames) + " " + g.pick(botLastNames)
}

// Bio writes a profile bio matching the personality and interests.
func (g *Generator) Bio(p models.Personality, interests []string) string {
	first := func(n int) string {
		if len(interests) < n {
			n = len(interests)
		}
		return strings.Join(interests[:n], ", ")
	}
	switch p {
	case models.PersonalityFriendly:
		return fmt.Sprintf("Hey there! 👋 I love chatting about %s. Always happy to make new friends!", first(3))
	case models.PersonalityProfessional:
		return fmt.Sprintf("Professional with expertise in %s. Open to networking and knowledge sharing.", first(3))
	case models.PersonalityHumorous:
		return fmt.Sprintf("Life's too short to be serious! Let's talk about %s and laugh together! 😄", first(2))
	case models.PersonalityEducational:
		return fmt.Sprintf("Passionate educator sharing knowledge about %s. Learning never stops! 📚", first(3))
	case models.PersonalityEnthusiast:
		return fmt.Sprintf("SUPER passionate about %s! Let's geek out together! 🎉✨", first(2))
	case models.PersonalityCreative:
		return fmt.Sprintf("Creative soul exploring %s. Let's think outside the box! 🎨", first(3))
	case models.PersonalityAnalytical:
		return fmt.Sprintf("Data-driven thinker interested in %s. Facts over feelings. 📊", first(3))
	default:
		return fmt.Sprintf("Interested in %s", first(3))
	}
}
