package game

import (
	"fmt"
	"math/rand"
	"strings"
)

// WordPair holds the civilians' word and the close-but-different word given to undercovers.
type WordPair struct {
	Civilian   string `json:"civilian" mapstructure:"civilian"`
	Undercover string `json:"undercover" mapstructure:"undercover"`
}

var defaultPairs = []WordPair{
	{Civilian: "Pomme", Undercover: "Orange"},
	{Civilian: "Chat", Undercover: "Chien"},
	{Civilian: "Voiture", Undercover: "Moto"},
	{Civilian: "Plage", Undercover: "Piscine"},
	{Civilian: "Café", Undercover: "Thé"},
	{Civilian: "Guitare", Undercover: "Violon"},
	{Civilian: "Soleil", Undercover: "Lune"},
	{Civilian: "Livre", Undercover: "Magazine"},
}

// Catalog is the read-only table word pairs are drawn from.
type Catalog struct {
	pairs []WordPair
}

func NewCatalog(pairs []WordPair) (*Catalog, error) {
	if len(pairs) == 0 {
		return nil, fmt.Errorf("word catalog is empty")
	}
	out := make([]WordPair, 0, len(pairs))
	for i, p := range pairs {
		p.Civilian = strings.TrimSpace(p.Civilian)
		p.Undercover = strings.TrimSpace(p.Undercover)
		if p.Civilian == "" || p.Undercover == "" {
			return nil, fmt.Errorf("word pair %d has an empty word", i)
		}
		if strings.EqualFold(p.Civilian, p.Undercover) {
			return nil, fmt.Errorf("word pair %d uses %q for both sides", i, p.Civilian)
		}
		out = append(out, p)
	}
	return &Catalog{pairs: out}, nil
}

func DefaultCatalog() *Catalog {
	return &Catalog{pairs: append([]WordPair(nil), defaultPairs...)}
}

func (c *Catalog) Len() int {
	return len(c.pairs)
}

func (c *Catalog) Pairs() []WordPair {
	return append([]WordPair(nil), c.pairs...)
}

// Pick selects a pair uniformly at random.
func (c *Catalog) Pick(rng *rand.Rand) WordPair {
	return c.pairs[rng.Intn(len(c.pairs))]
}
