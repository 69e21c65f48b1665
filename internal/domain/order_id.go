package domain

import (
	"math/rand/v2"
	"regexp"
	"strconv"
	"strings"
	"time"
)

const DefaultOrderIDPrefix = "ORD"

var orderIDPattern = regexp.MustCompile(`^[A-Za-z]+\d{17}-\d{3}$`)

// ValidOrderID reports whether id has the prefix + stamp + "-" + 3 digit shape.
func ValidOrderID(id string) bool {
	return orderIDPattern.MatchString(id)
}

// OrderIDPrefix returns the leading letters of id, for example "ORD".
func OrderIDPrefix(id string) string {
	for i, r := range id {
		if !(r >= 'A' && r <= 'Z' || r >= 'a' && r <= 'z') {
			return id[:i]
		}
	}
	return id
}

// OrderIDGenerator builds human readable ids such as ORD20250102030405678-417.
// The ids are only practically unique; the store rejects duplicates.
type OrderIDGenerator struct {
	Prefix string
	Now    func() time.Time
	// Suffix returns a value in [100,999].
	Suffix func() int
}

func NewOrderIDGenerator(prefix string) *OrderIDGenerator {
	if prefix == "" {
		prefix = DefaultOrderIDPrefix
	}
	return &OrderIDGenerator{
		Prefix: prefix,
		Now:    time.Now,
		Suffix: func() int { return rand.IntN(900) + 100 },
	}
}

func (g *OrderIDGenerator) Next() string {
	stamp := g.Now().UTC().Format("20060102150405.000")
	stamp = strings.ReplaceAll(stamp, ".", "")
	n := g.Suffix()
	if n < 100 || n > 999 {
		n = 100 + ((n%900)+900)%900
	}
	return g.Prefix + stamp + "-" + strconv.Itoa(n)
}
