package services

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"time"
)

const (
	orderNumberPrefix   = "DEMO"
	orderNumberAttempts = 10
	base36              = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"
)

// OrderNumberGenerator builds DEMO-<unix ms>-<6 base36 chars> numbers.
type OrderNumberGenerator struct {
	now    func() time.Time
	suffix func() string
}

func NewOrderNumberGenerator() *OrderNumberGenerator {
	return &OrderNumberGenerator{now: time.Now, suffix: randomSuffix}
}

func randomSuffix() string {
	var b strings.Builder
	for i := 0; i < 6; i++ {
		b.WriteByte(base36[rand.Intn(len(base36))])
	}
	return b.String()
}

func (g *OrderNumberGenerator) next() string {
	return fmt.Sprintf("%s-%d-%s", orderNumberPrefix, g.now().UnixMilli(), g.suffix())
}

// Generate returns a number that no stored order uses yet. The check and the
// later insert are not atomic; the unique index catches the rare race.
func (g *OrderNumberGenerator) Generate(ctx context.Context, exists func(context.Context, string) (bool, error)) (string, error) {
	for attempt := 0; attempt < orderNumberAttempts; attempt++ {
		candidate := g.next()
		taken, err := exists(ctx, candidate)
		if err != nil {
			return "", fmt.Errorf("check order number: %w", err)
		}
		if !taken {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("no unique order number after %d attempts", orderNumberAttempts)
}
