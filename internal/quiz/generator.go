package quiz

import (
	"fmt"
	"math/rand"
	"sync"
	"time"

	"mahjong-quiz-service/internal/domain"

	"github.com/oklog/ulid/v2"
)

// HanStrategy draws the han count of a new quiz.
type HanStrategy interface {
	Han(rnd *rand.Rand) int
}

// UniformHan draws every han count in [1,13] with equal probability.
type UniformHan struct{}

func (UniformHan) Han(rnd *rand.Rand) int {
	return domain.MinHan + rnd.Intn(domain.MaxHan-domain.MinHan+1)
}

type hanWeight struct {
	han    int
	weight int
}

// lotteryWeights are percentages and sum to 100.
var lotteryWeights = []hanWeight{
	{1, 40}, {2, 30}, {3, 15}, {4, 5}, {5, 2},
	{6, 1}, {7, 1}, {8, 1}, {9, 1}, {10, 1}, {11, 1}, {12, 1}, {13, 1},
}

// LotteryHan favours the small hands that come up at the table.
type LotteryHan struct{}

func (LotteryHan) Han(rnd *rand.Rand) int {
	ticket := rnd.Intn(100)
	for _, w := range lotteryWeights {
		if ticket < w.weight {
			return w.han
		}
		ticket -= w.weight
	}
	return domain.MaxHan
}

// StrategyByName resolves the han strategy named in configuration.
func StrategyByName(name string) (HanStrategy, error) {
	switch name {
	case "", "lottery":
		return LotteryHan{}, nil
	case "uniform":
		return UniformHan{}, nil
	}
	return nil, fmt.Errorf("unknown han strategy %q", name)
}

// Generator produces random quizzes. It is safe for concurrent use.
type Generator struct {
	strategy HanStrategy

	mu  sync.Mutex
	rnd *rand.Rand
}

func NewGenerator(strategy HanStrategy, src rand.Source) *Generator {
	if strategy == nil {
		strategy = LotteryHan{}
	}
	if src == nil {
		src = rand.NewSource(time.Now().UnixNano())
	}
	return &Generator{strategy: strategy, rnd: rand.New(src)}
}

func (g *Generator) Generate() domain.Quiz {
	g.mu.Lock()
	defer g.mu.Unlock()

	q := domain.Quiz{
		ID:       ulid.Make().String(),
		IsDealer: g.rnd.Intn(2) == 1,
		Han:      g.strategy.Han(g.rnd),
		IsDraw:   g.rnd.Intn(2) == 1,
	}
	// 20 fu 1 han is not a winning hand and fails Validate.
	for q.Fu == 0 || (q.Fu == 20 && q.Han == 1) {
		q.Fu = (2 + g.rnd.Intn(10)) * 10
	}
	return q
}
