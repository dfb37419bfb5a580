package quiz

import (
	"math/rand"
	"testing"

	"mahjong-quiz-service/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateStaysInDomain(t *testing.T) {
	for _, strategy := range []HanStrategy{UniformHan{}, LotteryHan{}} {
		gen := NewGenerator(strategy, rand.NewSource(42))
		for i := 0; i < 2000; i++ {
			q := gen.Generate()
			require.NoError(t, q.Validate())
			assert.Zero(t, q.Fu%10)
			assert.False(t, q.Fu == 20 && q.Han == 1, "20 fu 1 han generated")
			assert.NotEmpty(t, q.ID)
		}
	}
}

func TestGenerateCoversEveryFuAndSeat(t *testing.T) {
	gen := NewGenerator(UniformHan{}, rand.NewSource(7))
	fus := map[int]bool{}
	seats := map[[2]bool]bool{}
	for i := 0; i < 2000; i++ {
		q := gen.Generate()
		fus[q.Fu] = true
		seats[[2]bool{q.IsDealer, q.IsDraw}] = true
	}
	assert.Len(t, fus, 10)
	assert.Len(t, seats, 4)
}

func TestLotteryWeights(t *testing.T) {
	total := 0
	for _, w := range lotteryWeights {
		total += w.weight
	}
	assert.Equal(t, 100, total)

	rnd := rand.New(rand.NewSource(1))
	counts := map[int]int{}
	const draws = 20000
	for i := 0; i < draws; i++ {
		han := LotteryHan{}.Han(rnd)
		require.GreaterOrEqual(t, han, domain.MinHan)
		require.LessOrEqual(t, han, domain.MaxHan)
		counts[han]++
	}
	assert.InDelta(t, 0.40, float64(counts[1])/draws, 0.03)
	assert.InDelta(t, 0.30, float64(counts[2])/draws, 0.03)
	assert.Greater(t, counts[1], counts[13])
}

func TestStrategyByName(t *testing.T) {
	s, err := StrategyByName("uniform")
	require.NoError(t, err)
	assert.IsType(t, UniformHan{}, s)

	s, err = StrategyByName("")
	require.NoError(t, err)
	assert.IsType(t, LotteryHan{}, s)

	_, err = StrategyByName("loaded")
	assert.Error(t, err)
}
