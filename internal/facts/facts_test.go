package facts

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRandom_ReturnsListedFact(t *testing.T) {
	p := Default()

	for i := 0; i < 50; i++ {
		assert.Contains(t, p.All(), p.Random())
	}
}

func TestRandom_Deterministic(t *testing.T) {
	list := []string{"a", "b", "c"}
	p1 := New(list, rand.New(rand.NewSource(7)))
	p2 := New(list, rand.New(rand.NewSource(7)))

	for i := 0; i < 10; i++ {
		assert.Equal(t, p1.Random(), p2.Random())
	}
}

func TestRandom_Empty(t *testing.T) {
	p := New(nil, nil)
	assert.Equal(t, "", p.Random())
}

func TestNew_CopiesInput(t *testing.T) {
	list := []string{"only"}
	p := New(list, nil)
	list[0] = "changed"

	assert.Equal(t, "only", p.Random())
}
