package sentiment

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVaderCompound(t *testing.T) {
	v := NewVader()

	assert.Greater(t, v.Compound("great product"), 0.05)
	assert.Less(t, v.Compound("terrible service"), -0.05)
	assert.Equal(t, 0.0, v.Compound(""))
	assert.Equal(t, 0.0, v.Compound("   "))

	for _, text := range []string{"great product", "terrible service", "the box is brown", "not bad at all"} {
		s := v.Compound(text)
		assert.GreaterOrEqual(t, s, -1.0, text)
		assert.LessOrEqual(t, s, 1.0, text)
	}
}

func TestVaderIsDeterministic(t *testing.T) {
	v := NewVader()
	assert.Equal(t, v.Compound("I love this, but the delivery was slow"), v.Compound("I love this, but the delivery was slow"))
}

func TestPlainText(t *testing.T) {
	assert.Equal(t, "great docs", PlainText("**great** [docs](https://example.com/x)"))
	assert.Equal(t, "see", PlainText("see https://example.com/page"))
	assert.Equal(t, "", PlainText(""))
	assert.Equal(t, "don't stop & go", PlainText("don't stop & go"))
}

func TestRemoveLinks(t *testing.T) {
	assert.Equal(t, "read the guide now", RemoveLinks("read [the guide](http://x.io/g) now"))
	assert.Equal(t, "visit  today", RemoveLinks("visit www.example.com today"))
}

func TestMarkupStrippingOption(t *testing.T) {
	plain := NewVader()
	stripped := NewVader(WithMarkupStripping())

	assert.Greater(t, stripped.Compound("**great** product"), 0.05)
	assert.Equal(t, 0.0, stripped.Compound("https://example.com/only-a-link"))
	assert.Equal(t, plain.Compound("great product"), stripped.Compound("great product"))
}
