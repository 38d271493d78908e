package blocks

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate(t *testing.T) {
	img := Block{Kind: KindImage, Src: "/assets/images/a.jpg"}

	tests := []struct {
		name    string
		blocks  []Block
		wantErr bool
	}{
		{"flat leaves", []Block{Text("<p>a</p>"), Heading(2, "b")}, false},
		{"section with grid", []Block{Section(nil, Heading(2, "x"), Grid(nil, []Block{img}, []Block{Text("t")}))}, false},
		{"section in section", []Block{Section(nil, Section(nil, Text("x")))}, true},
		{"grid in grid cell", []Block{Grid(nil, []Block{Grid(nil, []Block{img})})}, true},
		{"section in grid cell", []Block{Section(nil, Grid(nil, []Block{Section(nil)}))}, true},
		{"leaf with children", []Block{{Kind: KindText, Children: []Block{img}}}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.blocks)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestOnlyImages(t *testing.T) {
	img := Block{Kind: KindImage}
	assert.True(t, OnlyImages([]Block{img, img}))
	assert.False(t, OnlyImages([]Block{img, Text("x")}))
	assert.False(t, OnlyImages(nil))
}

func TestSectionDropsEmptyStyle(t *testing.T) {
	assert.Nil(t, Section(&Style{}).Style)
	s := Section(&Style{Align: "center"})
	require.NotNil(t, s.Style)
	assert.Equal(t, "center", s.Style.Align)
}

func TestWalk_DepthFirstOrder(t *testing.T) {
	tree := []Block{
		Section(nil, Heading(2, "a"), Grid(nil, []Block{Heading(3, "b")}, []Block{Heading(3, "c")})),
		Heading(2, "d"),
	}
	var seen []string
	Walk(tree, func(b *Block) bool {
		if b.Kind == KindHeading {
			seen = append(seen, b.Title)
		}
		return true
	})
	assert.Equal(t, []string{"a", "b", "c", "d"}, seen)
}
