package notion

import (
	"testing"

	"github.com/jomei/notionapi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarkdownBlocks(t *testing.T) {
	md := "# Discovery Report\n\n## Where You Are Now\nYou work long hours.\nMost weeks.\n\n- Hire a manager\n* Fix the numbers\n### Close\nThanks."

	blocks := MarkdownBlocks(md)
	require.Len(t, blocks, 7)

	assert.Equal(t, notionapi.BlockTypeHeading1, blocks[0].GetType())
	h2, ok := blocks[1].(*notionapi.Heading2Block)
	require.True(t, ok)
	assert.Equal(t, "Where You Are Now", h2.Heading2.RichText[0].Text.Content)

	p, ok := blocks[2].(*notionapi.ParagraphBlock)
	require.True(t, ok)
	assert.Equal(t, "You work long hours. Most weeks.", p.Paragraph.RichText[0].Text.Content)

	assert.Equal(t, notionapi.BlockTypeBulletedListItem, blocks[3].GetType())
	assert.Equal(t, notionapi.BlockTypeBulletedListItem, blocks[4].GetType())
	assert.Equal(t, notionapi.BlockTypeHeading3, blocks[5].GetType())
	assert.Equal(t, notionapi.BlockTypeParagraph, blocks[6].GetType())
}

func TestMarkdownBlocks_Empty(t *testing.T) {
	assert.Empty(t, MarkdownBlocks(""))
	assert.Empty(t, MarkdownBlocks("\n\n  \n"))
}

func TestChunkBlocks(t *testing.T) {
	blocks := make([]notionapi.Block, 0, 250)
	for range 250 {
		blocks = append(blocks, paragraph("x"))
	}
	chunks := ChunkBlocks(blocks)
	require.Len(t, chunks, 3)
	assert.Len(t, chunks[0], 100)
	assert.Len(t, chunks[1], 100)
	assert.Len(t, chunks[2], 50)

	assert.Empty(t, ChunkBlocks(nil))
}
