package notion

import (
	"strings"

	"github.com/jomei/notionapi"
)

// MaxChildren is the most blocks Notion accepts in one append request.
const MaxChildren = 100

// MarkdownBlocks converts a markdown narrative into Notion blocks. Headings
// (#, ##, ###), bullets (- or *) and paragraphs are recognised; other syntax
// is passed through as plain text.
func MarkdownBlocks(md string) []notionapi.Block {
	var blocks []notionapi.Block
	var para []string

	flush := func() {
		if len(para) == 0 {
			return
		}
		blocks = append(blocks, paragraph(strings.Join(para, " ")))
		para = nil
	}

	for _, line := range strings.Split(md, "\n") {
		line = strings.TrimRight(line, " \t\r")
		trimmed := strings.TrimSpace(line)
		switch {
		case trimmed == "":
			flush()
		case strings.HasPrefix(trimmed, "### "):
			flush()
			blocks = append(blocks, heading(3, trimmed[4:]))
		case strings.HasPrefix(trimmed, "## "):
			flush()
			blocks = append(blocks, heading(2, trimmed[3:]))
		case strings.HasPrefix(trimmed, "# "):
			flush()
			blocks = append(blocks, heading(1, trimmed[2:]))
		case strings.HasPrefix(trimmed, "- "), strings.HasPrefix(trimmed, "* "):
			flush()
			blocks = append(blocks, bullet(trimmed[2:]))
		default:
			para = append(para, trimmed)
		}
	}
	flush()
	return blocks
}

// ChunkBlocks splits blocks into groups of at most MaxChildren.
func ChunkBlocks(blocks []notionapi.Block) [][]notionapi.Block {
	var out [][]notionapi.Block
	for len(blocks) > MaxChildren {
		out = append(out, blocks[:MaxChildren])
		blocks = blocks[MaxChildren:]
	}
	if len(blocks) > 0 {
		out = append(out, blocks)
	}
	return out
}

func paragraph(s string) notionapi.Block {
	return &notionapi.ParagraphBlock{
		BasicBlock: notionapi.BasicBlock{Object: notionapi.ObjectTypeBlock, Type: notionapi.BlockTypeParagraph},
		Paragraph:  notionapi.Paragraph{RichText: RichText(s)},
	}
}

func bullet(s string) notionapi.Block {
	return &notionapi.BulletedListItemBlock{
		BasicBlock:       notionapi.BasicBlock{Object: notionapi.ObjectTypeBlock, Type: notionapi.BlockTypeBulletedListItem},
		BulletedListItem: notionapi.ListItem{RichText: RichText(s)},
	}
}

func heading(level int, s string) notionapi.Block {
	h := notionapi.Heading{RichText: RichText(s)}
	switch level {
	case 1:
		return &notionapi.Heading1Block{
			BasicBlock: notionapi.BasicBlock{Object: notionapi.ObjectTypeBlock, Type: notionapi.BlockTypeHeading1},
			Heading1:   h,
		}
	case 2:
		return &notionapi.Heading2Block{
			BasicBlock: notionapi.BasicBlock{Object: notionapi.ObjectTypeBlock, Type: notionapi.BlockTypeHeading2},
			Heading2:   h,
		}
	default:
		return &notionapi.Heading3Block{
			BasicBlock: notionapi.BasicBlock{Object: notionapi.ObjectTypeBlock, Type: notionapi.BlockTypeHeading3},
			Heading3:   h,
		}
	}
}
