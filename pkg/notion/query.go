package notion

import (
	"context"
	"strings"

	"github.com/jomei/notionapi"
	"github.com/rotisserie/eris"
)

// EngagementIDProperty is the rich-text property that links a Notion page
// back to its engagement.
const EngagementIDProperty = "Engagement ID"

// QueryAll pages through a database query and returns every result.
func QueryAll(ctx context.Context, c Client, dbID string, filter notionapi.Filter) ([]notionapi.Page, error) {
	var all []notionapi.Page
	req := &notionapi.DatabaseQueryRequest{Filter: filter, PageSize: 100}
	for {
		resp, err := c.QueryDatabase(ctx, dbID, req)
		if err != nil {
			return nil, eris.Wrap(err, "notion: query all")
		}
		all = append(all, resp.Results...)
		if !resp.HasMore || resp.NextCursor == "" {
			return all, nil
		}
		req = &notionapi.DatabaseQueryRequest{Filter: filter, PageSize: 100, StartCursor: resp.NextCursor}
	}
}

// FindEngagementPage returns the ID of the page whose EngagementIDProperty
// equals engagementID, or "" when none exists.
func FindEngagementPage(ctx context.Context, c Client, dbID, engagementID string) (string, error) {
	resp, err := c.QueryDatabase(ctx, dbID, &notionapi.DatabaseQueryRequest{
		Filter: notionapi.PropertyFilter{
			Property: EngagementIDProperty,
			RichText: &notionapi.TextFilterCondition{Equals: engagementID},
		},
		PageSize: 1,
	})
	if err != nil {
		return "", eris.Wrapf(err, "notion: find engagement %s", engagementID)
	}
	if len(resp.Results) == 0 {
		return "", nil
	}
	return string(resp.Results[0].ID), nil
}

// EngagementPages indexes every page in the database by its
// EngagementIDProperty. Pages without the property are skipped.
func EngagementPages(ctx context.Context, c Client, dbID string) (map[string]string, error) {
	pages, err := QueryAll(ctx, c, dbID, nil)
	if err != nil {
		return nil, err
	}
	index := make(map[string]string, len(pages))
	for _, p := range pages {
		prop, ok := p.Properties[EngagementIDProperty].(*notionapi.RichTextProperty)
		if !ok {
			continue
		}
		var b strings.Builder
		for _, rt := range prop.RichText {
			b.WriteString(rt.PlainText)
		}
		if id := b.String(); id != "" {
			index[id] = string(p.ID)
		}
	}
	return index, nil
}
