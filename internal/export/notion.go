package export

import (
	"context"
	"time"

	"github.com/jomei/notionapi"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/discovery-cli/internal/model"
	"github.com/sells-group/discovery-cli/internal/store"
	"github.com/sells-group/discovery-cli/pkg/notion"
)

// NotionSync mirrors engagements into a Notion database, one page each.
type NotionSync struct {
	client notion.Client
	store  store.Store
	dbID   string
	now    func() time.Time
}

// NewNotionSync creates a syncer targeting the given database.
func NewNotionSync(client notion.Client, st store.Store, dbID string) *NotionSync {
	return &NotionSync{client: client, store: st, dbID: dbID, now: time.Now}
}

// Sync creates or updates the engagement's page and returns its ID. The
// narrative is written as page content only when the page is created.
func (s *NotionSync) Sync(ctx context.Context, engagementID string) (string, error) {
	return s.sync(ctx, engagementID, nil)
}

// sync looks pages up in index when given, otherwise queries Notion.
func (s *NotionSync) sync(ctx context.Context, engagementID string, index map[string]string) (string, error) {
	e, err := s.store.GetEngagement(ctx, engagementID)
	if err != nil {
		return "", eris.Wrap(err, "export: notion load engagement")
	}
	r, err := s.store.GetReport(ctx, engagementID)
	if err != nil && !eris.Is(err, store.ErrNotFound) {
		return "", eris.Wrap(err, "export: notion load report")
	}

	pageID := e.NotionPageID
	if pageID == "" && index != nil {
		pageID = index[e.ID]
	} else if pageID == "" {
		pageID, err = notion.FindEngagementPage(ctx, s.client, s.dbID, e.ID)
		if err != nil {
			return "", err
		}
	}

	props := s.properties(e, r)
	log := zap.L().With(zap.String("engagement_id", e.ID))

	if pageID != "" {
		if _, err := s.client.UpdatePage(ctx, pageID, &notionapi.PageUpdateRequest{Properties: props}); err != nil {
			return "", eris.Wrap(err, "export: notion update")
		}
		log.Debug("export: notion page updated", zap.String("page_id", pageID))
	} else {
		var blocks []notionapi.Block
		if r != nil && r.Narrative != "" {
			blocks = notion.MarkdownBlocks(r.Narrative)
		}
		chunks := notion.ChunkBlocks(blocks)

		req := &notionapi.PageCreateRequest{
			Parent: notionapi.Parent{
				Type:       notionapi.ParentTypeDatabaseID,
				DatabaseID: notionapi.DatabaseID(s.dbID),
			},
			Properties: props,
		}
		if len(chunks) > 0 {
			req.Children = chunks[0]
		}
		page, err := s.client.CreatePage(ctx, req)
		if err != nil {
			return "", eris.Wrap(err, "export: notion create")
		}
		pageID = string(page.ID)

		for _, chunk := range chunks[min(1, len(chunks)):] {
			if err := s.client.AppendBlocks(ctx, pageID, chunk); err != nil {
				return "", eris.Wrap(err, "export: notion append narrative")
			}
		}
		log.Info("export: notion page created", zap.String("page_id", pageID), zap.Int("blocks", len(blocks)))
	}

	if pageID != e.NotionPageID {
		if err := s.store.SetNotionPageID(ctx, e.ID, pageID); err != nil {
			return "", eris.Wrap(err, "export: notion save page id")
		}
	}
	return pageID, nil
}

// SyncAll syncs every engagement matching filter, stopping at the first
// error. Existing pages are indexed with one database scan up front. It
// returns the number of pages written.
func (s *NotionSync) SyncAll(ctx context.Context, filter model.EngagementFilter) (int, error) {
	engagements, err := s.store.ListEngagements(ctx, filter)
	if err != nil {
		return 0, eris.Wrap(err, "export: notion list engagements")
	}
	index, err := notion.EngagementPages(ctx, s.client, s.dbID)
	if err != nil {
		return 0, eris.Wrap(err, "export: notion index pages")
	}
	zap.L().Debug("export: notion pages indexed", zap.Int("pages", len(index)))
	n := 0
	for _, e := range engagements {
		if ctx.Err() != nil {
			return n, eris.Wrap(ctx.Err(), "export: notion sync cancelled")
		}
		if _, err := s.sync(ctx, e.ID, index); err != nil {
			return n, err
		}
		n++
	}
	return n, nil
}

func (s *NotionSync) properties(e *model.Engagement, r *model.Report) notionapi.Properties {
	title := e.Client.Name
	if title == "" {
		title = e.Client.Company
	}
	if title == "" {
		title = e.ID
	}

	props := notionapi.Properties{
		"Name":                      notion.Title(title),
		notion.EngagementIDProperty: notion.Text(e.ID),
		"Company":                   notion.Text(e.Client.Company),
		"Status":                    notion.Select(string(e.Status)),
		"Synced At":                 notion.Date(s.now().UTC()),
	}
	if r == nil {
		return props
	}

	primary := make([]string, len(r.Primary))
	for i, svc := range r.Primary {
		primary[i] = svc.Name
	}
	top := 0
	if len(r.Primary) > 0 {
		top = r.Primary[0].Score
	}

	props["Primary Services"] = notion.MultiSelect(primary...)
	props["Top Score"] = notion.Number(float64(top))
	props["Completeness"] = notion.Number(float64(r.Completeness.Score))
	props["Ready For Client"] = notion.Checkbox(r.Completeness.CanGenerateClientReport)
	props["Burnout"] = notion.Checkbox(r.Patterns.BurnoutDetected)
	props["Capital Raising"] = notion.Checkbox(r.Patterns.CapitalRaisingDetected)
	props["Lifestyle Transformation"] = notion.Checkbox(r.Patterns.LifestyleTransformationDetected)
	props["Urgency"] = notion.Number(r.UrgencyMultiplier)
	return props
}
