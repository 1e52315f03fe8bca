package notion

import (
	"context"
	"fmt"
	"strings"

	"github.com/jomei/notionapi"
	"golang.org/x/oauth2"

	"github.com/custodia-labs/pagesync/internal/core/domain"
	"github.com/custodia-labs/pagesync/internal/core/ports/driven"
)

// Ensure Client implements the interface.
var _ driven.PageSource = (*Client)(nil)

const (
	// searchPageSize is the page size for workspace search pagination.
	searchPageSize = 100

	// maxBlockDepth bounds recursion into nested blocks when
	// extracting page content.
	maxBlockDepth = 3
)

// Client is the Notion implementation of driven.PageSource. Credentials
// arrive per call because every binding carries its own workspace-scoped
// token; the rate limiter is shared across all of them.
type Client struct {
	limiter *RateLimiter
}

// NewClient creates a new Notion page source.
func NewClient() *Client {
	return &Client{limiter: NewRateLimiter()}
}

// api builds a token-scoped API client. The token rides an oauth2
// static source so the transport matches what the OAuth flow hands out,
// and responses pass through the shared limiter so a 429's Retry-After
// delays every subsequent call.
func (c *Client) api(ctx context.Context, accessToken string) *notionapi.Client {
	httpClient := oauth2.NewClient(ctx, oauth2.StaticTokenSource(
		&oauth2.Token{AccessToken: accessToken},
	))
	httpClient.Transport = &throttleTransport{next: httpClient.Transport, limiter: c.limiter}
	return notionapi.NewClient(notionapi.Token(accessToken), notionapi.WithHTTPClient(httpClient))
}

// FetchWorkspacePages lists every page and database the integration has
// been granted access to, in the order the API returns them.
func (c *Client) FetchWorkspacePages(ctx context.Context, accessToken, _ string) ([]domain.Page, error) {
	if accessToken == "" {
		return nil, domain.ErrInvalidInput
	}
	api := c.api(ctx, accessToken)

	var pages []domain.Page
	var cursor notionapi.Cursor
	for {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		resp, err := api.Search.Do(ctx, &notionapi.SearchRequest{
			StartCursor: cursor,
			PageSize:    searchPageSize,
		})
		if err != nil {
			return nil, fmt.Errorf("searching workspace: %w", err)
		}

		for _, result := range resp.Results {
			switch obj := result.(type) {
			case *notionapi.Page:
				pages = append(pages, pageFromAPI(obj))
			case *notionapi.Database:
				pages = append(pages, databaseFromAPI(obj))
			}
		}

		if !resp.HasMore {
			break
		}
		cursor = resp.NextCursor
	}

	return pages, nil
}

// FetchPageContent retrieves the text content of one page or database.
func (c *Client) FetchPageContent(ctx context.Context, accessToken, _, pageID string, pageType domain.PageType) (string, error) {
	if accessToken == "" || pageID == "" {
		return "", domain.ErrInvalidInput
	}
	api := c.api(ctx, accessToken)

	switch pageType {
	case domain.PageTypeDatabase:
		return c.databaseContent(ctx, api, pageID)
	default:
		return c.blockContent(ctx, api, notionapi.BlockID(pageID), 0)
	}
}

// blockContent walks a block's children and flattens their rich text
// into lines. Nested blocks are followed up to maxBlockDepth.
func (c *Client) blockContent(ctx context.Context, api *notionapi.Client, blockID notionapi.BlockID, depth int) (string, error) {
	if depth > maxBlockDepth {
		return "", nil
	}

	var lines []string
	var cursor notionapi.Cursor
	for {
		if err := c.limiter.Wait(ctx); err != nil {
			return "", err
		}

		resp, err := api.Block.GetChildren(ctx, blockID, &notionapi.Pagination{
			StartCursor: cursor,
			PageSize:    searchPageSize,
		})
		if err != nil {
			return "", fmt.Errorf("fetching blocks: %w", err)
		}

		for _, block := range resp.Results {
			if text := blockText(block); text != "" {
				lines = append(lines, text)
			}
			if block.GetHasChildren() && block.GetType() != notionapi.BlockTypeChildPage {
				nested, err := c.blockContent(ctx, api, block.GetID(), depth+1)
				if err != nil {
					return "", err
				}
				if nested != "" {
					lines = append(lines, nested)
				}
			}
		}

		if !resp.HasMore {
			break
		}
		cursor = notionapi.Cursor(resp.NextCursor)
	}

	return strings.Join(lines, "\n"), nil
}

// databaseContent renders a database as one line per row title.
func (c *Client) databaseContent(ctx context.Context, api *notionapi.Client, databaseID string) (string, error) {
	var lines []string
	var cursor notionapi.Cursor
	for {
		if err := c.limiter.Wait(ctx); err != nil {
			return "", err
		}

		resp, err := api.Database.Query(ctx, notionapi.DatabaseID(databaseID), &notionapi.DatabaseQueryRequest{
			StartCursor: cursor,
			PageSize:    searchPageSize,
		})
		if err != nil {
			return "", fmt.Errorf("querying database: %w", err)
		}

		for i := range resp.Results {
			if title := pageTitle(&resp.Results[i]); title != "" {
				lines = append(lines, title)
			}
		}

		if !resp.HasMore {
			break
		}
		cursor = resp.NextCursor
	}

	return strings.Join(lines, "\n"), nil
}

// ==================== API Mapping ====================

// pageFromAPI maps an API page onto the domain model.
func pageFromAPI(page *notionapi.Page) domain.Page {
	return domain.Page{
		PageID:   string(page.ID),
		PageName: pageTitle(page),
		PageIcon: iconFromAPI(page.Icon),
		ParentID: parentID(page.Parent),
		Type:     domain.PageTypePage,
	}
}

// databaseFromAPI maps an API database onto the domain model.
func databaseFromAPI(db *notionapi.Database) domain.Page {
	return domain.Page{
		PageID:   string(db.ID),
		PageName: richTextPlain(db.Title),
		PageIcon: iconFromAPI(db.Icon),
		ParentID: parentID(db.Parent),
		Type:     domain.PageTypeDatabase,
	}
}

// pageTitle extracts the title property of a page.
func pageTitle(page *notionapi.Page) string {
	for _, prop := range page.Properties {
		title, ok := prop.(*notionapi.TitleProperty)
		if !ok {
			continue
		}
		return richTextPlain(title.Title)
	}
	return ""
}

// iconFromAPI maps an optional API icon onto the domain model.
func iconFromAPI(icon *notionapi.Icon) *domain.PageIcon {
	if icon == nil {
		return nil
	}
	switch icon.Type {
	case "emoji":
		if icon.Emoji != nil {
			return &domain.PageIcon{Type: domain.IconTypeEmoji, Emoji: string(*icon.Emoji)}
		}
	case "external":
		if icon.External != nil {
			return &domain.PageIcon{Type: domain.IconTypeURL, URL: icon.External.URL}
		}
	case "file":
		if icon.File != nil {
			return &domain.PageIcon{Type: domain.IconTypeURL, URL: icon.File.URL}
		}
	}
	return nil
}

// parentID extracts the parent page or database identifier. Top-level
// pages (workspace parent) have none.
func parentID(parent notionapi.Parent) string {
	switch parent.Type {
	case notionapi.ParentTypePageID:
		return string(parent.PageID)
	case notionapi.ParentTypeDatabaseID:
		return string(parent.DatabaseID)
	}
	return ""
}

// richTextPlain concatenates the plain-text runs of a rich text value.
func richTextPlain(richText []notionapi.RichText) string {
	var sb strings.Builder
	for _, rt := range richText {
		sb.WriteString(rt.PlainText)
	}
	return sb.String()
}

// blockText extracts the visible text of a single block.
func blockText(block notionapi.Block) string {
	switch b := block.(type) {
	case *notionapi.ParagraphBlock:
		return richTextPlain(b.Paragraph.RichText)
	case *notionapi.Heading1Block:
		return richTextPlain(b.Heading1.RichText)
	case *notionapi.Heading2Block:
		return richTextPlain(b.Heading2.RichText)
	case *notionapi.Heading3Block:
		return richTextPlain(b.Heading3.RichText)
	case *notionapi.BulletedListItemBlock:
		return richTextPlain(b.BulletedListItem.RichText)
	case *notionapi.NumberedListItemBlock:
		return richTextPlain(b.NumberedListItem.RichText)
	case *notionapi.ToDoBlock:
		return richTextPlain(b.ToDo.RichText)
	case *notionapi.ToggleBlock:
		return richTextPlain(b.Toggle.RichText)
	case *notionapi.QuoteBlock:
		return richTextPlain(b.Quote.RichText)
	case *notionapi.CalloutBlock:
		return richTextPlain(b.Callout.RichText)
	case *notionapi.CodeBlock:
		return richTextPlain(b.Code.RichText)
	case *notionapi.ChildPageBlock:
		return b.ChildPage.Title
	}
	return ""
}
