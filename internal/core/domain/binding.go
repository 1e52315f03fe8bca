package domain

import "time"

// Provider identifies an external content-source provider.
type Provider string

// Supported providers. The catalog iterates these in order when
// presenting integrations.
const (
	ProviderNotion Provider = "notion"
)

// Providers is the static list of configured providers, in presentation order.
var Providers = []Provider{ProviderNotion}

// ImportType returns the data source type tag stamped onto documents
// ingested from this provider (e.g. "notion_import").
func (p Provider) ImportType() string {
	return string(p) + "_import"
}

// IconType discriminates the kinds of page icon a provider can supply.
type IconType string

const (
	// IconTypeEmoji is an inline emoji icon.
	IconTypeEmoji IconType = "emoji"

	// IconTypeURL is an externally hosted image icon.
	IconTypeURL IconType = "url"
)

// PageIcon is an optional, polymorphic page icon. Exactly one of URL or
// Emoji is populated depending on Type.
type PageIcon struct {
	Type  IconType `json:"type"`
	URL   string   `json:"url,omitempty"`
	Emoji string   `json:"emoji,omitempty"`
}

// PageType discriminates importable units within a workspace.
type PageType string

const (
	// PageTypePage is a regular document page.
	PageTypePage PageType = "page"

	// PageTypeDatabase is a structured database page.
	PageTypeDatabase PageType = "database"
)

// Page represents one importable unit in an external workspace.
// Pages are owned by the binding's SourceInfo; they carry no import
// state of their own.
type Page struct {
	// PageID is the provider-assigned page identifier.
	PageID string `json:"page_id"`

	// PageName is the human-readable page title.
	PageName string `json:"page_name"`

	// PageIcon is the optional page icon. Nil when the page has none.
	PageIcon *PageIcon `json:"page_icon,omitempty"`

	// ParentID is the provider-assigned parent page identifier.
	// Empty for top-level pages.
	ParentID string `json:"parent_id,omitempty"`

	// Type identifies the kind of page (document or database).
	Type PageType `json:"type"`
}

// SourceInfo is the typed schema for a binding's workspace snapshot:
// workspace metadata plus the ordered page listing captured at
// authorization or refresh time.
type SourceInfo struct {
	// WorkspaceID is the provider-assigned workspace identifier.
	WorkspaceID string `json:"workspace_id"`

	// WorkspaceName is the human-readable workspace name.
	WorkspaceName string `json:"workspace_name"`

	// WorkspaceIcon is the workspace icon URL or emoji, if any.
	WorkspaceIcon string `json:"workspace_icon,omitempty"`

	// Pages is the ordered page listing for the workspace.
	Pages []Page `json:"pages"`
}

// Binding is a tenant's authorization record linking it to one external
// workspace under one provider. Bindings are created by the OAuth flow
// on successful authorization and start out enabled.
type Binding struct {
	// ID is the unique identifier for the binding.
	ID string

	// TenantID identifies the owning tenant.
	TenantID string

	// Provider identifies the content-source provider.
	Provider Provider

	// AccessToken is the opaque provider credential. Never exposed in
	// presentation views.
	AccessToken string

	// SourceInfo is the workspace snapshot for this binding.
	SourceInfo SourceInfo

	// Disabled marks the binding as switched off. Transitions are
	// explicit, via the lifecycle service only.
	Disabled bool

	// CreatedAt is when the binding was created.
	CreatedAt time.Time

	// UpdatedAt is when the binding was last modified.
	UpdatedAt time.Time
}

// ImportablePage is a page annotated with its reconciliation result.
// IsBound is derived at read time and never persisted.
type ImportablePage struct {
	Page

	// IsBound reports whether the page is already represented by an
	// enabled document in the target dataset.
	IsBound bool `json:"is_bound"`
}

// WorkspacePages is one workspace's annotated page listing, produced by
// the reconciler for presentation.
type WorkspacePages struct {
	WorkspaceID   string           `json:"workspace_id"`
	WorkspaceName string           `json:"workspace_name"`
	WorkspaceIcon string           `json:"workspace_icon,omitempty"`
	Pages         []ImportablePage `json:"pages"`
}

// IntegrationView describes one provider connection (or its absence)
// for a tenant. Unbound placeholders carry only the provider and the
// authorization link.
type IntegrationView struct {
	ID         string      `json:"id,omitempty"`
	Provider   Provider    `json:"provider"`
	IsBound    bool        `json:"is_bound"`
	Disabled   bool        `json:"disabled"`
	Link       string      `json:"link"`
	CreatedAt  time.Time   `json:"created_at,omitzero"`
	SourceInfo *SourceInfo `json:"source_info,omitempty"`
}
