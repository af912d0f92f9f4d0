package models

// Requests for market HTTP endpoints. Defined in domain for consistency and reuse.

type SnapshotRequest struct {
	Refresh bool `query:"refresh" json:"refresh"`
}

type SearchRequest struct {
	Query string `query:"q" json:"q" validate:"required,min=1,max=64"`
}

type AddWatchlistItemRequest struct {
	Symbol string `json:"symbol" validate:"required,min=1,max=16"`
	List   string `json:"list" validate:"required,min=1,max=64"`
}
