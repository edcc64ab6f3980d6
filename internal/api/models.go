package api

import (
	"time"

	"github.com/phrazzld/storefront-api/internal/store"
)

// MutationResponse is the uniform envelope of the mutation endpoints:
// {data, error} with error nil on success. Mutations never surface
// raised errors across the HTTP boundary.
type MutationResponse struct {
	Data  any     `json:"data"`
	Error *string `json:"error"`
}

// mutationOK is the successful mutation envelope.
func mutationOK() MutationResponse {
	return MutationResponse{}
}

// mutationFailed builds a failed mutation envelope with the given message.
func mutationFailed(message string) MutationResponse {
	return MutationResponse{Error: &message}
}

// StoreSummaryResponse is the response shape of the cached listings.
type StoreSummaryResponse struct {
	ID              string  `json:"id"`
	Name            string  `json:"name"`
	Description     string  `json:"description"`
	StripeAccountID *string `json:"stripe_account_id"`
}

// StoreRowResponse is one enriched row of a search response.
type StoreRowResponse struct {
	ID              string    `json:"id"`
	UserID          string    `json:"user_id"`
	Name            string    `json:"name"`
	Description     string    `json:"description"`
	Slug            string    `json:"slug"`
	StripeAccountID *string   `json:"stripe_account_id"`
	CreatedAt       time.Time `json:"created_at"`
	ProductCount    int64     `json:"product_count"`
}

// SearchResponse is the response shape of the dynamic search endpoint.
type SearchResponse struct {
	Data      []StoreRowResponse `json:"data"`
	PageCount int                `json:"pageCount"`
}

// summariesToResponse converts summaries to their response shape.
func summariesToResponse(summaries []store.StoreSummary) []StoreSummaryResponse {
	out := make([]StoreSummaryResponse, 0, len(summaries))
	for _, s := range summaries {
		out = append(out, StoreSummaryResponse{
			ID:              s.ID.String(),
			Name:            s.Name,
			Description:     s.Description,
			StripeAccountID: s.StripeAccountID,
		})
	}
	return out
}

// rowToResponse converts one enriched row to its response shape.
func rowToResponse(row store.StoreRow) StoreRowResponse {
	return StoreRowResponse{
		ID:              row.ID.String(),
		UserID:          row.UserID.String(),
		Name:            row.Name,
		Description:     row.Description,
		Slug:            row.Slug,
		StripeAccountID: row.StripeAccountID,
		CreatedAt:       row.CreatedAt,
		ProductCount:    row.ProductCount,
	}
}

// rowsToResponse converts enriched search rows to their response shape.
func rowsToResponse(rows []store.StoreRow) []StoreRowResponse {
	out := make([]StoreRowResponse, 0, len(rows))
	for _, row := range rows {
		out = append(out, rowToResponse(row))
	}
	return out
}
