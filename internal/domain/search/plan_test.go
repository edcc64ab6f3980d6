package search

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolvePagination(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		page       int
		perPage    int
		wantErr    error
		wantLimit  int
		wantOffset int
	}{
		{name: "first page", page: 1, perPage: 10, wantLimit: 10, wantOffset: 0},
		{name: "third page", page: 3, perPage: 8, wantLimit: 8, wantOffset: 16},
		{name: "single row pages", page: 5, perPage: 1, wantLimit: 1, wantOffset: 4},
		{name: "zero page", page: 0, perPage: 10, wantErr: ErrInvalidPage},
		{name: "negative page", page: -2, perPage: 10, wantErr: ErrInvalidPage},
		{name: "zero per page", page: 1, perPage: 0, wantErr: ErrInvalidPerPage},
		{name: "negative per page", page: 1, perPage: -1, wantErr: ErrInvalidPerPage},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			plan, err := Resolve(Request{Page: tc.page, PerPage: tc.perPage})
			if tc.wantErr != nil {
				assert.Nil(t, plan)
				assert.ErrorIs(t, err, tc.wantErr)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tc.wantLimit, plan.Limit)
			assert.Equal(t, tc.wantOffset, plan.Offset)
		})
	}
}

func TestResolveSort(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		sort string
		want Order
	}{
		{name: "empty token", sort: "", want: DefaultOrder},
		{name: "name ascending", sort: "name.asc", want: Order{ColumnName, Ascending}},
		{name: "name descending", sort: "name.desc", want: Order{ColumnName, Descending}},
		{name: "created at ascending", sort: "createdAt.asc", want: Order{ColumnCreatedAt, Ascending}},
		{name: "synthetic stripe account", sort: "stripeAccountId.desc", want: Order{ColumnStripeAccount, Descending}},
		{name: "synthetic product count", sort: "productCount.desc", want: Order{ColumnProductCount, Descending}},
		{name: "slug", sort: "slug.asc", want: Order{ColumnSlug, Ascending}},
		{name: "description", sort: "description.desc", want: Order{ColumnDescription, Descending}},
		{name: "unknown field falls back", sort: "ownerSecrets.asc", want: DefaultOrder},
		{name: "injection attempt falls back", sort: "name; DROP TABLE stores--.asc", want: DefaultOrder},
		{name: "unknown direction falls back", sort: "name.sideways", want: DefaultOrder},
		{name: "missing direction falls back", sort: "name", want: DefaultOrder},
		{name: "uppercase direction falls back", sort: "name.ASC", want: DefaultOrder},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			plan, err := Resolve(Request{Page: 1, PerPage: 10, Sort: tc.sort})
			require.NoError(t, err, "sort tokens must never cause a resolution error")
			assert.Equal(t, tc.want, plan.Order)
		})
	}
}

func TestResolveStatuses(t *testing.T) {
	t.Parallel()

	active := StatusActive
	inactive := StatusInactive

	tests := []struct {
		name     string
		statuses string
		want     *Status
	}{
		{name: "empty", statuses: "", want: nil},
		{name: "active only", statuses: "active", want: &active},
		{name: "inactive only", statuses: "inactive", want: &inactive},
		{name: "both is a no-op", statuses: "active.inactive", want: nil},
		{name: "both reversed", statuses: "inactive.active", want: nil},
		{name: "unknown value ignored", statuses: "banana", want: nil},
		{name: "unknown alongside active", statuses: "banana.active", want: &active},
		{name: "duplicate active", statuses: "active.active", want: &active},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			plan, err := Resolve(Request{Page: 1, PerPage: 10, Statuses: tc.statuses})
			require.NoError(t, err)

			if tc.want == nil {
				assert.Nil(t, plan.Status)
				return
			}
			require.NotNil(t, plan.Status)
			assert.Equal(t, *tc.want, *plan.Status)
		})
	}
}

func TestResolveOwnerFilter(t *testing.T) {
	t.Parallel()

	ownerID := uuid.New()
	plan, err := Resolve(Request{Page: 1, PerPage: 10, OwnerID: ownerID})
	require.NoError(t, err)
	assert.Equal(t, ownerID, plan.OwnerID)

	plan, err = Resolve(Request{Page: 1, PerPage: 10})
	require.NoError(t, err)
	assert.Equal(t, uuid.Nil, plan.OwnerID, "absent owner filter resolves to the nil UUID")
}
