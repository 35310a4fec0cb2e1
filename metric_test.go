package billing_test

import (
	"context"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	billing "github.com/reoring/billing-go"
	"github.com/reoring/billing-go/core"
)

func metricJSON(id, status string) string {
	return fmt.Sprintf(`{
		"id": %q,
		"name": "API calls",
		"description": null,
		"item": {"id": "item_1", "name": "API calls"},
		"metadata": {"team": "core"},
		"status": %q
	}`, id, status)
}

func TestMetrics_Create(t *testing.T) {
	api := newFakeAPI(t)
	api.handle(http.MethodPost, "/v1/metrics", metricJSON("m_1", "active"))

	body := billing.NewMetricCreateParams("item_1", "API calls", "SELECT count(*) FROM events")
	m, err := api.client().Metrics.Create(context.Background(), body)
	require.NoError(t, err)
	require.JSONEq(t, `{"item_id":"item_1","name":"API calls","sql":"SELECT count(*) FROM events","description":null}`, api.last(t).Body)

	item, err := m.Item()
	require.NoError(t, err)
	itemName, err := item.Name()
	require.NoError(t, err)
	require.Equal(t, "API calls", itemName)
}

func TestMetrics_UpdateAndRetrieve(t *testing.T) {
	api := newFakeAPI(t)
	api.handle(http.MethodPut, "/v1/metrics/m_1", metricJSON("m_1", "archived"))
	api.handle(http.MethodGet, "/v1/metrics/m_1", metricJSON("m_1", "draft"))

	c := api.client()
	m, err := c.Metrics.Update(context.Background(), "m_1", billing.NewMetricUpdateParams().WithMetadata(core.NullOf[map[string]string]()))
	require.NoError(t, err)
	require.JSONEq(t, `{"metadata":null}`, api.last(t).Body)
	st, err := m.Status()
	require.NoError(t, err)
	require.True(t, st.Is(billing.MetricStatusArchived))

	m, err = c.Metrics.Retrieve(context.Background(), "m_1")
	require.NoError(t, err)
	st, err = m.Status()
	require.NoError(t, err)
	require.True(t, st.Is(billing.MetricStatusDraft))
}

func TestMetrics_ListAutoPaging(t *testing.T) {
	api := newFakeAPI(t)
	api.handleFunc(http.MethodGet, "/v1/metrics", func(r *http.Request) (int, string) {
		if r.URL.Query().Get("cursor") == "" {
			return http.StatusOK, pageJSON("p2", metricJSON("m_1", "active"))
		}
		return http.StatusOK, pageJSON("", metricJSON("m_2", "active"))
	})

	pager := api.client().Metrics.ListAutoPaging(nil)
	ctx := context.Background()
	var ids []string
	for pager.Next(ctx) {
		id, err := pager.Current().ID()
		require.NoError(t, err)
		ids = append(ids, id)
	}
	require.NoError(t, pager.Err())
	require.Equal(t, []string{"m_1", "m_2"}, ids)
	require.Equal(t, 1, pager.Index())
}
