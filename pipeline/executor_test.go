package pipeline

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/datareef/reef/ai/mock"
	"github.com/datareef/reef/errors"
	"github.com/datareef/reef/ingest"
	"github.com/datareef/reef/rules"
	"github.com/datareef/reef/walrus"
	"github.com/datareef/reef/walrus/walrustest"
)

func newTestExecutor(t *testing.T) (*Executor, *walrus.Client, *walrustest.Store) {
	t.Helper()
	store := walrustest.NewStore()
	t.Cleanup(store.Close)

	client := walrus.NewClient(walrus.Config{
		PublisherURL:  store.URL(),
		AggregatorURL: store.URL(),
	})
	engine := rules.NewEngine(mock.NewClient())
	return NewExecutor(client, engine, 1), client, store
}

// Full round trip: ingest a dataset, store a ruleset, execute, and
// verify the stored result against the returned hash.
func TestExecuteEndToEnd(t *testing.T) {
	executor, client, _ := newTestExecutor(t)
	ctx := context.Background()

	uploader := ingest.NewUploader(client, 1)
	upload, err := uploader.Upload(ctx, "player_id,spend,sessions\n1,100,50\n2,500,100\n3,1000,200", nil)
	require.NoError(t, err)
	require.True(t, upload.Accepted())

	rulesetBlob, err := client.StoreJSON(ctx, &rules.Ruleset{
		Name:   "Whale Detector",
		Prompt: "Identify whales (high spenders) in this data.",
	}, 1)
	require.NoError(t, err)

	result, err := executor.Execute(ctx, upload.BlobID, rulesetBlob.BlobID, rules.KindAI)
	require.NoError(t, err)

	assert.NotEmpty(t, result.ResultBlobID)
	assert.NotEqual(t, upload.BlobID, result.ResultBlobID)
	assert.Equal(t, 3, result.RowCount)
	assert.Contains(t, result.AggregatorURL, result.ResultBlobID)
	assert.Equal(t, "AI Analysis", result.Summary["type"])
	assert.Equal(t, "completed", result.Summary["status"])

	// The stored result verifies against the verification hash.
	ok, err := client.Verify(ctx, result.ResultBlobID, result.VerificationHash)
	require.NoError(t, err)
	assert.True(t, ok)

	// And the record itself is well formed.
	var record map[string]interface{}
	require.NoError(t, client.ReadJSON(ctx, result.ResultBlobID, &record))
	assert.Equal(t, "AI", record["rule_type"])
	assert.Equal(t, "Whale Detector", record["ruleset_name"])
	assert.Contains(t, record, "analysis")
	assert.Contains(t, record, "data_stats")
}

func TestExecuteSQLPlaceholder(t *testing.T) {
	executor, client, _ := newTestExecutor(t)
	ctx := context.Background()

	dataBlob, err := client.StoreJSON(ctx, []map[string]interface{}{
		{"a": 1}, {"a": 2},
	}, 1)
	require.NoError(t, err)

	rulesetBlob, err := client.StoreJSON(ctx, &rules.Ruleset{
		Name:  "Filter",
		Query: "SELECT * FROM data WHERE a > 1",
	}, 1)
	require.NoError(t, err)

	result, err := executor.Execute(ctx, dataBlob.BlobID, rulesetBlob.BlobID, rules.KindSQL)
	require.NoError(t, err)
	assert.Equal(t, "pending_implementation", result.Summary["status"])
	assert.Equal(t, "SQL", result.Summary["type"])
}

func TestExecuteMissingDataBlob(t *testing.T) {
	executor, client, _ := newTestExecutor(t)
	ctx := context.Background()

	rulesetBlob, err := client.StoreJSON(ctx, &rules.Ruleset{Prompt: "x"}, 1)
	require.NoError(t, err)

	_, err = executor.Execute(ctx, "missing-blob", rulesetBlob.BlobID, rules.KindAI)
	assert.Error(t, err)
}

func TestExecuteInvalidKind(t *testing.T) {
	executor, client, _ := newTestExecutor(t)
	ctx := context.Background()

	dataBlob, err := client.StoreJSON(ctx, []map[string]interface{}{{"a": 1}}, 1)
	require.NoError(t, err)
	rulesetBlob, err := client.StoreJSON(ctx, &rules.Ruleset{}, 1)
	require.NoError(t, err)

	_, err = executor.Execute(ctx, dataBlob.BlobID, rulesetBlob.BlobID, rules.Kind(42))
	assert.True(t, errors.IsInvalidRuleKindError(err))
}
