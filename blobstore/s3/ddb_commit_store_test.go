package s3

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"sync"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/hupe1980/lvqgo/blobstore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockDDBClient is an in-memory DynamoDB table keyed by base_uri and version.
type mockDDBClient struct {
	mu    sync.RWMutex
	items map[string]map[string]types.AttributeValue
}

func newMockDDBClient() *mockDDBClient {
	return &mockDDBClient{
		items: make(map[string]map[string]types.AttributeValue),
	}
}

func (m *mockDDBClient) PutItem(_ context.Context, params *dynamodb.PutItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	baseURI := params.Item["base_uri"].(*types.AttributeValueMemberS).Value
	version := params.Item["version"].(*types.AttributeValueMemberN).Value
	key := baseURI + ":" + version

	if aws.ToString(params.ConditionExpression) == "attribute_not_exists(version)" {
		if _, exists := m.items[key]; exists {
			return nil, &types.ConditionalCheckFailedException{Message: aws.String("condition failed")}
		}
	}

	m.items[key] = params.Item
	return &dynamodb.PutItemOutput{}, nil
}

func (m *mockDDBClient) Query(_ context.Context, params *dynamodb.QueryInput, _ ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	baseURI := params.ExpressionAttributeValues[":uri"].(*types.AttributeValueMemberS).Value

	var items []map[string]types.AttributeValue
	for _, item := range m.items {
		if item["base_uri"].(*types.AttributeValueMemberS).Value == baseURI {
			items = append(items, item)
		}
	}

	version := func(item map[string]types.AttributeValue) uint64 {
		v, _ := strconv.ParseUint(item["version"].(*types.AttributeValueMemberN).Value, 10, 64)
		return v
	}
	slices.SortFunc(items, func(a, b map[string]types.AttributeValue) int {
		va, vb := version(a), version(b)
		switch {
		case va > vb:
			return -1
		case va < vb:
			return 1
		default:
			return 0
		}
	})

	if params.Limit != nil && int(*params.Limit) < len(items) {
		items = items[:*params.Limit]
	}
	return &dynamodb.QueryOutput{Items: items}, nil
}

type failingDDB struct{ mockDDBClient }

func (f *failingDDB) Query(context.Context, *dynamodb.QueryInput, ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error) {
	return nil, errors.New("throttled")
}

func readCurrent(t *testing.T, s blobstore.Store) string {
	t.Helper()
	b, err := blobstore.ReadAll(context.Background(), s, CurrentName)
	require.NoError(t, err)
	return string(b)
}

func TestDDBCommitStore_FirstCommit(t *testing.T) {
	ctx := context.Background()
	store := NewDDBCommitStore(blobstore.NewMemoryStore(), newMockDDBClient(), "lvqgo-checkpoints", "s3://bucket/runs/")

	require.NoError(t, store.Put(ctx, CurrentName, []byte("ex1.cod.00000100")))
	assert.Equal(t, "ex1.cod.00000100", readCurrent(t, store))

	v, err := store.Version(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), v)
}

func TestDDBCommitStore_LatestWinsPastNine(t *testing.T) {
	ctx := context.Background()
	store := NewDDBCommitStore(blobstore.NewMemoryStore(), newMockDDBClient(), "t", "s3://bucket/runs/")

	for i := 1; i <= 12; i++ {
		require.NoError(t, store.Put(ctx, CurrentName, []byte(fmt.Sprintf("ex1.cod.%08d", i*100))))
	}
	assert.Equal(t, "ex1.cod.00001200", readCurrent(t, store))
}

func TestDDBCommitStore_ConcurrentCommits(t *testing.T) {
	ctx := context.Background()
	store := NewDDBCommitStore(blobstore.NewMemoryStore(), newMockDDBClient(), "t", "s3://bucket/runs/")
	require.NoError(t, store.Put(ctx, CurrentName, []byte("ex1.cod.00000001")))

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
	)
	for i := range 5 {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			err := store.Put(ctx, CurrentName, []byte(fmt.Sprintf("ex1.cod.%08d", id+2)))
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				successes++
			case errors.Is(err, ErrConcurrentModification):
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}(i)
	}
	wg.Wait()

	assert.Positive(t, successes)
	v, err := store.Version(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint64(1+successes), v)
}

func TestDDBCommitStore_NotFoundBeforeCommit(t *testing.T) {
	store := NewDDBCommitStore(blobstore.NewMemoryStore(), newMockDDBClient(), "t", "s3://bucket/runs/")

	_, err := store.Open(context.Background(), CurrentName)
	require.ErrorIs(t, err, blobstore.ErrNotFound)
}

func TestDDBCommitStore_IsolatedNamespaces(t *testing.T) {
	ctx := context.Background()
	ddb := newMockDDBClient()

	a := NewDDBCommitStore(blobstore.NewMemoryStore(), ddb, "t", "s3://bucket-a/run/")
	b := NewDDBCommitStore(blobstore.NewMemoryStore(), ddb, "t", "s3://bucket-b/run/")

	require.NoError(t, a.Put(ctx, CurrentName, []byte("A")))
	require.NoError(t, b.Put(ctx, CurrentName, []byte("B")))

	assert.Equal(t, "A", readCurrent(t, a))
	assert.Equal(t, "B", readCurrent(t, b))
}

func TestDDBCommitStore_DelegatesOtherBlobs(t *testing.T) {
	ctx := context.Background()
	inner := blobstore.NewMemoryStore()
	store := NewDDBCommitStore(inner, newMockDDBClient(), "t", "s3://bucket/runs/")

	require.NoError(t, store.Put(ctx, "ex1.cod", []byte("codes")))
	names, err := inner.List(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"ex1.cod"}, names)

	names, err = store.List(ctx, "ex1")
	require.NoError(t, err)
	assert.Equal(t, []string{"ex1.cod"}, names)

	require.NoError(t, store.Delete(ctx, "ex1.cod"))
	_, err = store.Open(ctx, "ex1.cod")
	assert.ErrorIs(t, err, blobstore.ErrNotFound)
}

func TestDDBCommitStore_QueryError(t *testing.T) {
	store := NewDDBCommitStore(blobstore.NewMemoryStore(), &failingDDB{}, "t", "s3://bucket/runs/")

	err := store.Put(context.Background(), CurrentName, []byte("x"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "throttled")
}
