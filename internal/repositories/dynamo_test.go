package repositories

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/desertthunder/bsx/internal/models"
)

// fakeDynamo keeps items in memory and pages scans one item at a time.
type fakeDynamo struct {
	mu      sync.Mutex
	items   map[string]map[string]types.AttributeValue
	putErr  error
	scanned int
}

func newFakeDynamo() *fakeDynamo {
	return &fakeDynamo{items: map[string]map[string]types.AttributeValue{}}
}

func keyOf(item map[string]types.AttributeValue) string {
	return item["key"].(*types.AttributeValueMemberS).Value
}

func (f *fakeDynamo) GetItem(ctx context.Context, in *dynamodb.GetItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return &dynamodb.GetItemOutput{Item: f.items[keyOf(in.Key)]}, nil
}

func (f *fakeDynamo) PutItem(ctx context.Context, in *dynamodb.PutItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.putErr != nil {
		return nil, f.putErr
	}
	f.items[keyOf(in.Item)] = in.Item
	return &dynamodb.PutItemOutput{}, nil
}

func (f *fakeDynamo) DeleteItem(ctx context.Context, in *dynamodb.DeleteItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.items, keyOf(in.Key))
	return &dynamodb.DeleteItemOutput{}, nil
}

func (f *fakeDynamo) Scan(ctx context.Context, in *dynamodb.ScanInput, _ ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.scanned++

	keys := make([]string, 0, len(f.items))
	for k := range f.items {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	start := 0
	if in.ExclusiveStartKey != nil {
		last := keyOf(in.ExclusiveStartKey)
		start = sort.SearchStrings(keys, last) + 1
	}
	if start >= len(keys) {
		return &dynamodb.ScanOutput{}, nil
	}

	item := f.items[keys[start]]
	out := &dynamodb.ScanOutput{Items: []map[string]types.AttributeValue{item}}
	if start+1 < len(keys) {
		out.LastEvaluatedKey = map[string]types.AttributeValue{"key": item["key"]}
	}
	return out, nil
}

func TestDynamoStore(t *testing.T) {
	ctx := context.Background()

	t.Run("Set Get Remove", func(t *testing.T) {
		store := NewDynamoStore(newFakeDynamo(), "bsx_sync")

		require.NoError(t, store.Set(ctx, models.KeyNewtab, []byte(`{"override":true}`)))

		raw, ok, err := store.Get(ctx, models.KeyNewtab)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.JSONEq(t, `{"override":true}`, string(raw))

		require.NoError(t, store.Remove(ctx, models.KeyNewtab, "absent"))
		_, ok, err = store.Get(ctx, models.KeyNewtab)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("All follows pagination", func(t *testing.T) {
		fake := newFakeDynamo()
		store := NewDynamoStore(fake, "bsx_sync")
		for _, key := range models.SectionNames {
			require.NoError(t, store.Set(ctx, key, []byte(`{}`)))
		}

		all, err := store.All(ctx)
		require.NoError(t, err)
		assert.Len(t, all, 3)
		assert.Equal(t, 3, fake.scanned)
	})

	t.Run("put failure is wrapped", func(t *testing.T) {
		fake := newFakeDynamo()
		fake.putErr = errors.New("throttled")
		store := NewDynamoStore(fake, "bsx_sync")

		err := store.Set(ctx, models.KeyAppearance, []byte(`{}`))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "appearance")
	})
}
