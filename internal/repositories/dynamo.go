package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/desertthunder/bsx/internal/models"
	"github.com/desertthunder/bsx/internal/shared"
)

// DynamoAPI is the subset of the DynamoDB client used by [DynamoStore].
type DynamoAPI interface {
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	DeleteItem(ctx context.Context, params *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error)
	Scan(ctx context.Context, params *dynamodb.ScanInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error)
}

// syncItem is the table row layout: partition key "key", JSON document in "value".
type syncItem struct {
	Key       string `dynamodbav:"key"`
	Value     string `dynamodbav:"value"`
	UpdatedAt string `dynamodbav:"updated_at"`
}

// DynamoStore implements [models.Store] on a DynamoDB table, standing in for the synced storage area.
type DynamoStore struct {
	client DynamoAPI
	table  string
}

// NewDynamoStore creates a [DynamoStore] over an existing client.
func NewDynamoStore(client DynamoAPI, table string) *DynamoStore {
	return &DynamoStore{client: client, table: table}
}

// NewDynamoStoreFromConfig loads the default AWS configuration and builds a [DynamoStore].
//
// A non-empty endpoint overrides the service endpoint, e.g. for dynamodb-local.
func NewDynamoStoreFromConfig(ctx context.Context, cfg shared.SyncConfig) (*DynamoStore, error) {
	var opts []func(*awsconfig.LoadOptions) error
	if cfg.Region != "" {
		opts = append(opts, awsconfig.WithRegion(cfg.Region))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := dynamodb.NewFromConfig(awsCfg, func(o *dynamodb.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	})

	return NewDynamoStore(client, cfg.Table), nil
}

func (s *DynamoStore) key(key string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"key": &types.AttributeValueMemberS{Value: key},
	}
}

// Get returns the value stored under key using a consistent read.
func (s *DynamoStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	out, err := s.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(s.table),
		Key:            s.key(key),
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return nil, false, fmt.Errorf("failed to get %s: %w", key, err)
	}
	if len(out.Item) == 0 {
		return nil, false, nil
	}

	var item syncItem
	if err := attributevalue.UnmarshalMap(out.Item, &item); err != nil {
		return nil, false, fmt.Errorf("%w: %s: %w", shared.ErrCorruptData, key, err)
	}
	return []byte(item.Value), true, nil
}

// All scans the whole table, following pagination.
func (s *DynamoStore) All(ctx context.Context) (map[string][]byte, error) {
	out := make(map[string][]byte)

	var startKey map[string]types.AttributeValue
	for {
		page, err := s.client.Scan(ctx, &dynamodb.ScanInput{
			TableName:         aws.String(s.table),
			ConsistentRead:    aws.Bool(true),
			ExclusiveStartKey: startKey,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to scan %s: %w", s.table, err)
		}

		var items []syncItem
		if err := attributevalue.UnmarshalListOfMaps(page.Items, &items); err != nil {
			return nil, fmt.Errorf("%w: %w", shared.ErrCorruptData, err)
		}
		for _, item := range items {
			out[item.Key] = []byte(item.Value)
		}

		if len(page.LastEvaluatedKey) == 0 {
			return out, nil
		}
		startKey = page.LastEvaluatedKey
	}
}

// Set writes the whole value for key.
func (s *DynamoStore) Set(ctx context.Context, key string, value []byte) error {
	item, err := attributevalue.MarshalMap(syncItem{
		Key:       key,
		Value:     string(value),
		UpdatedAt: time.Now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", key, err)
	}

	if _, err := s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(s.table),
		Item:      item,
	}); err != nil {
		return fmt.Errorf("failed to put %s: %w", key, err)
	}
	return nil
}

// Remove deletes each key. Deleting an absent key succeeds.
func (s *DynamoStore) Remove(ctx context.Context, keys ...string) error {
	for _, key := range keys {
		if _, err := s.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
			TableName: aws.String(s.table),
			Key:       s.key(key),
		}); err != nil {
			return fmt.Errorf("failed to delete %s: %w", key, err)
		}
	}
	return nil
}

var _ models.Store = (*DynamoStore)(nil)
