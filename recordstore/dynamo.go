package recordstore

import (
	"context"
	"fmt"

	"snowhub/models"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// DynamoStore is the durable record store implementation backed by DynamoDB.
type DynamoStore struct {
	client *dynamodb.Client
}

func NewDynamoStore(cfg aws.Config) *DynamoStore {
	return &DynamoStore{client: dynamodb.NewFromConfig(cfg)}
}

func attributeKey(key Key) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		models.AttrSiteUsername: &types.AttributeValueMemberS{Value: key.SiteUsername},
		models.AttrVideoID:      &types.AttributeValueMemberS{Value: key.VideoID},
	}
}

func (d *DynamoStore) Put(ctx context.Context, table string, item Item) error {
	av, err := attributevalue.MarshalMap(item)
	if err != nil {
		return fmt.Errorf("failed to marshal item for table %s: %w", table, err)
	}
	_, err = d.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(table),
		Item:      av,
	})
	if err != nil {
		return fmt.Errorf("failed to put item into table %s: %w", table, err)
	}
	return nil
}

func (d *DynamoStore) UpdateField(ctx context.Context, table string, key Key, field string, value interface{}) error {
	update := expression.Set(expression.Name(field), expression.Value(value))
	expr, err := expression.NewBuilder().WithUpdate(update).Build()
	if err != nil {
		return fmt.Errorf("failed to build update expression for %s: %w", field, err)
	}

	_, err = d.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(table),
		Key:                       attributeKey(key),
		UpdateExpression:          expr.Update(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
	})
	if err != nil {
		return fmt.Errorf("failed to update %s in table %s: %w", field, table, err)
	}
	return nil
}

func (d *DynamoStore) Get(ctx context.Context, table string, key Key) (Item, error) {
	keyCond := expression.Key(models.AttrSiteUsername).Equal(expression.Value(key.SiteUsername)).
		And(expression.Key(models.AttrVideoID).Equal(expression.Value(key.VideoID)))
	expr, err := expression.NewBuilder().WithKeyCondition(keyCond).Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build key condition: %w", err)
	}

	out, err := d.client.Query(ctx, &dynamodb.QueryInput{
		TableName:                 aws.String(table),
		KeyConditionExpression:    expr.KeyCondition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
		Limit:                     aws.Int32(1),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to query table %s: %w", table, err)
	}
	if len(out.Items) == 0 {
		return nil, ErrNotFound
	}

	var item Item
	if err := attributevalue.UnmarshalMap(out.Items[0], &item); err != nil {
		return nil, fmt.Errorf("failed to unmarshal item from table %s: %w", table, err)
	}
	return item, nil
}

func (d *DynamoStore) Scan(ctx context.Context, table string) ([]Item, error) {
	var items []Item
	paginator := dynamodb.NewScanPaginator(d.client, &dynamodb.ScanInput{
		TableName: aws.String(table),
	})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to scan table %s: %w", table, err)
		}
		var pageItems []Item
		if err := attributevalue.UnmarshalListOfMaps(page.Items, &pageItems); err != nil {
			return nil, fmt.Errorf("failed to unmarshal items from table %s: %w", table, err)
		}
		items = append(items, pageItems...)
	}
	return items, nil
}

func (d *DynamoStore) Delete(ctx context.Context, table string, key Key) error {
	_, err := d.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(table),
		Key:       attributeKey(key),
	})
	if err != nil {
		return fmt.Errorf("failed to delete item from table %s: %w", table, err)
	}
	return nil
}
