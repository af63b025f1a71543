package dynamo

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/go-banking-api/internal/domain"
)

// AuditRepo is the append-only audit trail store.
// PK: audit_id; GSI user_id-created_at-index orders a user's trail by time.
type AuditRepo struct {
	client    *dynamodb.Client
	tableName string
}

func NewAuditRepo(client *dynamodb.Client, tableName string) *AuditRepo {
	return &AuditRepo{client: client, tableName: tableName}
}

func (r *AuditRepo) Put(ctx context.Context, e *domain.AuditEntry) error {
	item, err := attributevalue.MarshalMap(e)
	if err != nil {
		return fmt.Errorf("marshal audit entry: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      item,
	})
	return err
}

// ListByUser returns a user's audit trail newest first. Date range filters
// apply on the GSI sort key; action/entity filters are expression filters.
func (r *AuditRepo) ListByUser(ctx context.Context, userID string, f domain.AuditFilters) ([]domain.AuditEntry, error) {
	keyCond := "user_id = :u"
	values := map[string]types.AttributeValue{
		":u": &types.AttributeValueMemberS{Value: userID},
	}
	if f.FromDate != nil && f.ToDate != nil {
		keyCond += " AND created_at BETWEEN :from AND :to"
		values[":from"] = epochAttr(*f.FromDate)
		values[":to"] = epochAttr(*f.ToDate)
	} else if f.FromDate != nil {
		keyCond += " AND created_at >= :from"
		values[":from"] = epochAttr(*f.FromDate)
	} else if f.ToDate != nil {
		keyCond += " AND created_at <= :to"
		values[":to"] = epochAttr(*f.ToDate)
	}

	input := &dynamodb.QueryInput{
		TableName:                 aws.String(r.tableName),
		IndexName:                 aws.String("user_id-created_at-index"),
		KeyConditionExpression:    aws.String(keyCond),
		ExpressionAttributeValues: values,
		ScanIndexForward:          aws.Bool(false),
	}
	var filter string
	if f.Action != "" {
		filter = "#a = :action"
		input.ExpressionAttributeNames = map[string]string{"#a": "action"}
		values[":action"] = &types.AttributeValueMemberS{Value: f.Action}
	}
	if f.Entity != "" {
		if filter != "" {
			filter += " AND "
		}
		filter += "entity = :entity"
		values[":entity"] = &types.AttributeValueMemberS{Value: f.Entity}
	}
	if filter != "" {
		input.FilterExpression = aws.String(filter)
	}

	var all []domain.AuditEntry
	paginator := dynamodb.NewQueryPaginator(r.client, input)
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, err
		}
		var entries []domain.AuditEntry
		if err := attributevalue.UnmarshalListOfMaps(page.Items, &entries); err != nil {
			return nil, err
		}
		all = append(all, entries...)
	}
	return all, nil
}
