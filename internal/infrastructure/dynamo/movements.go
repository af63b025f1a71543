package dynamo

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/go-banking-api/internal/domain"
)

// MovementRepo stores ledger movements for accounts and cards.
// PK: parent_id (account or card id), SK: movement_id. Movement ids are
// ULIDs, so a key-ordered query returns entries in creation order.
type MovementRepo struct {
	client    *dynamodb.Client
	tableName string
}

func NewMovementRepo(client *dynamodb.Client, tableName string) *MovementRepo {
	return &MovementRepo{client: client, tableName: tableName}
}

// epochAttr renders a date range bound the same way the unixtime-tagged
// attributes are stored, so Dynamo compares the two numerically.
func epochAttr(t time.Time) types.AttributeValue {
	return &types.AttributeValueMemberN{Value: strconv.FormatInt(t.Unix(), 10)}
}

func (r *MovementRepo) Put(ctx context.Context, m *domain.Movement) error {
	item, err := attributevalue.MarshalMap(m)
	if err != nil {
		return fmt.Errorf("marshal movement: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      item,
	})
	return err
}

// ListByParent returns the filtered movements of one account or card, newest
// first, along with the total matching count for pagination. Filtering is
// done server-side with a filter expression; paging is applied in memory
// because filtered Dynamo pages are not fixed-size.
func (r *MovementRepo) ListByParent(ctx context.Context, parentID string, f domain.MovementFilters) ([]domain.Movement, int, error) {
	input := &dynamodb.QueryInput{
		TableName:                 aws.String(r.tableName),
		KeyConditionExpression:    aws.String("parent_id = :p"),
		ExpressionAttributeValues: map[string]types.AttributeValue{":p": &types.AttributeValueMemberS{Value: parentID}},
		ScanIndexForward:          aws.Bool(false),
	}

	var conds []string
	names := map[string]string{}
	if f.Type != "" {
		conds = append(conds, "#t = :type")
		names["#t"] = "type"
		input.ExpressionAttributeValues[":type"] = &types.AttributeValueMemberS{Value: f.Type}
	}
	if f.FromDate != nil {
		conds = append(conds, "#d >= :from")
		names["#d"] = "date"
		input.ExpressionAttributeValues[":from"] = epochAttr(*f.FromDate)
	}
	if f.ToDate != nil {
		conds = append(conds, "#d <= :to")
		names["#d"] = "date"
		input.ExpressionAttributeValues[":to"] = epochAttr(*f.ToDate)
	}
	if f.Query != "" {
		conds = append(conds, "contains(description, :q)")
		input.ExpressionAttributeValues[":q"] = &types.AttributeValueMemberS{Value: f.Query}
	}
	if len(conds) > 0 {
		input.FilterExpression = aws.String(strings.Join(conds, " AND "))
	}
	if len(names) > 0 {
		input.ExpressionAttributeNames = names
	}

	var all []domain.Movement
	paginator := dynamodb.NewQueryPaginator(r.client, input)
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, 0, err
		}
		var ms []domain.Movement
		if err := attributevalue.UnmarshalListOfMaps(page.Items, &ms); err != nil {
			return nil, 0, err
		}
		all = append(all, ms...)
	}

	total := len(all)
	start := (f.Page - 1) * f.PageSize
	if start >= total {
		return []domain.Movement{}, total, nil
	}
	end := start + f.PageSize
	if end > total {
		end = total
	}
	return all[start:end], total, nil
}
