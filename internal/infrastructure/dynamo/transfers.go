package dynamo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/go-banking-api/internal/domain"
)

// TransferRepo executes and records internal transfers.
type TransferRepo struct {
	client        *dynamodb.Client
	tableName     string
	accountsTable string
}

func NewTransferRepo(client *dynamodb.Client, tableName, accountsTable string) *TransferRepo {
	return &TransferRepo{client: client, tableName: tableName, accountsTable: accountsTable}
}

// ErrInsufficientFunds is returned when the source account balance cannot
// cover the transfer amount.
var ErrInsufficientFunds = errors.New("insufficient funds")

// ExecuteInternal debits the source account, credits the destination and
// records the transfer in one TransactWriteItems call. The debit leg carries
// a balance >= amount condition, so the whole transaction either commits or
// leaves no partial state. Concurrent transfers against the same source
// serialize on that condition.
func (r *TransferRepo) ExecuteInternal(ctx context.Context, t *domain.Transfer) error {
	item, err := attributevalue.MarshalMap(t)
	if err != nil {
		return fmt.Errorf("marshal transfer: %w", err)
	}
	amount := &types.AttributeValueMemberN{Value: fmt.Sprintf("%d", t.Amount)}
	now := &types.AttributeValueMemberS{Value: time.Now().UTC().Format(time.RFC3339)}
	active := &types.AttributeValueMemberS{Value: domain.AccountActive}

	_, err = r.client.TransactWriteItems(ctx, &dynamodb.TransactWriteItemsInput{
		TransactItems: []types.TransactWriteItem{
			{
				Update: &types.Update{
					TableName:           aws.String(r.accountsTable),
					Key:                 strKey("account_id", t.FromAccountID),
					ConditionExpression: aws.String("attribute_exists(account_id) AND #s = :active AND balance >= :a"),
					UpdateExpression:    aws.String("SET balance = balance - :a, updated_at = :now"),
					ExpressionAttributeNames: map[string]string{
						"#s": fieldStatus,
					},
					ExpressionAttributeValues: map[string]types.AttributeValue{
						":a": amount, ":now": now, ":active": active,
					},
				},
			},
			{
				Update: &types.Update{
					TableName:           aws.String(r.accountsTable),
					Key:                 strKey("account_id", t.ToAccountID),
					ConditionExpression: aws.String("attribute_exists(account_id) AND #s = :active"),
					UpdateExpression:    aws.String("SET balance = balance + :a, updated_at = :now"),
					ExpressionAttributeNames: map[string]string{
						"#s": fieldStatus,
					},
					ExpressionAttributeValues: map[string]types.AttributeValue{
						":a": amount, ":now": now, ":active": active,
					},
				},
			},
			{
				Put: &types.Put{
					TableName: aws.String(r.tableName),
					Item:      item,
				},
			},
		},
	})
	var canceled *types.TransactionCanceledException
	if errors.As(err, &canceled) {
		for i, reason := range canceled.CancellationReasons {
			if reason.Code != nil && *reason.Code == "ConditionalCheckFailed" {
				if i == 0 {
					return fmt.Errorf("debit rejected: %w", ErrInsufficientFunds)
				}
				return fmt.Errorf("destination account not available: %w", domain.ErrNotFound)
			}
		}
		return err
	}
	return err
}

func (r *TransferRepo) ListByUser(ctx context.Context, userID string) ([]domain.Transfer, error) {
	out, err := r.client.Query(ctx, &dynamodb.QueryInput{
		TableName:                 aws.String(r.tableName),
		IndexName:                 aws.String("user_id-index"),
		KeyConditionExpression:    aws.String("user_id = :v"),
		ExpressionAttributeValues: map[string]types.AttributeValue{":v": &types.AttributeValueMemberS{Value: userID}},
	})
	if err != nil {
		return nil, err
	}
	var transfers []domain.Transfer
	if err := attributevalue.UnmarshalListOfMaps(out.Items, &transfers); err != nil {
		return nil, err
	}
	return transfers, nil
}
