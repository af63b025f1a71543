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

// OTPRepo manages one-time-password challenges.
// PK: user_id, SK: purpose. Putting a challenge for an existing
// (user, purpose) pair overwrites it, superseding the previous code.
type OTPRepo struct {
	client    *dynamodb.Client
	tableName string
}

func NewOTPRepo(client *dynamodb.Client, tableName string) *OTPRepo {
	return &OTPRepo{client: client, tableName: tableName}
}

func (r *OTPRepo) Put(ctx context.Context, c *domain.OTPChallenge) error {
	item, err := attributevalue.MarshalMap(c)
	if err != nil {
		return fmt.Errorf("marshal otp challenge: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      item,
	})
	return err
}

// Consume atomically marks the challenge for (userID, purpose) as consumed
// and returns it so the caller can verify the supplied code against the
// stored hash. The conditional update guarantees that of any number of
// concurrent calls at most one observes success; an absent, expired, or
// already-consumed challenge fails with domain.ErrInvalidOTP.
func (r *OTPRepo) Consume(ctx context.Context, userID, purpose string) (*domain.OTPChallenge, error) {
	now := time.Now().Unix()
	out, err := r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:           aws.String(r.tableName),
		Key:                 compositeKey("user_id", userID, "purpose", purpose),
		ConditionExpression: aws.String("attribute_exists(user_id) AND consumed = :f AND expires_at > :now"),
		UpdateExpression:    aws.String("SET consumed = :t"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":f":   &types.AttributeValueMemberBOOL{Value: false},
			":t":   &types.AttributeValueMemberBOOL{Value: true},
			":now": &types.AttributeValueMemberN{Value: fmt.Sprintf("%d", now)},
		},
		ReturnValues: types.ReturnValueAllNew,
	})
	if err != nil {
		var ccf *types.ConditionalCheckFailedException
		if errors.As(err, &ccf) {
			return nil, fmt.Errorf("challenge not consumable: %w", domain.ErrInvalidOTP)
		}
		return nil, err
	}
	var c domain.OTPChallenge
	if err := attributevalue.UnmarshalMap(out.Attributes, &c); err != nil {
		return nil, err
	}
	return &c, nil
}
