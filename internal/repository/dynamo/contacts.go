package dynamo

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/google/uuid"

	appconfig "github.com/conselheirocristao/newsletter/internal/config"
	"github.com/conselheirocristao/newsletter/internal/domain"
)

const (
	pkPrefix  = "CONTACT#"
	skProfile = "PROFILE"
)

// ContactRepository provides DynamoDB operations for the contact store.
// It satisfies contacts.Repository and reconcile.ContactStore.
type ContactRepository struct {
	db         *dynamodb.Client
	table      string
	emailIndex string
}

// NewContactRepository creates a repository against the configured table.
func NewContactRepository(ctx context.Context, cfg appconfig.StorageConfig) (*ContactRepository, error) {
	var awsCfg aws.Config
	var err error

	if profile := cfg.GetAWSProfile(); profile != "" {
		awsCfg, err = awsconfig.LoadDefaultConfig(ctx,
			awsconfig.WithRegion(cfg.AWSRegion),
			awsconfig.WithSharedConfigProfile(profile),
		)
	} else {
		awsCfg, err = awsconfig.LoadDefaultConfig(ctx,
			awsconfig.WithRegion(cfg.AWSRegion),
		)
	}
	if err != nil {
		return nil, fmt.Errorf("loading AWS config: %w", err)
	}

	return &ContactRepository{
		db:         dynamodb.NewFromConfig(awsCfg),
		table:      cfg.ContactsTable,
		emailIndex: cfg.EmailIndex,
	}, nil
}

// contactItem is the stored shape of a contact.
type contactItem struct {
	PK        string    `dynamodbav:"PK"`
	SK        string    `dynamodbav:"SK"`
	ID        string    `dynamodbav:"id"`
	Name      string    `dynamodbav:"name"`
	Email     string    `dynamodbav:"email"`
	Source    string    `dynamodbav:"source"`
	CreatedAt time.Time `dynamodbav:"created_at"`
}

func (it contactItem) toDomain() domain.Contact {
	return domain.Contact{
		ID:        it.ID,
		Name:      it.Name,
		Email:     it.Email,
		Source:    it.Source,
		CreatedAt: it.CreatedAt,
	}
}

// Add persists a new contact, assigning its id and creation timestamp.
func (r *ContactRepository) Add(ctx context.Context, c *domain.Contact) (string, error) {
	id := uuid.New().String()
	item := contactItem{
		PK:        pkPrefix + id,
		SK:        skProfile,
		ID:        id,
		Name:      c.Name,
		Email:     c.Email,
		Source:    c.Source,
		CreatedAt: time.Now().UTC(),
	}

	av, err := attributevalue.MarshalMap(item)
	if err != nil {
		return "", fmt.Errorf("marshaling contact: %w", err)
	}

	_, err = r.db.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.table),
		Item:      av,
	})
	if err != nil {
		return "", fmt.Errorf("putting contact to DynamoDB: %w", err)
	}

	c.CreatedAt = item.CreatedAt
	return id, nil
}

// All returns every contact in scan order.
func (r *ContactRepository) All(ctx context.Context) ([]domain.Contact, error) {
	return r.scan(ctx, "", "")
}

// FindBySource returns every contact whose source matches exactly.
func (r *ContactRepository) FindBySource(ctx context.Context, source string) ([]domain.Contact, error) {
	return r.scan(ctx, "source", source)
}

// scan pages through the table, optionally filtering on one extra
// attribute. "name" and "source" are DynamoDB reserved words, hence the
// expression attribute names.
func (r *ContactRepository) scan(ctx context.Context, filterAttr, filterVal string) ([]domain.Contact, error) {
	filter := "begins_with(PK, :prefix)"
	names := map[string]string{}
	values := map[string]types.AttributeValue{
		":prefix": &types.AttributeValueMemberS{Value: pkPrefix},
	}
	if filterAttr != "" {
		filter += " AND #f = :fv"
		names["#f"] = filterAttr
		values[":fv"] = &types.AttributeValueMemberS{Value: filterVal}
	}

	input := &dynamodb.ScanInput{
		TableName:                 aws.String(r.table),
		FilterExpression:          aws.String(filter),
		ExpressionAttributeValues: values,
	}
	if len(names) > 0 {
		input.ExpressionAttributeNames = names
	}

	var contacts []domain.Contact
	for {
		result, err := r.db.Scan(ctx, input)
		if err != nil {
			return nil, fmt.Errorf("scanning contacts: %w", err)
		}

		var items []contactItem
		if err := attributevalue.UnmarshalListOfMaps(result.Items, &items); err != nil {
			return nil, fmt.Errorf("unmarshaling contacts: %w", err)
		}
		for _, it := range items {
			contacts = append(contacts, it.toDomain())
		}

		if result.LastEvaluatedKey == nil {
			break
		}
		input.ExclusiveStartKey = result.LastEvaluatedKey
	}
	return contacts, nil
}

// FindByEmail queries the email GSI for every contact holding the address.
func (r *ContactRepository) FindByEmail(ctx context.Context, email string) ([]domain.Contact, error) {
	input := &dynamodb.QueryInput{
		TableName:              aws.String(r.table),
		IndexName:              aws.String(r.emailIndex),
		KeyConditionExpression: aws.String("email = :email"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":email": &types.AttributeValueMemberS{Value: email},
		},
	}

	var contacts []domain.Contact
	for {
		result, err := r.db.Query(ctx, input)
		if err != nil {
			return nil, fmt.Errorf("querying contacts by email: %w", err)
		}

		var items []contactItem
		if err := attributevalue.UnmarshalListOfMaps(result.Items, &items); err != nil {
			return nil, fmt.Errorf("unmarshaling contacts: %w", err)
		}
		for _, it := range items {
			contacts = append(contacts, it.toDomain())
		}

		if result.LastEvaluatedKey == nil {
			break
		}
		input.ExclusiveStartKey = result.LastEvaluatedKey
	}
	return contacts, nil
}

// Delete removes a contact by id. DynamoDB DeleteItem succeeds whether or
// not the item exists, which gives unsubscribe its idempotency.
func (r *ContactRepository) Delete(ctx context.Context, id string) error {
	_, err := r.db.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(r.table),
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: pkPrefix + id},
			"SK": &types.AttributeValueMemberS{Value: skProfile},
		},
	})
	if err != nil {
		return fmt.Errorf("deleting contact from DynamoDB: %w", err)
	}
	return nil
}
