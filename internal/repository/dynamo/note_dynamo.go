// Package dynamo stores note metadata in a DynamoDB table keyed by
// CreatedAt (partition) and Name (sort).
package dynamo

import (
	"context"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/service/dynamodb"
	"github.com/aws/aws-sdk-go/service/dynamodb/dynamodbattribute"
	"github.com/aws/aws-sdk-go/service/dynamodb/dynamodbiface"
	"github.com/aws/aws-sdk-go/service/dynamodb/expression"
	"github.com/pkg/errors"

	"noteapi/internal/apperr"
	"noteapi/internal/model"
	"noteapi/internal/repository"
)

// noteItem is the attribute layout of a metadata item.
type noteItem struct {
	NoteID    string `dynamodbav:"NoteID"`
	Name      string `dynamodbav:"Name"`
	CreatedAt string `dynamodbav:"CreatedAt"`
	UpdatedAt string `dynamodbav:"UpdatedAt"`
}

func toItem(rec *model.NoteRecord) noteItem {
	return noteItem{
		NoteID:    rec.NoteID,
		Name:      rec.Name,
		CreatedAt: rec.CreatedAt,
		UpdatedAt: rec.UpdatedAt.UTC().Format(time.RFC3339Nano),
	}
}

func (it noteItem) record() model.NoteRecord {
	updated, _ := time.Parse(time.RFC3339Nano, it.UpdatedAt)
	return model.NoteRecord{
		NoteID:    it.NoteID,
		Name:      it.Name,
		CreatedAt: it.CreatedAt,
		UpdatedAt: updated.UTC(),
	}
}

// NoteDynamo implements repository.NoteRepository on DynamoDB.
type NoteDynamo struct {
	client dynamodbiface.DynamoDBAPI
	table  string
}

// NewNoteDynamo creates a repository over table.
func NewNoteDynamo(client dynamodbiface.DynamoDBAPI, table string) *NoteDynamo {
	return &NoteDynamo{client: client, table: table}
}

var _ repository.NoteRepository = (*NoteDynamo)(nil)

func keyOf(key model.NoteKey) map[string]*dynamodb.AttributeValue {
	return map[string]*dynamodb.AttributeValue{
		"CreatedAt": {S: aws.String(key.CreatedAt)},
		"Name":      {S: aws.String(key.Name)},
	}
}

// Put writes rec with PutItem. An item already stored under the same
// (CreatedAt, Name) is replaced.
func (r *NoteDynamo) Put(ctx context.Context, rec *model.NoteRecord) error {
	av, err := dynamodbattribute.MarshalMap(toItem(rec))
	if err != nil {
		return errors.Wrap(err, "marshal note item")
	}
	_, err = r.client.PutItemWithContext(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.table),
		Item:      av,
	})
	return classify("put note", err)
}

// projection names the attributes read back. Name is a reserved word, so the
// expression builder substitutes placeholders.
func projection() (expression.Expression, error) {
	proj := expression.NamesList(
		expression.Name("NoteID"),
		expression.Name("Name"),
		expression.Name("CreatedAt"),
		expression.Name("UpdatedAt"),
	)
	expr, err := expression.NewBuilder().WithProjection(proj).Build()
	if err != nil {
		return expression.Expression{}, errors.Wrap(err, "build projection")
	}
	return expr, nil
}

// FindByKey fetches the item stored under (CreatedAt, Name).
func (r *NoteDynamo) FindByKey(ctx context.Context, key model.NoteKey) (*model.NoteRecord, error) {
	expr, err := projection()
	if err != nil {
		return nil, err
	}
	res, err := r.client.GetItemWithContext(ctx, &dynamodb.GetItemInput{
		TableName:                aws.String(r.table),
		Key:                      keyOf(key),
		ProjectionExpression:     expr.Projection(),
		ExpressionAttributeNames: expr.Names(),
	})
	if err != nil {
		return nil, classify("get note", err)
	}
	if res.Item == nil {
		return nil, repository.ErrNotFound
	}
	var it noteItem
	if err := dynamodbattribute.UnmarshalMap(res.Item, &it); err != nil {
		return nil, errors.Wrap(err, "unmarshal note item")
	}
	rec := it.record()
	return &rec, nil
}

// List scans the whole table.
func (r *NoteDynamo) List(ctx context.Context) ([]model.NoteRecord, error) {
	expr, err := projection()
	if err != nil {
		return nil, err
	}
	items := make([]model.NoteRecord, 0)
	var decodeErr error
	err = r.client.ScanPagesWithContext(ctx, &dynamodb.ScanInput{
		TableName:                aws.String(r.table),
		ProjectionExpression:     expr.Projection(),
		ExpressionAttributeNames: expr.Names(),
	}, func(page *dynamodb.ScanOutput, lastPage bool) bool {
		for _, av := range page.Items {
			var it noteItem
			if err := dynamodbattribute.UnmarshalMap(av, &it); err != nil {
				decodeErr = errors.Wrap(err, "unmarshal note item")
				return false
			}
			items = append(items, it.record())
		}
		return true
	})
	if err != nil {
		return nil, classify("scan notes", err)
	}
	if decodeErr != nil {
		return nil, decodeErr
	}
	return items, nil
}

// Delete removes an item. Deleting a missing item is not an error.
func (r *NoteDynamo) Delete(ctx context.Context, key model.NoteKey) error {
	_, err := r.client.DeleteItemWithContext(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(r.table),
		Key:       keyOf(key),
	})
	return classify("delete note", err)
}

// PingContext describes the table to verify credentials and existence.
func (r *NoteDynamo) PingContext(ctx context.Context) error {
	_, err := r.client.DescribeTableWithContext(ctx, &dynamodb.DescribeTableInput{
		TableName: aws.String(r.table),
	})
	return classify("describe table", err)
}

// classify turns service responses into store errors. Client-side failures
// (parameter validation, transport) stay unclassified.
func classify(op string, err error) error {
	if err == nil {
		return nil
	}
	if _, ok := err.(awserr.RequestFailure); ok {
		return apperr.Store(op, err)
	}
	return errors.Wrap(err, op)
}
