package dynamodb

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"moviefav/movie"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

const (
	favoriteKey = "imdb_id_key"

	// fixed width so that added_at sorts lexically
	addedAtLayout = "2006-01-02T15:04:05.000000000Z"

	// upper bound for a new table to become ACTIVE
	tableActiveTimeout = 2 * time.Minute
)

// FavoriteRepository implements movie.FavoriteRepository. Items are keyed by
// the lower-cased IMDb id and ordered by added_at when listed.
type FavoriteRepository struct {
	client API
	table  string
	now    func() time.Time

	waiterOptions []func(*dynamodb.TableExistsWaiterOptions)
}

type favoriteItem struct {
	Key     string `dynamodbav:"imdb_id_key"`
	ImdbID  string `dynamodbav:"imdb_id"`
	Title   string `dynamodbav:"title"`
	Year    string `dynamodbav:"year"`
	Poster  string `dynamodbav:"poster"`
	AddedAt string `dynamodbav:"added_at"`
}

func NewFavoriteRepository(client API, table string) *FavoriteRepository {
	return &FavoriteRepository{
		client: client,
		table:  table,
		now:    time.Now,
	}
}

func keyOf(imdbID string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		favoriteKey: &types.AttributeValueMemberS{Value: strings.ToLower(imdbID)},
	}
}

// EnsureTable creates the favorites table with on-demand billing when it does
// not exist yet, and blocks until the table is ACTIVE.
func (r *FavoriteRepository) EnsureTable(ctx context.Context) error {
	if err := validateTable(r.table); err != nil {
		return err
	}

	out, err := r.client.DescribeTable(ctx, &dynamodb.DescribeTableInput{TableName: &r.table})
	if err == nil {
		if out.Table != nil && out.Table.TableStatus == types.TableStatusCreating {
			return r.waitActive(ctx)
		}
		return nil
	}
	var notFound *types.ResourceNotFoundException
	if !errors.As(err, &notFound) {
		return fmt.Errorf("dynamodb: describe favorites table: %w", err)
	}

	_, err = r.client.CreateTable(ctx, &dynamodb.CreateTableInput{
		TableName: &r.table,
		AttributeDefinitions: []types.AttributeDefinition{
			{AttributeName: aws.String(favoriteKey), AttributeType: types.ScalarAttributeTypeS},
		},
		KeySchema: []types.KeySchemaElement{
			{AttributeName: aws.String(favoriteKey), KeyType: types.KeyTypeHash},
		},
		BillingMode: types.BillingModePayPerRequest,
	})
	if err != nil {
		var inUse *types.ResourceInUseException
		if !errors.As(err, &inUse) {
			return fmt.Errorf("dynamodb: create favorites table: %w", err)
		}
	}
	return r.waitActive(ctx)
}

func (r *FavoriteRepository) waitActive(ctx context.Context) error {
	waiter := dynamodb.NewTableExistsWaiter(r.client, r.waiterOptions...)
	err := waiter.Wait(ctx, &dynamodb.DescribeTableInput{TableName: &r.table}, tableActiveTimeout)
	if err != nil {
		return fmt.Errorf("dynamodb: wait for favorites table: %w", err)
	}
	return nil
}

func (r *FavoriteRepository) Exists(ctx context.Context, imdbID string) (bool, error) {
	if err := validateTable(r.table); err != nil {
		return false, err
	}

	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: &r.table,
		Key:       keyOf(imdbID),
	})
	if err != nil {
		return false, fmt.Errorf("dynamodb: get favorite: %w", err)
	}
	return len(out.Item) > 0, nil
}

func (r *FavoriteRepository) Add(ctx context.Context, f movie.Favorite) error {
	if err := validateTable(r.table); err != nil {
		return err
	}

	item := favoriteItem{
		Key:     strings.ToLower(f.ImdbID),
		ImdbID:  f.ImdbID,
		Title:   f.Title,
		Year:    f.Year,
		Poster:  f.Poster,
		AddedAt: r.now().UTC().Format(addedAtLayout),
	}
	av, err := attributevalue.MarshalMap(item)
	if err != nil {
		return fmt.Errorf("dynamodb: marshal favorite: %w", err)
	}

	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           &r.table,
		Item:                av,
		ConditionExpression: aws.String("attribute_not_exists(" + favoriteKey + ")"),
	})
	if err != nil {
		var condErr *types.ConditionalCheckFailedException
		if errors.As(err, &condErr) {
			return movie.ErrAlreadyExists(f.ImdbID)
		}
		return fmt.Errorf("dynamodb: put favorite: %w", err)
	}

	return nil
}

func (r *FavoriteRepository) Remove(ctx context.Context, imdbID string) (bool, error) {
	if err := validateTable(r.table); err != nil {
		return false, err
	}

	out, err := r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName:    &r.table,
		Key:          keyOf(imdbID),
		ReturnValues: types.ReturnValueAllOld,
	})
	if err != nil {
		return false, fmt.Errorf("dynamodb: delete favorite: %w", err)
	}
	return len(out.Attributes) > 0, nil
}

func (r *FavoriteRepository) Paginate(ctx context.Context, page, pageSize int) (movie.Page, error) {
	if err := validateTable(r.table); err != nil {
		return movie.Page{}, err
	}

	var items []favoriteItem
	paginator := dynamodb.NewScanPaginator(r.client, &dynamodb.ScanInput{
		TableName: &r.table,
	})
	for paginator.HasMorePages() {
		out, err := paginator.NextPage(ctx)
		if err != nil {
			return movie.Page{}, fmt.Errorf("dynamodb: scan favorites: %w", err)
		}

		var batch []favoriteItem
		if err := attributevalue.UnmarshalListOfMaps(out.Items, &batch); err != nil {
			return movie.Page{}, fmt.Errorf("dynamodb: unmarshal favorites: %w", err)
		}
		items = append(items, batch...)
	}

	sort.SliceStable(items, func(i, j int) bool {
		if items[i].AddedAt == items[j].AddedAt {
			return items[i].Key < items[j].Key
		}
		return items[i].AddedAt < items[j].AddedAt
	})

	start, end := movie.Window(page, pageSize, len(items))
	favorites := make([]movie.Favorite, 0, end-start)
	for _, item := range items[start:end] {
		favorites = append(favorites, movie.Favorite{
			Title:  item.Title,
			ImdbID: item.ImdbID,
			Year:   item.Year,
			Poster: item.Poster,
		})
	}

	return movie.Page{Items: favorites, Total: len(items)}, nil
}
