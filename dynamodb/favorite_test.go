package dynamodb

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"testing"
	"time"

	"moviefav/errs"
	"moviefav/movie"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeTable is an in-memory stand-in for a single DynamoDB table. Scan pages
// hold at most pageLimit items so the paginator is exercised.
type fakeTable struct {
	mu        sync.Mutex
	exists    bool
	created   int
	describes int
	// DescribeTable answers CREATING this many times after CreateTable
	creating  int
	items     map[string]map[string]types.AttributeValue
	pageLimit int
}

func newFakeTable() *fakeTable {
	return &fakeTable{exists: true, items: map[string]map[string]types.AttributeValue{}, pageLimit: 2}
}

func keyValue(key map[string]types.AttributeValue) string {
	return key[favoriteKey].(*types.AttributeValueMemberS).Value
}

func (f *fakeTable) GetItem(_ context.Context, in *dynamodb.GetItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return &dynamodb.GetItemOutput{Item: f.items[keyValue(in.Key)]}, nil
}

func (f *fakeTable) PutItem(_ context.Context, in *dynamodb.PutItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	k := keyValue(in.Item)
	if _, ok := f.items[k]; ok && in.ConditionExpression != nil {
		return nil, &types.ConditionalCheckFailedException{Message: aws.String("exists")}
	}
	f.items[k] = in.Item
	return &dynamodb.PutItemOutput{}, nil
}

func (f *fakeTable) DeleteItem(_ context.Context, in *dynamodb.DeleteItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	k := keyValue(in.Key)
	old := f.items[k]
	delete(f.items, k)
	return &dynamodb.DeleteItemOutput{Attributes: old}, nil
}

func (f *fakeTable) Scan(_ context.Context, in *dynamodb.ScanInput, _ ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	keys := make([]string, 0, len(f.items))
	for k := range f.items {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	start := 0
	if in.ExclusiveStartKey != nil {
		last := keyValue(in.ExclusiveStartKey)
		start = sort.SearchStrings(keys, last) + 1
	}
	end := min(start+f.pageLimit, len(keys))

	out := &dynamodb.ScanOutput{}
	for _, k := range keys[start:end] {
		out.Items = append(out.Items, f.items[k])
	}
	if end < len(keys) {
		out.LastEvaluatedKey = map[string]types.AttributeValue{
			favoriteKey: &types.AttributeValueMemberS{Value: keys[end-1]},
		}
	}
	return out, nil
}

func (f *fakeTable) DescribeTable(_ context.Context, _ *dynamodb.DescribeTableInput, _ ...func(*dynamodb.Options)) (*dynamodb.DescribeTableOutput, error) {
	f.describes++
	if !f.exists {
		return nil, &types.ResourceNotFoundException{Message: aws.String("missing")}
	}
	status := types.TableStatusActive
	if f.creating > 0 {
		f.creating--
		status = types.TableStatusCreating
	}
	return &dynamodb.DescribeTableOutput{Table: &types.TableDescription{TableStatus: status}}, nil
}

func (f *fakeTable) CreateTable(_ context.Context, _ *dynamodb.CreateTableInput, _ ...func(*dynamodb.Options)) (*dynamodb.CreateTableOutput, error) {
	f.created++
	f.exists = true
	return &dynamodb.CreateTableOutput{}, nil
}

func newRepo(t *testing.T) (*FavoriteRepository, *fakeTable) {
	t.Helper()
	table := newFakeTable()
	repo := NewFavoriteRepository(table, "favorites")
	repo.waiterOptions = append(repo.waiterOptions, func(o *dynamodb.TableExistsWaiterOptions) {
		o.MinDelay = time.Millisecond
		o.MaxDelay = 5 * time.Millisecond
	})

	clock := time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)
	repo.now = func() time.Time {
		clock = clock.Add(time.Millisecond)
		return clock
	}
	return repo, table
}

func TestFavoriteRepository_AddExistsRemove(t *testing.T) {
	ctx := context.Background()
	repo, _ := newRepo(t)
	matrix := movie.Favorite{Title: "The Matrix", ImdbID: "tt0133093", Year: "1999", Poster: "p"}

	require.NoError(t, repo.Add(ctx, matrix))

	ok, err := repo.Exists(ctx, "TT0133093")
	require.NoError(t, err)
	assert.True(t, ok)

	dup := matrix
	dup.ImdbID = "TT0133093"
	err = repo.Add(ctx, dup)
	assert.Equal(t, errs.ECONFLICT, errs.ErrorCode(err))

	removed, err := repo.Remove(ctx, "tt0133093")
	require.NoError(t, err)
	assert.True(t, removed)

	removed, err = repo.Remove(ctx, "tt0133093")
	require.NoError(t, err)
	assert.False(t, removed)
}

func TestFavoriteRepository_Paginate(t *testing.T) {
	ctx := context.Background()
	repo, _ := newRepo(t)
	// insert in reverse key order so added_at, not the key, drives ordering
	for i := 7; i >= 1; i-- {
		f := movie.Favorite{Title: fmt.Sprintf("Movie %d", i), ImdbID: fmt.Sprintf("tt%03d", i), Year: "2000"}
		require.NoError(t, repo.Add(ctx, f))
	}

	p, err := repo.Paginate(ctx, 1, 3)
	require.NoError(t, err)
	assert.Equal(t, 7, p.Total)
	require.Len(t, p.Items, 3)
	assert.Equal(t, []string{"tt007", "tt006", "tt005"}, []string{p.Items[0].ImdbID, p.Items[1].ImdbID, p.Items[2].ImdbID})

	p, err = repo.Paginate(ctx, 3, 3)
	require.NoError(t, err)
	require.Len(t, p.Items, 1)
	assert.Equal(t, "tt001", p.Items[0].ImdbID)

	p, err = repo.Paginate(ctx, 9, 3)
	require.NoError(t, err)
	assert.Empty(t, p.Items)

	p, err = repo.Paginate(ctx, 100000000000000000, 100)
	require.NoError(t, err)
	assert.Empty(t, p.Items)
	assert.Equal(t, 7, p.Total)
}

func TestFavoriteRepository_EnsureTable(t *testing.T) {
	ctx := context.Background()

	t.Run("creates missing table and waits until it is active", func(t *testing.T) {
		repo, table := newRepo(t)
		table.exists = false
		table.creating = 2

		require.NoError(t, repo.EnsureTable(ctx))
		assert.Equal(t, 1, table.created)
		assert.Zero(t, table.creating, "waiter should poll past the CREATING states")
		// initial lookup, two CREATING polls, one ACTIVE poll
		assert.Equal(t, 4, table.describes)
	})

	t.Run("waits for a table another process is creating", func(t *testing.T) {
		repo, table := newRepo(t)
		table.creating = 2

		require.NoError(t, repo.EnsureTable(ctx))
		assert.Zero(t, table.created)
		assert.Zero(t, table.creating)
	})

	t.Run("leaves existing table alone", func(t *testing.T) {
		repo, table := newRepo(t)

		require.NoError(t, repo.EnsureTable(ctx))
		assert.Zero(t, table.created)
		assert.Equal(t, 1, table.describes)
	})

	t.Run("gives up when the context ends", func(t *testing.T) {
		repo, table := newRepo(t)
		table.exists = false
		table.creating = 1 << 30
		cctx, cancel := context.WithTimeout(ctx, 20*time.Millisecond)
		defer cancel()

		err := repo.EnsureTable(cctx)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "wait for favorites table")
	})
}

func TestFavoriteRepository_RequiresTable(t *testing.T) {
	repo := NewFavoriteRepository(newFakeTable(), " ")

	_, err := repo.Exists(context.Background(), "tt1")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "table name is required")
}

func TestNewClient_Validation(t *testing.T) {
	_, err := NewClient(context.Background(), Options{})
	assert.EqualError(t, err, "dynamodb: region is required")

	_, err = NewClient(context.Background(), Options{Region: "eu-west-1", AccessKey: "only-access"})
	assert.EqualError(t, err, "dynamodb: access key and secret key must be set together")
}
