package variantindex

import (
	"context"
	"fmt"
	"hash/fnv"
	"strings"
	"time"

	"answer-grader/config"
	"answer-grader/pkg/logger"

	milvusclient "github.com/milvus-io/milvus-sdk-go/v2/client"
	milvusentity "github.com/milvus-io/milvus-sdk-go/v2/entity"
)

// Dimension of text-embedding-3-small vectors.
const vectorDim = 1536

// Entry is one variant lemma with its embedding.
type Entry struct {
	Text   string
	Vector []float32
}

// Hit is one scope-filtered search result.
type Hit struct {
	Text  string
	Score float32
}

// Enabled reports whether the durable variant index is configured.
func Enabled() bool { return config.Cfg.Milvus.Enabled }

func collectionName() string {
	if c := config.Cfg.Milvus.Collection; c != "" {
		return c
	}
	return "variant_embeddings"
}

// entryID derives a deterministic primary key from the scope and variant
// position, so re-upserting the same scope does not grow the collection.
func entryID(scope string, idx int) int64 {
	h := fnv.New64a()
	h.Write([]byte(scope))
	h.Write([]byte{0})
	return int64(h.Sum64()&0x7fffffffffff)<<16 + int64(idx&0xffff)
}

// Upsert ensures the collection exists and inserts the variant embeddings
// for one scope. Callers treat failures as non-fatal: the in-process cache
// remains the source of truth.
func Upsert(ctx context.Context, scope string, entries []Entry) error {
	if len(entries) == 0 {
		return nil
	}
	cli, err := milvusclient.NewClient(ctx, milvusclient.Config{Address: config.Cfg.Milvus.Address})
	if err != nil {
		return err
	}
	defer cli.Close()

	collection := collectionName()
	exists, err := cli.HasCollection(ctx, collection)
	if err != nil {
		return err
	}
	if !exists {
		if err := createCollection(ctx, cli, collection); err != nil {
			return err
		}
	}

	ids := make([]int64, len(entries))
	scopes := make([]string, len(entries))
	texts := make([]string, len(entries))
	vectors := make([][]float32, len(entries))
	for i, e := range entries {
		ids[i] = entryID(scope, i)
		scopes[i] = scope
		texts[i] = e.Text
		vectors[i] = e.Vector
	}

	colID := milvusentity.NewColumnInt64("id", ids)
	colScope := milvusentity.NewColumnVarChar("scope", scopes)
	colText := milvusentity.NewColumnVarChar("variant", texts)
	colVec := milvusentity.NewColumnFloatVector("embedding", vectorDim, vectors)

	if _, err := cli.Insert(ctx, collection, "", colID, colScope, colText, colVec); err != nil {
		return err
	}
	return nil
}

func createCollection(ctx context.Context, cli milvusclient.Client, collection string) error {
	schema := milvusentity.NewSchema().WithName(collection).WithDescription("variant embeddings per question scope")
	schema.WithField(milvusentity.NewField().WithName("id").WithDataType(milvusentity.FieldTypeInt64).WithIsPrimaryKey(true))
	schema.WithField(milvusentity.NewField().WithName("scope").WithDataType(milvusentity.FieldTypeVarChar).WithMaxLength(255))
	schema.WithField(milvusentity.NewField().WithName("variant").WithDataType(milvusentity.FieldTypeVarChar).WithMaxLength(2048))
	schema.WithField(milvusentity.NewField().WithName("embedding").WithDataType(milvusentity.FieldTypeFloatVector).WithDim(vectorDim))

	return cli.CreateCollection(ctx, schema, 2)
}

// Search runs a scope-filtered vector search and returns topK variant hits.
func Search(ctx context.Context, scope string, query []float32, topK int) ([]Hit, error) {
	if topK <= 0 {
		topK = 4
	}
	if len(query) == 0 {
		return []Hit{}, nil
	}
	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, 500*time.Millisecond)
		defer cancel()
	}

	cli, err := milvusclient.NewClient(ctx, milvusclient.Config{Address: config.Cfg.Milvus.Address})
	if err != nil {
		return nil, err
	}
	defer cli.Close()

	collection := collectionName()
	exists, err := cli.HasCollection(ctx, collection)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, fmt.Errorf("collection %q not found", collection)
	}
	if err := cli.LoadCollection(ctx, collection, false); err != nil {
		return nil, err
	}

	metricType := milvusentity.MetricType(config.Cfg.Milvus.IndexHNSWConfig.MetricType)
	searchParam, err := milvusentity.NewIndexHNSWSearchParam(64)
	if err != nil {
		return nil, err
	}

	expr := fmt.Sprintf("scope == %q", strings.ReplaceAll(scope, `"`, ""))
	start := time.Now()
	results, err := cli.Search(
		ctx,
		collection,
		nil,
		expr,
		[]string{"variant"},
		[]milvusentity.Vector{milvusentity.FloatVector(query)},
		"embedding",
		metricType,
		topK,
		searchParam,
	)
	if err != nil {
		logger.Error(err, "%v: milvus search failed", config.ModuleVariantIndex)
		return nil, err
	}
	logger.Debug("%v: milvus search done in %dms", config.ModuleVariantIndex, time.Since(start).Milliseconds())

	if len(results) == 0 {
		return []Hit{}, nil
	}
	it := results[0]
	hits := make([]Hit, 0, it.ResultCount)
	for i := 0; i < it.ResultCount; i++ {
		var h Hit
		h.Score = it.Scores[i]
		for _, field := range it.Fields {
			if col, ok := field.(*milvusentity.ColumnVarChar); ok && col.Name() == "variant" {
				h.Text = col.Data()[i]
			}
		}
		hits = append(hits, h)
	}
	return hits, nil
}
