package vecindex

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/binary"
	"fmt"
	"strconv"
	"strings"

	"github.com/juris-lab/themis/pkg/domain/interfaces"
	"github.com/juris-lab/themis/pkg/domain/model"
	"github.com/juris-lab/themis/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gollem"
	_ "github.com/mattn/go-sqlite3"
)

// DefaultDimension matches the embedding size used by the index schema.
// Changing it requires rebuilding the index file.
const DefaultDimension = 768

// Index is a local embedding index backed by sqlite-vec. Chunk text and
// metadata live in a plain table, embeddings in a vec0 virtual table
// sharing the same rowid.
type Index struct {
	db        *sql.DB
	llmClient gollem.LLMClient
	dimension int
}

var _ interfaces.VectorIndex = &Index{}

type Option func(*Index)

// WithDimension overrides the embedding dimension
func WithDimension(dim int) Option {
	return func(x *Index) {
		if dim > 0 {
			x.dimension = dim
		}
	}
}

// New opens (or creates) the index database at path. The LLM client is
// used for embedding both stored chunks and queries.
func New(path string, llmClient gollem.LLMClient, opts ...Option) (*Index, error) {
	if path == "" {
		return nil, goerr.Wrap(types.ErrConfigurationMissing, "vector index path is required")
	}
	if llmClient == nil {
		return nil, goerr.Wrap(types.ErrConfigurationMissing, "LLM client is required for embeddings")
	}

	x := &Index{llmClient: llmClient, dimension: DefaultDimension}
	for _, opt := range opts {
		opt(x)
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to open index database", goerr.V("path", path))
	}

	schema := `
		CREATE TABLE IF NOT EXISTS chunks (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			doc_id TEXT NOT NULL,
			title TEXT NOT NULL,
			topic TEXT NOT NULL,
			span INTEGER NOT NULL,
			content TEXT NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_chunks_doc_id ON chunks(doc_id);
	`
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, goerr.Wrap(err, "failed to create chunk table")
	}

	vecSchema := fmt.Sprintf(
		`CREATE VIRTUAL TABLE IF NOT EXISTS vec_chunks USING vec0(embedding float[%d]);`,
		x.dimension,
	)
	if _, err := db.Exec(vecSchema); err != nil {
		_ = db.Close()
		return nil, goerr.Wrap(err, "failed to create vec0 table, sqlite-vec extension missing?")
	}

	x.db = db
	return x, nil
}

// Add embeds the chunks and stores them under docID, replacing any
// previous chunks of the same document.
func (x *Index) Add(ctx context.Context, docID, title, topic string, chunks []string) error {
	if docID == "" {
		return goerr.New("doc ID is required")
	}
	if len(chunks) == 0 {
		return nil
	}

	embeddings, err := x.llmClient.GenerateEmbedding(ctx, x.dimension, chunks)
	if err != nil {
		return goerr.Wrap(err, "failed to embed chunks", goerr.V("doc_id", docID))
	}
	if len(embeddings) != len(chunks) {
		return goerr.New("embedding count mismatch",
			goerr.V("chunks", len(chunks)), goerr.V("embeddings", len(embeddings)))
	}

	tx, err := x.db.BeginTx(ctx, nil)
	if err != nil {
		return goerr.Wrap(err, "failed to begin transaction")
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM vec_chunks WHERE rowid IN (SELECT id FROM chunks WHERE doc_id = ?)`, docID); err != nil {
		return goerr.Wrap(err, "failed to drop old embeddings", goerr.V("doc_id", docID))
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM chunks WHERE doc_id = ?`, docID); err != nil {
		return goerr.Wrap(err, "failed to drop old chunks", goerr.V("doc_id", docID))
	}

	for i, chunk := range chunks {
		res, err := tx.ExecContext(ctx,
			`INSERT INTO chunks (doc_id, title, topic, span, content) VALUES (?, ?, ?, ?, ?)`,
			docID, title, topic, i, chunk)
		if err != nil {
			return goerr.Wrap(err, "failed to insert chunk", goerr.V("doc_id", docID), goerr.V("span", i))
		}
		rowID, err := res.LastInsertId()
		if err != nil {
			return goerr.Wrap(err, "failed to get chunk rowid")
		}

		if _, err := tx.ExecContext(ctx,
			`INSERT INTO vec_chunks (rowid, embedding) VALUES (?, ?)`,
			rowID, encodeFloat32Blob(toFloat32(embeddings[i]))); err != nil {
			return goerr.Wrap(err, "failed to insert embedding", goerr.V("doc_id", docID), goerr.V("span", i))
		}
	}

	if err := tx.Commit(); err != nil {
		return goerr.Wrap(err, "failed to commit index update", goerr.V("doc_id", docID))
	}
	return nil
}

// Search embeds the query and returns the k nearest chunks by cosine
// distance. An empty topic disables the topic filter.
func (x *Index) Search(ctx context.Context, query string, topic string, k int) ([]model.Evidence, error) {
	if strings.TrimSpace(query) == "" || k <= 0 {
		return nil, nil
	}

	embeddings, err := x.llmClient.GenerateEmbedding(ctx, x.dimension, []string{query})
	if err != nil {
		return nil, goerr.Wrap(types.ErrSourceUnavailable, "failed to embed query", goerr.V("cause", err.Error()))
	}
	if len(embeddings) == 0 {
		return nil, goerr.Wrap(types.ErrSourceUnavailable, "embedding response is empty")
	}
	queryBlob := encodeFloat32Blob(toFloat32(embeddings[0]))

	rows, err := x.db.QueryContext(ctx, `
		SELECT c.doc_id, c.title, c.topic, c.span, c.content,
			vec_distance_cosine(v.embedding, ?) AS distance
		FROM vec_chunks v
		JOIN chunks c ON c.id = v.rowid
		WHERE (? = '' OR c.topic = ?)
		ORDER BY distance ASC
		LIMIT ?
	`, queryBlob, topic, topic, k)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to query vector index")
	}
	defer rows.Close()

	var results []model.Evidence
	for rows.Next() {
		var docID, title, chunkTopic, content string
		var span int
		var distance float64
		if err := rows.Scan(&docID, &title, &chunkTopic, &span, &content, &distance); err != nil {
			return nil, goerr.Wrap(err, "failed to scan index row")
		}

		results = append(results, model.Evidence{
			Text:   content,
			Source: "kb:" + docID,
			Metadata: map[string]any{
				"doc_id":     docID,
				"title":      title,
				"topic":      chunkTopic,
				"span":       strconv.Itoa(span),
				"similarity": strconv.FormatFloat(1.0-distance, 'f', 4, 64),
			},
		})
	}
	if err := rows.Err(); err != nil {
		return nil, goerr.Wrap(err, "failed to iterate index rows")
	}
	return results, nil
}

// Close releases the underlying database
func (x *Index) Close() error {
	if x.db == nil {
		return nil
	}
	return x.db.Close()
}

func toFloat32(v []float64) []float32 {
	out := make([]float32, len(v))
	for i, f := range v {
		out[i] = float32(f)
	}
	return out
}

// encodeFloat32Blob encodes a float32 slice in little-endian, the binary
// layout sqlite-vec expects for float[] columns.
func encodeFloat32Blob(v []float32) []byte {
	buf := &bytes.Buffer{}
	if err := binary.Write(buf, binary.LittleEndian, v); err != nil {
		return nil
	}
	return buf.Bytes()
}
