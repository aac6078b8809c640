package cli

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/juris-lab/themis/pkg/cli/config"
	"github.com/juris-lab/themis/pkg/service/retriever"
	"github.com/juris-lab/themis/pkg/utils/logging"
	"github.com/juris-lab/themis/pkg/utils/safe"
)

func cmdIndex() *cli.Command {
	var llmCfg config.LLM
	var indexCfg config.VecIndex
	var topic string

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "topic",
			Usage:       "Topic label stored with every chunk (empty for untagged)",
			Sources:     cli.EnvVars("THEMIS_INDEX_TOPIC"),
			Destination: &topic,
		},
	}
	flags = append(flags, llmCfg.Flags()...)
	flags = append(flags, indexCfg.Flags()...)

	return &cli.Command{
		Name:      "index",
		Usage:     "Build or update the vector index from a directory of .txt/.md documents",
		ArgsUsage: "<dir>",
		Flags:     flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			dir := c.Args().First()
			if dir == "" {
				return goerr.New("document directory is required")
			}
			if indexCfg.Path() == "" {
				return goerr.New("index-path is required")
			}

			llmClient, err := llmCfg.Configure(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to configure LLM client")
			}
			if llmClient == nil {
				return goerr.New("an LLM client is required to embed documents")
			}

			index, err := indexCfg.Configure(llmClient)
			if err != nil {
				return goerr.Wrap(err, "failed to open vector index")
			}
			defer safe.Close(ctx, index)

			logger := logging.Default()
			var docs, chunks int

			err = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
				if err != nil {
					return err
				}
				if d.IsDir() {
					return nil
				}
				ext := strings.ToLower(filepath.Ext(path))
				if ext != ".txt" && ext != ".md" {
					return nil
				}

				// #nosec G304 - path comes from walking the user-given directory
				data, err := os.ReadFile(path)
				if err != nil {
					return goerr.Wrap(err, "failed to read document", goerr.V("path", path))
				}

				rel, err := filepath.Rel(dir, path)
				if err != nil {
					rel = filepath.Base(path)
				}
				docID := strings.TrimSuffix(filepath.ToSlash(rel), ext)
				title := docTitle(string(data), docID)

				parts := retriever.Chunk(string(data), retriever.DefaultChunkSize)
				if len(parts) == 0 {
					logger.Warn("skipping empty document", "path", path)
					return nil
				}

				if err := index.Add(ctx, docID, title, topic, parts); err != nil {
					return goerr.Wrap(err, "failed to index document", goerr.V("doc_id", docID))
				}

				docs++
				chunks += len(parts)
				logger.Info("indexed document", "doc_id", docID, "chunks", len(parts))
				return nil
			})
			if err != nil {
				return goerr.Wrap(err, "failed to index documents", goerr.V("dir", dir))
			}

			logger.Info("Index build completed",
				"documents", docs,
				"chunks", chunks,
				"index", indexCfg.Path(),
			)
			return nil
		},
	}
}

// docTitle takes the first non-empty line, stripped of markdown heading
// markers, falling back to the document ID
func docTitle(text, docID string) string {
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(strings.TrimLeft(strings.TrimSpace(line), "# "))
		if line != "" {
			return line
		}
	}
	return docID
}
