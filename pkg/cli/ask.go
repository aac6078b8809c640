package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/juris-lab/themis/pkg/repository/memory"
	"github.com/juris-lab/themis/pkg/usecase"
	"github.com/juris-lab/themis/pkg/utils/logging"
	"github.com/juris-lab/themis/pkg/utils/safe"
)

func cmdAsk() *cli.Command {
	var pipeCfg pipelineConfig

	return &cli.Command{
		Name:      "ask",
		Usage:     "Ask a single question and print the answer",
		ArgsUsage: "<question>",
		Flags:     pipeCfg.Flags(),
		Action: func(ctx context.Context, c *cli.Command) error {
			question := strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
			if question == "" {
				return goerr.New("question is required")
			}

			ucOpts, closeSources, err := pipeCfg.Options(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to build pipeline")
			}
			defer closeSources()

			// One-shot sessions have no history worth persisting
			repo := memory.New()
			defer safe.Close(ctx, repo)

			uc := usecase.New(repo, ucOpts...)

			reply, err := uc.HandleMessage(ctx, usecase.IncomingMessage{
				Channel: "cli",
				Text:    question,
			})
			if err != nil {
				return goerr.Wrap(err, "failed to handle question")
			}

			color.New(color.FgCyan, color.Bold).Println("themis")
			fmt.Println(reply.Text)

			logging.Default().Info("answered",
				"topic", reply.Topic,
				"intent", reply.Intent,
				"coverage", reply.Coverage,
				"sources", len(reply.Sources),
			)
			return nil
		},
	}
}
