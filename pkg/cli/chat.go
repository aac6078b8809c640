package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/juris-lab/themis/pkg/domain/types"
	"github.com/juris-lab/themis/pkg/repository/memory"
	"github.com/juris-lab/themis/pkg/usecase"
	"github.com/juris-lab/themis/pkg/utils/logging"
	"github.com/juris-lab/themis/pkg/utils/safe"
)

func cmdChat() *cli.Command {
	var pipeCfg pipelineConfig

	return &cli.Command{
		Name:  "chat",
		Usage: "Interactive chat session on the terminal",
		Flags: pipeCfg.Flags(),
		Action: func(ctx context.Context, c *cli.Command) error {
			ucOpts, closeSources, err := pipeCfg.Options(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to build pipeline")
			}
			defer closeSources()

			repo := memory.New()
			defer safe.Close(ctx, repo)

			uc := usecase.New(repo, ucOpts...)

			userLabel := color.New(color.FgGreen, color.Bold)
			botLabel := color.New(color.FgCyan, color.Bold)
			faint := color.New(color.Faint)

			faint.Println("Digite sua mensagem. 'sair' encerra a conversa.")

			var sessionID types.SessionID
			scanner := bufio.NewScanner(os.Stdin)
			for {
				userLabel.Print("você> ")
				if !scanner.Scan() {
					break
				}
				line := strings.TrimSpace(scanner.Text())
				if line == "" {
					continue
				}
				if line == "sair" || line == "exit" || line == "quit" {
					break
				}

				reply, err := uc.HandleMessage(ctx, usecase.IncomingMessage{
					SessionID: sessionID,
					Channel:   "cli",
					Text:      line,
				})
				if err != nil {
					logging.Default().Error("failed to handle message", "error", err.Error())
					continue
				}
				sessionID = reply.SessionID

				botLabel.Println("themis>")
				fmt.Println(reply.Text)
				faint.Printf("[%s | cobertura %.2f | fontes %d]\n\n",
					reply.Topic, reply.Coverage, len(reply.Sources))
			}
			if err := scanner.Err(); err != nil {
				return goerr.Wrap(err, "failed to read input")
			}

			return nil
		},
	}
}
