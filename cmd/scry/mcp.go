package main

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/panbanda/scry/internal/mcpserver"
)

func mcpCmd() *cli.Command {
	return &cli.Command{
		Name:  "mcp",
		Usage: "Start MCP (Model Context Protocol) server for LLM tool integration",
		Description: `Starts an MCP server over stdio transport that exposes scry reviews as
tools that LLMs can invoke.

To use with Claude Desktop, add to your config:
  {
    "mcpServers": {
      "scry": {
        "command": "scry",
        "args": ["mcp"]
      }
    }
  }

Available tools:
  - review_python_files   Review files and directories
  - review_python_source  Review inline source
  - suggest_fix           Suggest a fix for one issue`,
		Action: runMCPCmd,
		Subcommands: []*cli.Command{
			{
				Name:   "manifest",
				Usage:  "Print the MCP server manifest (server.json)",
				Action: runMCPManifestCmd,
			},
		},
	}
}

func runMCPCmd(c *cli.Context) error {
	svc, logger, err := newService(c)
	if err != nil {
		return err
	}
	return mcpserver.NewServer(version, svc, logger).Run(c.Context)
}

func runMCPManifestCmd(c *cli.Context) error {
	data, err := mcpserver.GenerateManifest(version)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(c.App.Writer, string(data))
	return err
}
