package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command for the mupdrive application
var rootCmd = &cobra.Command{
	Use:   "mupdrive",
	Short: "Read-only MCP server for MindMup mind maps stored in Google Drive",
	Long: `mupdrive exposes MindMup mind map files stored in Google Drive to AI
assistants through the Model Context Protocol (MCP).

It can run as:
  - An MCP server over stdio or streamable HTTP (default)
  - A standalone CLI for parsing and searching local .mup files`,
	SilenceUsage: true,
}

// version will be set by main
var version = "dev"

// SetVersion sets the version for the root command
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}

// Execute is the main entry point for the CLI application
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "mupdrive version %s\n" .Version}}`)

	// If no subcommand is provided, run the serve command by default
	if len(os.Args) == 1 {
		os.Args = append(os.Args, "serve")
	}

	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newParseCmd())
	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newGenerateDocsCmd())
}
