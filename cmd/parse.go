package cmd

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/mupstack/mupdrive/internal/config"
	"github.com/mupstack/mupdrive/internal/mindmup"
)

func newParseCmd() *cobra.Command {
	var (
		query         string
		attributeKey  string
		attributeVal  string
		maxDepth      int
		caseSensitive bool
		showTree      bool
	)

	cmd := &cobra.Command{
		Use:   "parse [files...]",
		Short: "Parse and search local MindMup files",
		Long: `Parse one or more local .mup files and print their structure or search
them for matching nodes. This works entirely offline and never touches
Google Drive, which makes it useful for inspecting map files before
uploading them or for debugging parse failures.

Without search flags the command prints per-file statistics (or the full
tree with --tree). With --query or --attr the command searches all files
and prints the matches as JSON.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Default()
			builder := mindmup.NewBuilder(mindmup.BuilderOptions{
				MaxDepth:         cfg.MaxDepth,
				MaxDocumentBytes: cfg.MaxDocumentBytes,
			})

			inputs := make([]mindmup.BatchInput, 0, len(args))
			for _, path := range args {
				raw, err := os.ReadFile(path)
				if err != nil {
					return fmt.Errorf("failed to read %s: %w", path, err)
				}
				inputs = append(inputs, mindmup.BatchInput{
					SourceID: filepath.Base(path),
					Raw:      raw,
				})
			}

			docs, buildErrs := builder.BuildAll(inputs)
			for _, buildErr := range buildErrs {
				log.Printf("Warning: %s: %v", buildErr.SourceID, buildErr.Err)
			}

			searching := query != "" || attributeKey != "" || maxDepth > 0
			if searching {
				criteria := mindmup.Criteria{
					TitleContains: query,
					AttributeKey:  attributeKey,
					MaxDepth:      maxDepth,
					CaseSensitive: caseSensitive,
				}
				if attributeVal != "" {
					criteria.AttributeValue = attributeVal
				}

				results := mindmup.SearchDocuments(docs, criteria)
				encoded, err := mindmup.EncodeResponse(mindmup.Format(results, buildErrs))
				if err != nil {
					return fmt.Errorf("failed to encode results: %w", err)
				}
				fmt.Println(string(encoded))
				return nil
			}

			for _, doc := range docs {
				if showTree {
					encoded, err := json.MarshalIndent(mindmup.FormatDocument(doc), "", "  ")
					if err != nil {
						return fmt.Errorf("failed to encode %s: %w", doc.SourceID, err)
					}
					fmt.Println(string(encoded))
					continue
				}
				stats := doc.ComputeStats()
				fmt.Printf("%s: %q (%d nodes, depth %d, %d chars)\n",
					doc.SourceID, doc.Metadata.Title, stats.NodeCount, stats.MaxDepth, stats.TotalTextLength)
			}

			if len(buildErrs) > 0 {
				return fmt.Errorf("%d of %d files failed to parse", len(buildErrs), len(inputs))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&query, "query", "q", "", "Search for nodes whose title contains this text")
	cmd.Flags().StringVar(&attributeKey, "attr", "", "Search for nodes carrying this attribute key")
	cmd.Flags().StringVar(&attributeVal, "attr-value", "", "Required attribute value (used with --attr)")
	cmd.Flags().IntVar(&maxDepth, "max-depth", 0, "Limit matches to nodes at most this deep (0 = unbounded)")
	cmd.Flags().BoolVar(&caseSensitive, "case-sensitive", false, "Match titles case-sensitively")
	cmd.Flags().BoolVar(&showTree, "tree", false, "Print the full parsed tree instead of statistics")

	return cmd
}
