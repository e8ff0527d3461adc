package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/dashspec/engine/internal/export"
	"github.com/dashspec/engine/internal/services"
)

func newExportCmd(a *app) *cobra.Command {
	var projectFlag, outDir, format string
	var stdout bool

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write a project's specification as Markdown or YAML",
		RunE: func(cmd *cobra.Command, args []string) error {
			projectID, err := uuid.Parse(projectFlag)
			if err != nil {
				return fmt.Errorf("invalid --project: %w", err)
			}
			if format != "md" && format != "yaml" {
				return fmt.Errorf("invalid --format %q: want md or yaml", format)
			}
			gw, err := a.open(cmd.Context())
			if err != nil {
				return err
			}
			snap, err := services.Snapshot(cmd.Context(), gw, projectID)
			if err != nil {
				return err
			}

			now := time.Now()
			var name string
			var content []byte
			if format == "yaml" {
				name = export.YAMLFilename(snap.Project.Name, snap.Project.VersionNumber)
				if content, err = export.RenderYAML(snap, now); err != nil {
					return err
				}
			} else {
				doc := export.NewDocument(snap, now)
				name, content = doc.Filename, []byte(doc.Content)
			}

			if stdout {
				_, err := cmd.OutOrStdout().Write(content)
				return err
			}
			if err := os.MkdirAll(outDir, 0o755); err != nil {
				return fmt.Errorf("create %s: %w", outDir, err)
			}
			path := filepath.Join(outDir, name)
			if err := os.WriteFile(path, content, 0o644); err != nil {
				return fmt.Errorf("write %s: %w", path, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
			return nil
		},
	}

	cmd.Flags().StringVarP(&projectFlag, "project", "p", "", "project id")
	cmd.Flags().StringVarP(&outDir, "out", "o", ".", "directory to write the file into")
	cmd.Flags().StringVar(&format, "format", "md", "md or yaml")
	cmd.Flags().BoolVar(&stdout, "stdout", false, "print the document instead of writing a file")
	_ = cmd.MarkFlagRequired("project")
	return cmd
}
