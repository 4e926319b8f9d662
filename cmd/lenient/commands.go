package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/albertocavalcante/go-lenient/graph"
	"github.com/albertocavalcante/go-lenient/snapshot"
)

func newArtifactsCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "artifacts",
		Short: "List the artifacts of the selected dependencies",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := opts.checkFormat(formatText, formatJSON); err != nil {
				return err
			}
			s, err := opts.load()
			if err != nil {
				return err
			}
			spec, err := opts.spec()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if opts.format == formatJSON {
				files, err := s.result.ArtifactFiles(cmd.Context(), spec)
				if err != nil {
					return err
				}
				rows := make([]artifactRow, len(files))
				for i, f := range files {
					rows[i] = artifactRow{
						File:      f.Artifact.ID.FileName(),
						Component: f.Artifact.ID.Component.DisplayName(),
						Path:      f.Path,
					}
				}
				return writeJSON(out, rows)
			}

			arts, err := s.result.Artifacts(cmd.Context(), spec)
			if err != nil {
				return err
			}
			for _, a := range arts {
				fmt.Fprintln(out, a)
			}
			return nil
		},
	}
}

type artifactRow struct {
	File      string `json:"file"`
	Component string `json:"component"`
	Path      string `json:"path"`
}

func newFilesCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "files",
		Short: "List the files of the selected dependencies",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := opts.checkFormat(formatText, formatJSON); err != nil {
				return err
			}
			s, err := opts.load()
			if err != nil {
				return err
			}
			spec, err := opts.spec()
			if err != nil {
				return err
			}
			files, err := s.result.Files(cmd.Context(), spec)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if opts.format == formatJSON {
				return writeJSON(out, files)
			}
			for _, f := range files {
				fmt.Fprintln(out, f)
			}
			return nil
		},
	}
}

func newDepsCmd(opts *options) *cobra.Command {
	var all, leaves bool
	cmd := &cobra.Command{
		Use:   "deps",
		Short: "List the first-level dependencies, or every dependency with --all",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := opts.checkFormat(formatText, formatJSON); err != nil {
				return err
			}
			s, err := opts.load()
			if err != nil {
				return err
			}

			var nodes []*graph.Node
			switch {
			case all:
				nodes, err = s.result.AllDependencies(cmd.Context())
			case leaves:
				var snap *snapshot.Snapshot
				if snap, err = s.result.Snapshot(cmd.Context()); err == nil {
					nodes = snap.Graph.Leaves()
				}
			default:
				spec, specErr := opts.spec()
				if specErr != nil {
					return specErr
				}
				nodes, err = s.result.FirstLevelDependencies(cmd.Context(), spec)
			}
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if opts.format == formatJSON {
				rows := make([]depRow, len(nodes))
				for i, n := range nodes {
					k := n.Key()
					rows[i] = depRow{Group: k.Group, Name: k.Name, Version: k.Version, Configuration: k.Configuration}
				}
				return writeJSON(out, rows)
			}
			for _, n := range nodes {
				fmt.Fprintln(out, n.Key())
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&all, "all", false, "list every dependency reachable from the first-level dependencies")
	cmd.Flags().BoolVar(&leaves, "leaves", false, "list the dependencies that have no dependencies of their own")
	cmd.MarkFlagsMutuallyExclusive("all", "leaves")
	return cmd
}

type depRow struct {
	Group         string `json:"group,omitempty"`
	Name          string `json:"name"`
	Version       string `json:"version,omitempty"`
	Configuration string `json:"configuration,omitempty"`
}

func newGraphCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "graph",
		Short: "Render the resolved dependency graph",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := opts.checkFormat(formatText, formatJSON, formatDOT); err != nil {
				return err
			}
			s, err := opts.load()
			if err != nil {
				return err
			}
			snap, err := s.result.Snapshot(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			switch opts.format {
			case formatJSON:
				data, err := snap.Graph.ToJSON()
				if err != nil {
					return err
				}
				_, err = fmt.Fprintln(out, string(data))
				return err
			case formatDOT:
				_, err = io.WriteString(out, snap.Graph.ToDOT())
				return err
			default:
				_, err = io.WriteString(out, snap.Graph.ToText())
				return err
			}
		},
	}
}

func newWhyCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "why [group:]name",
		Short: "Explain why a module is part of the configuration",
		Long: `why prints the shortest chain of dependencies from the configuration to
the module, the modules that depend on it directly or transitively, and the
modules it pulls in.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := opts.checkFormat(formatText, formatJSON); err != nil {
				return err
			}
			s, err := opts.load()
			if err != nil {
				return err
			}
			snap, err := s.result.Snapshot(cmd.Context())
			if err != nil {
				return err
			}

			g := snap.Graph
			group, name := "", args[0]
			if i := strings.LastIndex(name, ":"); i >= 0 {
				group, name = name[:i], name[i+1:]
			}
			node := g.Find(group, name)
			if node == nil {
				return fmt.Errorf("no module %q in %s", args[0], s.result.Configuration())
			}

			row := whyRow{Module: node.String()}
			for _, id := range g.Path(g.Root().ID(), node.ID()) {
				row.Path = append(row.Path, g.Node(id).String())
			}
			for _, n := range g.TransitiveDependents(node.ID()) {
				if !n.IsRoot() {
					row.Dependents = append(row.Dependents, n.String())
				}
			}
			for _, n := range g.TransitiveDeps(node.ID()) {
				row.Dependencies = append(row.Dependencies, n.String())
			}

			out := cmd.OutOrStdout()
			if opts.format == formatJSON {
				return writeJSON(out, row)
			}
			fmt.Fprintln(out, row.Module)
			fmt.Fprintln(out, "path:", strings.Join(row.Path, " -> "))
			fmt.Fprintln(out, "dependents:", listOrNone(row.Dependents))
			fmt.Fprintln(out, "dependencies:", listOrNone(row.Dependencies))
			return nil
		},
	}
}

type whyRow struct {
	Module       string   `json:"module"`
	Path         []string `json:"path"`
	Dependents   []string `json:"dependents,omitempty"`
	Dependencies []string `json:"dependencies,omitempty"`
}

func listOrNone(items []string) string {
	if len(items) == 0 {
		return "none"
	}
	return strings.Join(items, ", ")
}

func newCheckCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Fail if any dependency could not be resolved",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := opts.load()
			if err != nil {
				return err
			}
			if err := s.result.RethrowFailure(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: all dependencies resolved\n", s.result.Configuration())
			return nil
		},
	}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
