package cli

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/pica/internal/path"
	"github.com/roach88/pica/internal/record"
)

// PartitionOptions holds flags for the partition command.
type PartitionOptions struct {
	*RootOptions
	matchFlags
	OutDir   string
	Gzip     bool
	Template string
}

// NewPartitionCommand creates the partition command.
func NewPartitionCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &PartitionOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "partition <path> [files...]",
		Short: "Split records into files by a path value",
		Long: `Write each record to one file per distinct value of the path.
A record with several values is written to several files; a record
without a value is skipped. The file name is the template with "{}"
replaced by the value.

Example:
  pica partition "002@.0" --outdir by-type dump.dat
  pica partition "044H/*.a" --outdir by-subject --gzip dump.dat`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPartition(opts, args[0], args[1:], cmd)
		},
	}

	opts.matchFlags.register(cmd)
	cmd.Flags().StringVarP(&opts.OutDir, "outdir", "o", ".", "directory for the partition files")
	cmd.Flags().BoolVar(&opts.Gzip, "gzip", false, "gzip compress the partition files")
	cmd.Flags().StringVar(&opts.Template, "template", "", `file name template (default "{}.dat", or "{}.dat.gz" with --gzip)`)

	return cmd
}

// partitionFile maps a value to a file name below dir. Path separators
// in the value are replaced so every file stays inside dir.
func partitionFile(dir, template, value string) string {
	safe := strings.NewReplacer("/", "_", "\\", "_").Replace(value)
	if safe == "." || safe == ".." {
		safe = strings.ReplaceAll(safe, ".", "_")
	}
	return filepath.Join(dir, strings.ReplaceAll(template, "{}", safe))
}

func runPartition(opts *PartitionOptions, expr string, args []string, cmd *cobra.Command) error {
	cfg := opts.config()

	p, err := path.ParsePath(expr)
	if err != nil {
		return compileError(err)
	}
	mopts, err := opts.options(cmd, cfg)
	if err != nil {
		return err
	}

	compress := opts.Gzip || cfg.Global.Gzip
	template := opts.Template
	if template == "" {
		template = "{}.dat"
		if compress {
			template += ".gz"
		}
	}
	if !strings.Contains(template, "{}") {
		return NewExitError(ExitCommandError, fmt.Sprintf("invalid --template %q: must contain {}", template))
	}
	if err := os.MkdirAll(opts.OutDir, 0o755); err != nil {
		return WrapExitError(ExitCommandError, "failed to create output directory", err)
	}

	writers := make(map[string]*record.Writer)
	invalid, err := readRecords(cmd.Context(), inputPaths(args), opts.skipInvalid(cfg), func(r *record.Record) error {
		seen := make(map[string]struct{})
		for _, v := range p.Values(r, &mopts) {
			if v == "" {
				continue
			}
			if _, dup := seen[v]; dup {
				continue
			}
			seen[v] = struct{}{}

			w, ok := writers[v]
			if !ok {
				name := partitionFile(opts.OutDir, template, v)
				created, cerr := record.Create(name, compress)
				if cerr != nil {
					return WrapExitError(ExitCommandError, "failed to create partition file", cerr)
				}
				w = created
				writers[v] = w
				slog.Debug("partition created", "value", v, "file", name)
			}
			if err := w.Write(r); err != nil {
				return err
			}
		}
		return nil
	})

	for v, w := range writers {
		if closeErr := w.Close(); closeErr != nil && err == nil {
			err = WrapExitError(ExitCommandError, fmt.Sprintf("failed to write partition %q", v), closeErr)
		}
	}
	slog.Debug("partition finished", "partitions", len(writers), "invalid", invalid)
	return err
}
