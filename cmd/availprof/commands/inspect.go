package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/schedkit/availprof/internal/scenario"
	"github.com/schedkit/availprof/pkg/persist"
)

// InspectCommand holds flags for the inspect command.
type InspectCommand struct {
	noColor bool
}

// NewInspectCommand creates the inspect command, which renders a persisted
// timeline snapshot without replaying anything.
func NewInspectCommand() *cobra.Command {
	ic := &InspectCommand{}

	cmd := &cobra.Command{
		Use:   "inspect <snapshot-file>",
		Short: "Render a persisted timeline snapshot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ic.run(cmd, args[0])
		},
	}

	cmd.Flags().BoolVar(&ic.noColor, "no-color", false, "disable colored output")

	return cmd
}

// run decodes the snapshot file and prints its timeline table. The codec is
// picked from the file extension, so snapshots written in any supported
// format can be inspected.
func (ic *InspectCommand) run(cmd *cobra.Command, path string) error {
	codec, err := persist.CodecForPath(path)
	if err != nil {
		return err
	}

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open snapshot: %w", err)
	}
	defer f.Close()

	var doc scenario.SnapshotDoc

	err = codec.Decode(f, &doc)
	if err != nil {
		return err
	}

	report, err := scenario.ReportFromSnapshot(snapshotName(path, codec), &doc)
	if err != nil {
		return err
	}

	scenario.Render(cmd.OutOrStdout(), report, scenario.RenderOptions{
		Table: true,
		Color: !ic.noColor,
	})

	return nil
}

// snapshotName labels the rendered report with the file basename, minus the
// codec extension.
func snapshotName(path string, codec persist.Codec) string {
	return strings.TrimSuffix(filepath.Base(path), codec.Extension())
}
