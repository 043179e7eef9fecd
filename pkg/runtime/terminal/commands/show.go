package commands

import (
	"fmt"

	"github.com/de-tools/mortality-atlas/pkg/adapters"
	"github.com/de-tools/mortality-atlas/pkg/store/snapshot"
	"github.com/spf13/cobra"
)

type ShowCmd struct {
	rt        *Runtime
	reporters map[string]Reporter
	path      string
	format    string
}

// NewShowCmd renders a previously written snapshot. reporters is keyed by
// the --format value.
func NewShowCmd(rt *Runtime, reporters map[string]Reporter) *cobra.Command {
	sc := &ShowCmd{rt: rt, reporters: reporters}
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the current report snapshot",
		Args:  cobra.NoArgs,
		RunE:  sc.run,
	}

	cmd.Flags().StringVarP(&sc.path, "input", "i", "", "Snapshot path (defaults to output.path)")
	cmd.Flags().StringVarP(&sc.format, "format", "f", "table", "Output format: table or text")

	return cmd
}

func (sc *ShowCmd) run(_ *cobra.Command, _ []string) error {
	reporter, ok := sc.reporters[sc.format]
	if !ok {
		return fmt.Errorf("unsupported format %q", sc.format)
	}

	path := sc.path
	if path == "" {
		path = sc.rt.Config.Output.Path
	}

	report, err := snapshot.Load(path)
	if err != nil {
		return fmt.Errorf("failed to load snapshot %s: %w", path, err)
	}

	return reporter.Handle(adapters.MapAggregateReportToTerminal(report))
}
