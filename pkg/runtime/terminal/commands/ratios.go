package commands

import (
	"github.com/de-tools/mortality-atlas/pkg/adapters"
	"github.com/spf13/cobra"
)

type RatiosCmd struct {
	rt       *Runtime
	reporter Reporter
	file     string
}

func NewRatiosCmd(rt *Runtime, reporter Reporter) *cobra.Command {
	rc := &RatiosCmd{rt: rt, reporter: reporter}
	cmd := &cobra.Command{
		Use:   "ratios",
		Short: "Print the effective estimation ratios and whether they validate",
		Args:  cobra.NoArgs,
		RunE:  rc.run,
	}

	cmd.Flags().StringVar(&rc.file, "file", "", "INI ratio overrides to check (defaults to ratios.file)")

	return cmd
}

func (rc *RatiosCmd) run(_ *cobra.Command, _ []string) error {
	cfg := *rc.rt.Config
	if rc.file != "" {
		cfg.Ratios.File = rc.file
	}

	ratios, err := cfg.ReadRatios()
	if err != nil {
		return err
	}

	if err := rc.reporter.Handle(adapters.MapRatiosToTerminal(ratios)); err != nil {
		return err
	}
	return ratios.Validate()
}
