package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"bdindex/internal/preflight"
)

func newDoctorCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "doctor [ROOT]",
		Short: "Check directories and, optionally, volume discovery under ROOT",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			root := ""
			if len(args) == 1 {
				root = args[0]
			}

			out := cmd.OutOrStdout()
			style := newStyler(out)
			for _, line := range style.heading("bdindex doctor") {
				fmt.Fprintln(out, line)
			}
			if ctx.configExists {
				fmt.Fprintln(out, style.check("Config file", levelInfo, ctx.configPath))
			} else {
				fmt.Fprintln(out, style.check("Config file", levelWarn, ctx.configPath+" (not found, defaults used)"))
			}

			failed := 0
			for _, result := range preflight.RunAll(cfg, root, ctx.bdmvOptions()...) {
				level := levelOK
				if !result.Passed {
					level = levelError
					failed++
				}
				fmt.Fprintln(out, style.check(result.Name, level, result.Detail))
			}
			if failed > 0 {
				return fmt.Errorf("%d check(s) failed", failed)
			}
			return nil
		},
	}
}
