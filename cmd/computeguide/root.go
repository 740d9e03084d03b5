package main

import (
	"fmt"
	"io"
	"os"

	"github.com/openfluke/computeguide/compute"
	"github.com/openfluke/computeguide/config"
	"github.com/openfluke/computeguide/detector"
	"github.com/openfluke/computeguide/gpu"
	"github.com/openfluke/computeguide/report"
	"github.com/openfluke/computeguide/shader"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type app struct {
	cfg config.Config
	log *zap.Logger
	out io.Writer
}

func newRootCmd() (*cobra.Command, *app) {
	a := &app{cfg: config.Default(), out: os.Stdout}

	root := &cobra.Command{
		Use:           "computeguide",
		Short:         "Run single-dispatch GPU compute examples",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := a.cfg.Validate(); err != nil {
				return err
			}
			log, err := a.cfg.Logger()
			if err != nil {
				return err
			}
			a.log = log
			a.out = cmd.OutOrStdout()
			return nil
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.cfg.LogLevel, "log-level", a.cfg.LogLevel, "log level (debug, info, warn, error)")
	pf.StringVar(&a.cfg.Format, "format", a.cfg.Format, "output format (debug, table)")
	pf.BoolVar(&a.cfg.Verify, "verify", a.cfg.Verify, "compare the readback against the CPU result")

	root.AddCommand(
		a.numbersCmd(),
		a.rectsCmd(),
		a.probeCmd(),
		a.spirvCmd(),
	)
	return root, a
}

// fail reports the error that ended the run.
func (a *app) fail(w io.Writer, err error) {
	if a.log == nil {
		fmt.Fprintln(w, "computeguide:", err)
		return
	}
	a.log.Error("run failed", zap.Error(err))
	_ = a.log.Sync()
}

// withContext opens the GPU context for one command and releases it after.
func (a *app) withContext(fn func(c *gpu.Context) error) error {
	c, err := gpu.NewContext(a.log)
	if err != nil {
		return err
	}
	defer c.Release()
	return fn(c)
}

func (a *app) numbersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "numbers",
		Short: "Multiply 0..1024 by 12 in one dispatch and print the buffer",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withContext(func(c *gpu.Context) error {
				values, err := compute.RunNumbers(c)
				if err != nil {
					return err
				}
				if a.cfg.Verify {
					if err := compute.VerifyNumbers(values); err != nil {
						return err
					}
					a.log.Info("readback matches CPU reference", zap.Int("elements", len(values)))
				}
				return report.Numbers(a.out, values, a.cfg.OutputFormat())
			})
		},
	}
}

func (a *app) rectsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rects",
		Short: "Double pos_x of 1024 derived rects in one dispatch and print them",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withContext(func(c *gpu.Context) error {
				rects, err := compute.RunRects(c)
				if err != nil {
					return err
				}
				if a.cfg.Verify {
					if err := compute.VerifyRects(rects); err != nil {
						return err
					}
					a.log.Info("readback matches CPU reference", zap.Int("elements", len(rects)))
				}
				return report.Rects(a.out, rects, a.cfg.OutputFormat())
			})
		},
	}
}

func (a *app) probeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "probe",
		Short: "Print the selected adapter's compute limits as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withContext(func(c *gpu.Context) error {
				js, err := detector.DetectJSON(c)
				if err != nil {
					return err
				}
				_, err = fmt.Fprintln(a.out, js)
				return err
			})
		},
	}
}

func (a *app) spirvCmd() *cobra.Command {
	var (
		output string
		debug  bool
	)
	cmd := &cobra.Command{
		Use:       "spirv <program>",
		Short:     "Compile an embedded shader to SPIR-V",
		Args:      cobra.ExactArgs(1),
		ValidArgs: shader.Names(),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := shader.Lookup(args[0])
			if err != nil {
				return err
			}
			bin, err := shader.CompileSPIRV(src, debug)
			if err != nil {
				return err
			}
			if output == "" {
				_, err = a.out.Write(bin)
				return err
			}
			if err := os.WriteFile(output, bin, 0o644); err != nil {
				return fmt.Errorf("failed to write %s: %w", output, err)
			}
			a.log.Info("wrote SPIR-V", zap.String("program", src.Name), zap.String("path", output), zap.Int("bytes", len(bin)))
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: stdout)")
	cmd.Flags().BoolVar(&debug, "debug", false, "include debug info")
	return cmd
}
