package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/san-kum/sdesim/internal/config"
	"github.com/san-kum/sdesim/internal/experiment"
	"github.com/san-kum/sdesim/internal/export"
	"github.com/san-kum/sdesim/internal/optim"
	"github.com/san-kum/sdesim/internal/storage"
	"github.com/san-kum/sdesim/internal/telemetry"
)

// withParam returns a copy of base with one named field replaced.
func withParam(base *config.Config, name string, v float64) (*config.Config, error) {
	cfg := *base
	switch name {
	case "diffusion":
		cfg.Diffusion = v
	case "force":
		cfg.Force = v
	case "dt":
		cfg.Dt = v
	default:
		return nil, fmt.Errorf("cannot sweep %q", name)
	}
	return &cfg, nil
}

func runSweep(cmd *cobra.Command, args []string) error {
	base, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	if _, err := withParam(base, sweepParam, 0); err != nil {
		return err
	}

	grid, err := optim.NewGridSearch([]string{sweepParam}, [][]float64{sweepVals})
	if err != nil {
		return err
	}

	reg := experiment.NewRegistry()
	objective := func(ctx context.Context, params map[string]float64) (float64, error) {
		cfg, err := withParam(base, sweepParam, params[sweepParam])
		if err != nil {
			return 0, err
		}
		res, err := experiment.NewTwin(reg, cfg, nil).Run(ctx)
		if err != nil {
			return 0, err
		}
		return res.FinalRMSE(), nil
	}

	best, val, points, err := grid.Search(cmd.Context(), objective)
	if err != nil && best == nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%s\tFINAL RMSE\n", sweepParam)
	for _, p := range points {
		if p.Err != nil {
			fmt.Fprintf(w, "%g\terror: %v\n", p.Params[sweepParam], p.Err)
			continue
		}
		fmt.Fprintf(w, "%g\t%.4f\n", p.Params[sweepParam], p.Value)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	fmt.Printf("\nlowest rmse at %s=%g: %.4f\n", sweepParam, best[sweepParam], val)
	return nil
}

func exportSVG(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	states, _, err := st.LoadStates(args[0])
	if err != nil {
		return err
	}
	if len(states) == 0 {
		return fmt.Errorf("no data to export")
	}

	series := make([][]float64, 0, 3)
	for idx := 0; idx < min(len(states[0]), 3); idx++ {
		s := make([]float64, len(states))
		for k := range states {
			s[k] = states[k][idx]
		}
		series = append(series, s)
	}

	path := outFile
	if path == "" {
		path = args[0] + ".svg"
	}
	if err := os.WriteFile(path, []byte(export.SeriesToSVG(series, 800, 300)), 0644); err != nil {
		return err
	}
	telemetry.FromContext(cmd.Context()).Info("exported svg", "run_id", args[0], "path", path)
	fmt.Println(path)
	return nil
}
