// Copyright © 2026 The transdist authors.
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package temporal implements a command to estimate
// the transmission kernel of an epidemic
// over cumulative time windows.
package temporal

import (
	"fmt"

	"github.com/js-arias/command"
	"github.com/shauntruelove/transdist/epi"
	"github.com/shauntruelove/transdist/gentime"
	"github.com/shauntruelove/transdist/infer/kernel"
)

var Command = &command.Command{
	Usage: `temporal --mean <value> --sd <value>
	[--gamma] [--t1 <time>]
	[--max-sep <number>] [--max-dist <value>]
	[--reps <number>] [--seed <number>] [--cpu <number>]
	[--boot <number>] [--ci <low>,<high>]
	<case-file>`,
	Short: "estimate the transmission kernel over time",
	Long: `
Command temporal reads a table of observed cases and estimates the mean and
standard deviation of the transmission kernel for each cumulative window of
the epidemic: for each unique onset time, the estimation runs on all the
cases at or before that time.

The argument of the command, and all the flags, are as in the est command;
see "transdist help est" for a description.

The output is printed in the standard output as a tab-delimited table with
one row per onset time and the columns t, mu, sigma, mu-bound, and
sigma-bound, and, with the flag --boot, the columns mu-low, mu-high,
sigma-low, and sigma-high. A window without enough cases for an estimate is
reported with "NA" values.
	`,
	SetFlags: setFlags,
	Run:      run,
}

var meanFlag float64
var sdFlag float64
var useGamma bool
var t1Flag int
var maxSep int
var maxDist float64
var repsFlag int
var seedFlag uint64
var cpuFlag int
var bootFlag int
var ciFlag string

func setFlags(c *command.Command) {
	c.Flags().Float64Var(&meanFlag, "mean", 0, "")
	c.Flags().Float64Var(&sdFlag, "sd", 0, "")
	c.Flags().BoolVar(&useGamma, "gamma", false, "")
	c.Flags().IntVar(&t1Flag, "t1", 0, "")
	c.Flags().IntVar(&maxSep, "max-sep", 10, "")
	c.Flags().Float64Var(&maxDist, "max-dist", 0, "")
	c.Flags().IntVar(&repsFlag, "reps", 100, "")
	c.Flags().Uint64Var(&seedFlag, "seed", 0, "")
	c.Flags().IntVar(&cpuFlag, "cpu", 0, "")
	c.Flags().IntVar(&bootFlag, "boot", 0, "")
	c.Flags().StringVar(&ciFlag, "ci", "0.025,0.975", "")
}

func run(c *command.Command, args []string) error {
	if len(args) < 1 {
		return c.UsageError("expecting case file")
	}
	if sdFlag <= 0 {
		return c.UsageError("expecting generation time, flags --mean and --sd")
	}
	var d gentime.Distribution
	if useGamma {
		d = gentime.Gamma{Mean: meanFlag, SD: sdFlag}
	} else {
		d = gentime.Normal{Mean: meanFlag, SD: sdFlag}
	}
	p := kernel.Param{
		GenTime: d,
		T1:      t1Flag,
		MaxSep:  maxSep,
		MaxDist: maxDist,
		Reps:    repsFlag,
		Seed:    seedFlag,
		Workers: cpuFlag,
	}

	cases, err := epi.Read(args[0])
	if err != nil {
		return err
	}

	var series []kernel.TimeEstimate
	if bootFlag > 0 {
		var low, high float64
		if _, err := fmt.Sscanf(ciFlag, "%f,%f", &low, &high); err != nil {
			return c.UsageError(fmt.Sprintf("invalid --ci value %q", ciFlag))
		}
		bp := kernel.BootParam{
			Iter: bootFlag,
			Low:  low,
			High: high,
		}
		series, err = kernel.TemporalBootstrap(cases, p, bp)
	} else {
		series, err = kernel.Temporal(cases, p)
	}
	if err != nil {
		return err
	}

	if bootFlag > 0 {
		fmt.Fprintf(c.Stdout(), "t\tmu\tsigma\tmu-bound\tsigma-bound\tmu-low\tmu-high\tsigma-low\tsigma-high\n")
	} else {
		fmt.Fprintf(c.Stdout(), "t\tmu\tsigma\tmu-bound\tsigma-bound\n")
	}
	for _, e := range series {
		if !e.Ok {
			fmt.Fprintf(c.Stdout(), "%d", e.T)
			cols := 4
			if bootFlag > 0 {
				cols = 8
			}
			for range cols {
				fmt.Fprintf(c.Stdout(), "\tNA")
			}
			fmt.Fprintf(c.Stdout(), "\n")
			continue
		}
		fmt.Fprintf(c.Stdout(), "%d\t%.6f\t%.6f\t%.6f\t%.6f",
			e.T, e.Mu, e.Sigma, e.MuBound, e.SigmaBound)
		if bootFlag > 0 {
			fmt.Fprintf(c.Stdout(), "\t%.6f\t%.6f\t%.6f\t%.6f",
				e.MuLow, e.MuHigh, e.SigmaLow, e.SigmaHigh)
		}
		fmt.Fprintf(c.Stdout(), "\n")
	}
	return nil
}
