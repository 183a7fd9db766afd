// Copyright © 2026 The transdist authors.
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package est implements a command to estimate
// the transmission kernel of an epidemic
// from a table of observed cases.
package est

import (
	"fmt"

	"github.com/js-arias/command"
	"github.com/shauntruelove/transdist/epi"
	"github.com/shauntruelove/transdist/gentime"
	"github.com/shauntruelove/transdist/infer/kernel"
)

var Command = &command.Command{
	Usage: `est --mean <value> --sd <value>
	[--gamma] [--t1 <time>]
	[--max-sep <number>] [--max-dist <value>]
	[--reps <number>] [--seed <number>] [--cpu <number>]
	[--boot <number>] [--ci <low>,<high>]
	<case-file>`,
	Short: "estimate the transmission kernel",
	Long: `
Command est reads a table of observed cases and estimates the mean and
standard deviation of the transmission kernel: the distribution of the
spatial distance traversed by a single transmission event.

The argument of the command is the name of a tab-delimited file with the
columns "x" and "y" (the location of each case) and "t" (the onset time of
each case, binned to a discrete step).

The flags --mean and --sd are required and define the mean and standard
deviation of the generation-time distribution, in the same time steps used by
the case table. By default a normal density is used; use the flag --gamma for
a gamma density.

The flag --t1 defines the earliest onset time included in the estimation. The
flag --max-sep bounds the number of transmission generations considered
between two cases; its default is 10. The flag --max-dist excludes case pairs
farther apart than the given distance.

The estimation samples random transmission trees; use the flag --reps to
define the number of sampled trees (100 by default) and the flag --seed for a
reproducible run. By default all sampling is sequential; use the flag --cpu
to define a number of parallel processes.

If the flag --boot is defined with a number of iterations, bootstrap
confidence bounds will be reported, resampling the case table with
replacement on each iteration. The flag --ci defines the reported quantiles
as two comma separated values; its default is "0.025,0.975".

The output is printed in the standard output as a tab-delimited table with
the columns mu, sigma, mu-bound, and sigma-bound, and, with the flag --boot,
the columns mu-low, mu-high, sigma-low, and sigma-high.
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
		b, err := kernel.Bootstrap(cases, p, bp)
		if err != nil {
			return err
		}
		fmt.Fprintf(c.Stdout(), "mu\tsigma\tmu-bound\tsigma-bound\tmu-low\tmu-high\tsigma-low\tsigma-high\n")
		fmt.Fprintf(c.Stdout(), "%.6f\t%.6f\t%.6f\t%.6f\t%.6f\t%.6f\t%.6f\t%.6f\n",
			b.Mu, b.Sigma, b.MuBound, b.SigmaBound,
			b.MuLow, b.MuHigh, b.SigmaLow, b.SigmaHigh)
		return nil
	}

	e, err := kernel.New(cases, p)
	if err != nil {
		return err
	}
	fmt.Fprintf(c.Stdout(), "mu\tsigma\tmu-bound\tsigma-bound\n")
	fmt.Fprintf(c.Stdout(), "%.6f\t%.6f\t%.6f\t%.6f\n",
		e.Mu, e.Sigma, e.MuBound, e.SigmaBound)
	return nil
}
