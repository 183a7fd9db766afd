// Copyright © 2026 The transdist authors.
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// TransDist is a tool to estimate the mean distance
// of disease transmission events
// from a table of case locations and onset times.
package main

import (
	"github.com/js-arias/command"
	"github.com/shauntruelove/transdist/cmd/transdist/est"
	"github.com/shauntruelove/transdist/cmd/transdist/temporal"
)

var app = &command.Command{
	Usage: "transdist <command> [<argument>...]",
	Short: "a tool to estimate the distance of disease transmission",
}

func init() {
	app.Add(est.Command)
	app.Add(temporal.Command)
}

func main() {
	app.Main()
}
