package main

import (
	"flag"
	"fmt"
	"os"

	"NewtonsFractal/explorer"
)

var (
	height, functionID, maxIterations, scale, width   int
	command, remoteAddress, settingsFile, snapshotFile string
	serve, verbose                                     bool
)

func parseArguments() {
	flag.StringVar(&settingsFile, "settings", "", "Json file with explorer settings")
	flag.BoolVar(&verbose, "verbose", false, "Include debug output in the logs")

	// Overrides for the settings file, zero keeps the file value
	flag.IntVar(&width, "width", 0, "Width of the raster")
	flag.IntVar(&height, "height", 0, "Height of the raster")
	flag.IntVar(&functionID, "function", 0, "Id of the function to explore (1-3)")
	flag.IntVar(&maxIterations, "maxIterations", 0, "Iterations to run for each sample")

	// Modes
	flag.StringVar(&snapshotFile, "snapshot", "", "Render once into this image file, - for stdout")
	flag.IntVar(&scale, "scale", 1, "Integer upscale applied to the snapshot")
	flag.BoolVar(&serve, "serve", false, "Serve the explorer to browsers and rpc clients")
	flag.StringVar(&remoteAddress, "remote", "", "Address of a serving explorer to control")
	flag.StringVar(&command, "command", "", "Command to send with -remote, e.g. \"zoom-in 0 0 1 1\"")

	flag.Parse()

	modes := 0
	for _, set := range []bool{snapshotFile != "", serve, remoteAddress != ""} {
		if set {
			modes++
		}
	}
	if modes != 1 {
		fmt.Fprintln(os.Stderr, "Please pick exactly one of -snapshot, -serve or -remote")
		flag.Usage()
		os.Exit(2)
	}
	if scale < 1 {
		fmt.Fprintln(os.Stderr, "-scale must be at least 1")
		os.Exit(2)
	}
}

// loadSettings reads the settings file and applies the command line overrides.
func loadSettings() (explorer.Settings, error) {
	s, err := explorer.NewSettings(settingsFile)
	if err != nil {
		return s, err
	}
	if width != 0 {
		s.Width = width
	}
	if height != 0 {
		s.Height = height
	}
	if functionID != 0 {
		s.FunctionID = functionID
	}
	if maxIterations != 0 {
		s.Params.MaxIterations = maxIterations
	}
	s.Verbose = verbose
	return s, s.Verify()
}
