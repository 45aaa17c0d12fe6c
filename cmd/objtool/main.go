// objtool inspects, smooths and shadows OBJ models from the command line.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/muesli/termenv"
)

// errUsage marks bad command lines; the command already printed its usage.
var errUsage = errors.New("usage")

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run executes one objtool command and returns the process exit code.
func run(args []string, stdout, stderr io.Writer) int {
	if len(args) < 1 {
		printUsage(stderr)
		return 1
	}

	t := &tool{
		out:    termenv.NewOutput(stdout),
		stdout: stdout,
		stderr: stderr,
	}

	command, rest := args[0], args[1:]
	var err error
	switch command {
	case "info":
		err = t.cmdInfo(rest)
	case "dump":
		err = t.cmdDump(rest)
	case "centroid":
		err = t.cmdCentroid(rest)
	case "smooth":
		err = t.cmdSmooth(rest)
	case "shadow":
		err = t.cmdShadow(rest)
	case "help", "-h", "--help":
		printUsage(stdout)
		return 0
	default:
		fmt.Fprintf(stderr, "Unknown command: %s\n", command)
		printUsage(stderr)
		return 1
	}

	if err != nil {
		if !errors.Is(err, errUsage) {
			fmt.Fprintln(stderr, t.errorStyle("Error: "+err.Error()))
		}
		return 1
	}
	return 0
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, `objtool - OBJ model utility

Usage:
  objtool <command> [options] <model>

Commands:
  info <model>                       Show counts, centroid and bounds
  dump <model>                       List every vertex, face and color
  centroid <model>                   Print the centroid
  smooth [-n N] [-o out] <model>     Subdivide faces and write OBJ
  shadow [-light x,y,z] [-plane y] [-o out] <model>
                                     Project the model onto a floor plane

Models are file names (".obj" is optional) relative to -dir, or http(s) URLs.

Examples:
  objtool info icosahedron
  objtool smooth -n 2 -regular -o ball.obj icosahedron
  objtool shadow -light 0,10,0 -plane -1 cube`)
}
