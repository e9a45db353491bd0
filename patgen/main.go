package main

import (
	"bytes"
	"log"
	"os"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/mfroeh/gotori/gen"
	"github.com/mfroeh/gotori/syntax"
)

var cli struct {
	Pattern string `arg:"" name:"pattern" help:"Pattern to generate a matcher for" type:"string"`
	Package string `name:"package" short:"p" help:"Package of the generated file, set by go generate" env:"GOPACKAGE"`
	Type    string `name:"type" short:"t" required:"" help:"Exported type implementing the pattern"`
	Output  string `name:"output" short:"o" help:"Output file (default: <type>_pattern.go, - for stdout)"`
}

func main() {
	kong.Parse(&cli,
		kong.Name("patgen"),
		kong.Description("Generates a Go type matching a pattern, for use with go:generate."),
		kong.UsageOnError(),
	)

	re, err := syntax.Parse(cli.Pattern)
	if err != nil {
		log.Fatalf("failed to parse pattern: %v", err)
	}
	if cli.Package == "" {
		log.Fatalf("no package given and GOPACKAGE is not set")
	}

	var out bytes.Buffer
	err = gen.Render(&out, re, gen.Config{Package: cli.Package, Type: cli.Type, Generator: "patgen"})
	if err != nil {
		log.Fatalf("failed to generate %s: %v", cli.Type, err)
	}

	switch cli.Output {
	case "-":
		_, err = os.Stdout.Write(out.Bytes())
	case "":
		err = os.WriteFile(strings.ToLower(cli.Type)+"_pattern.go", out.Bytes(), 0o644)
	default:
		err = os.WriteFile(cli.Output, out.Bytes(), 0o644)
	}
	if err != nil {
		log.Fatalf("%v", err)
	}
}
