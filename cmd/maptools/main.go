package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"

	"go.yaml.in/yaml/v4"

	"github.com/maptools/maptools"
	"github.com/maptools/maptools/funcs"
	"github.com/maptools/maptools/internal/mcpserver"
	"github.com/maptools/maptools/loader"
	"github.com/maptools/maptools/mapper"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]

	switch command {
	case "version", "-v", "--version":
		fmt.Printf("maptools v%s\n", maptools.Version())
	case "help", "-h", "--help":
		printUsage()
	case "map":
		if err := handleMap(os.Args[2:]); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "validate":
		if err := handleValidate(os.Args[2:]); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "mcp":
		if err := handleMCP(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}
}

// mapFlags contains flags for the map command
type mapFlags struct {
	mappingPath string
	inputPath   string
	outputPath  string
	compact     bool
}

func setupMapFlags(name string) (*flag.FlagSet, *mapFlags) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	flags := &mapFlags{}

	fs.StringVar(&flags.mappingPath, "mapping", "", "path to the mapping document (YAML or JSON)")
	fs.StringVar(&flags.inputPath, "input", "", "path to the input document (YAML or JSON, - for stdin)")
	fs.StringVar(&flags.outputPath, "output", "", "write the output document to a file instead of stdout")
	fs.BoolVar(&flags.compact, "compact", false, "emit compact JSON instead of indented")

	fs.Usage = func() {
		output := fs.Output()
		_, _ = fmt.Fprintf(output, "Usage: maptools %s -mapping <file> -input <file|-> [flags]\n\n", name)
		_, _ = fmt.Fprintf(output, "Flags:\n")
		fs.PrintDefaults()
	}
	return fs, flags
}

func runMapping(flags *mapFlags) (*mapper.Result, error) {
	if flags.mappingPath == "" || flags.inputPath == "" {
		return nil, fmt.Errorf("both -mapping and -input are required")
	}

	doc, err := loader.LoadFile(flags.mappingPath)
	if err != nil {
		return nil, err
	}

	var raw []byte
	if flags.inputPath == "-" {
		raw, err = io.ReadAll(os.Stdin)
	} else {
		raw, err = os.ReadFile(flags.inputPath)
	}
	if err != nil {
		return nil, fmt.Errorf("reading input: %w", err)
	}
	var input any
	if err := yaml.Unmarshal(raw, &input); err != nil {
		return nil, fmt.Errorf("parsing input: %w", err)
	}

	m, err := mapper.New(nil, mapper.Options{
		Initializers: funcs.Initializers(),
		Transformers: funcs.Transformers(),
		Plugins:      funcs.Plugins(),
	})
	if err != nil {
		return nil, err
	}
	return m.Map(context.Background(), doc.Mapping, input, nil)
}

func handleMap(args []string) error {
	fs, flags := setupMapFlags("map")
	if err := fs.Parse(args); err != nil {
		return err
	}

	result, err := runMapping(flags)
	if err != nil {
		return err
	}

	var encoded []byte
	if flags.compact {
		encoded, err = json.Marshal(result.Output)
	} else {
		encoded, err = json.MarshalIndent(result.Output, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("encoding output: %w", err)
	}

	if flags.outputPath != "" {
		if err := os.WriteFile(flags.outputPath, append(encoded, '\n'), 0o644); err != nil {
			return err
		}
	} else {
		fmt.Println(string(encoded))
	}

	if !result.Valid {
		reportIssues(result)
		return fmt.Errorf("%d validation issue(s)", len(result.Errors))
	}
	return nil
}

func handleValidate(args []string) error {
	fs, flags := setupMapFlags("validate")
	if err := fs.Parse(args); err != nil {
		return err
	}

	result, err := runMapping(flags)
	if err != nil {
		return err
	}

	if result.Valid {
		fmt.Println("✓ valid")
		return nil
	}
	reportIssues(result)
	return fmt.Errorf("%d validation issue(s)", len(result.Errors))
}

func reportIssues(result *mapper.Result) {
	for _, issue := range result.Errors {
		fmt.Fprintln(os.Stderr, issue.String())
	}
}

func handleMCP() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	return mcpserver.Run(ctx)
}

func printUsage() {
	fmt.Printf(`maptools v%s - declarative JSON mapping engine

Usage: maptools <command> [flags]

Commands:
  map       Apply a mapping document to an input document and print the output
  validate  Apply a mapping document and report only the validation outcome
  mcp       Start the MCP server over stdio
  version   Print the version
  help      Show this help

Examples:
  maptools map -mapping mapping.yaml -input input.json
  maptools map -mapping mapping.yaml -input - < input.json
  maptools validate -mapping mapping.yaml -input input.json
  maptools mcp
`, maptools.Version())
}
