package mcpserver

import (
	"context"
	"sort"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/maptools/maptools/funcs"
	"github.com/maptools/maptools/mapper"
)

type mapInput struct {
	Mapping documentInput  `json:"mapping"           jsonschema:"The mapping document to evaluate"`
	Input   documentInput  `json:"input"             jsonschema:"The input document to map"`
	Initial map[string]any `json:"initial,omitempty" jsonschema:"Initial content seeded into the output document"`
}

type mapIssue struct {
	SourcePath string `json:"source_path,omitempty"`
	TargetPath string `json:"target_path,omitempty"`
	Constraint string `json:"constraint,omitempty"`
	Message    string `json:"message"`
}

type mapOutput struct {
	Valid      bool       `json:"valid"`
	ErrorCount int        `json:"error_count"`
	Errors     []mapIssue `json:"errors,omitempty"`
	Output     any        `json:"output,omitempty"`
}

// evaluate runs one stateless tool call: every call constructs its own engine
// with the builtin registries and evaluates the given mapping document.
func evaluate(ctx context.Context, in mapInput) (*mapper.Result, error) {
	mappingDoc, err := in.Mapping.resolveMapping()
	if err != nil {
		return nil, err
	}
	inputDoc, err := in.Input.resolveData()
	if err != nil {
		return nil, err
	}
	engine, err := mapper.New(nil, mapper.Options{
		Initializers: funcs.Initializers(),
		Transformers: funcs.Transformers(),
		Plugins:      funcs.Plugins(),
	})
	if err != nil {
		return nil, err
	}
	return engine.Map(ctx, mappingDoc, inputDoc, in.Initial)
}

func issuesOut(recorded []mapper.ValidationIssue) []mapIssue {
	if len(recorded) > cfg.ErrorLimit {
		recorded = recorded[:cfg.ErrorLimit]
	}
	out := makeSlice[mapIssue](len(recorded))
	for _, issue := range recorded {
		out = append(out, mapIssue{
			SourcePath: issue.SourcePath,
			TargetPath: issue.TargetPath,
			Constraint: issue.Constraint,
			Message:    issue.Message,
		})
	}
	return out
}

func handleMap(ctx context.Context, _ *mcp.CallToolRequest, input mapInput) (*mcp.CallToolResult, mapOutput, error) {
	result, err := evaluate(ctx, input)
	if err != nil {
		return errResult(err), mapOutput{}, nil
	}
	return nil, mapOutput{
		Valid:      result.Valid,
		ErrorCount: len(result.Errors),
		Errors:     issuesOut(result.Errors),
		Output:     result.Output,
	}, nil
}

type validateOutput struct {
	Valid      bool       `json:"valid"`
	ErrorCount int        `json:"error_count"`
	Errors     []mapIssue `json:"errors,omitempty"`
}

func handleValidateMapping(ctx context.Context, _ *mcp.CallToolRequest, input mapInput) (*mcp.CallToolResult, validateOutput, error) {
	result, err := evaluate(ctx, input)
	if err != nil {
		return errResult(err), validateOutput{}, nil
	}
	return nil, validateOutput{
		Valid:      result.Valid,
		ErrorCount: len(result.Errors),
		Errors:     issuesOut(result.Errors),
	}, nil
}

type listInput struct {
	Mapping documentInput `json:"mapping" jsonschema:"The mapping document to inspect"`
}

type mappingSummary struct {
	ID          string `json:"id"`
	Description string `json:"description,omitempty"`
	Extends     string `json:"extends,omitempty"`
	Pairings    int    `json:"pairings"`
}

type listOutput struct {
	Count    int              `json:"count"`
	Mappings []mappingSummary `json:"mappings,omitempty"`
}

func handleListMappings(_ context.Context, _ *mcp.CallToolRequest, input listInput) (*mcp.CallToolResult, listOutput, error) {
	doc, err := input.Mapping.resolveMapping()
	if err != nil {
		return errResult(err), listOutput{}, nil
	}
	engine, err := mapper.New(doc, mapper.Options{})
	if err != nil {
		return errResult(err), listOutput{}, nil
	}

	ids := engine.Mappings()
	sort.Strings(ids)
	out := listOutput{Count: len(ids), Mappings: makeSlice[mappingSummary](len(ids))}
	for _, id := range ids {
		registered, ok := engine.Mapping(id)
		if !ok {
			continue
		}
		summary := mappingSummary{ID: id}
		if desc, found := registered.Get("description"); found {
			summary.Description, _ = desc.(string)
		}
		if ext, found := registered.Get("$extend"); found {
			summary.Extends, _ = ext.(string)
		}
		if body, found := registered.Get("mapping"); found {
			if bodyObj, isObj := body.(*mapper.Object); isObj {
				summary.Pairings = bodyObj.Len()
			}
		}
		out.Mappings = append(out.Mappings, summary)
	}
	return nil, out, nil
}
