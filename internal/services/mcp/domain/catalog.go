package domain

import (
	"context"
	"fmt"

	"github.com/louisbranch/sheetkeeper/internal/services/sheet/domain/rules"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// ModifierResult is one modifier of a catalog record.
type ModifierResult struct {
	Characteristic string `json:"characteristic,omitempty" jsonschema:"characteristic targeted, when a characteristic modifier"`
	Category       string `json:"category,omitempty" jsonschema:"skill category targeted, when a skill bonus"`
	Name           string `json:"name,omitempty" jsonschema:"skill name targeted, when a skill bonus"`
	Delta          int    `json:"delta" jsonschema:"signed bonus"`
	Exclusive      bool   `json:"exclusive,omitempty" jsonschema:"whether the modifier overrides stacking"`
}

// CatalogRecord is a nationality or class as listed to agents.
type CatalogRecord struct {
	ID        string           `json:"id" jsonschema:"record identifier"`
	Name      string           `json:"name,omitempty" jsonschema:"display name"`
	Modifiers []ModifierResult `json:"modifiers" jsonschema:"modifiers in application order"`
}

// CatalogListInput is the (empty) input of the listing tools.
type CatalogListInput struct{}

// CatalogListResult is the output of the listing tools.
type CatalogListResult struct {
	Records []CatalogRecord `json:"records" jsonschema:"records ordered by id"`
}

// ListNationalitiesTool defines the MCP tool schema for listing nationalities.
func ListNationalitiesTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "list_nationalities",
		Description: "Lists the nationalities a character can choose, with their modifiers",
	}
}

// ListClassesTool defines the MCP tool schema for listing classes.
func ListClassesTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "list_classes",
		Description: "Lists the classes a character can choose, with their modifiers",
	}
}

// ListNationalitiesHandler lists catalog nationalities.
func ListNationalitiesHandler(service SheetService) mcp.ToolHandlerFor[CatalogListInput, CatalogListResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, _ CatalogListInput) (*mcp.CallToolResult, CatalogListResult, error) {
		nationalities, err := service.Nationalities(ctx)
		if err != nil {
			return nil, CatalogListResult{}, fmt.Errorf("list nationalities: %w", err)
		}
		result := CatalogListResult{Records: make([]CatalogRecord, 0, len(nationalities))}
		for _, n := range nationalities {
			result.Records = append(result.Records, catalogRecord(n.ID, n.Name, n.Modifiers()))
		}
		return &mcp.CallToolResult{}, result, nil
	}
}

// ListClassesHandler lists catalog classes.
func ListClassesHandler(service SheetService) mcp.ToolHandlerFor[CatalogListInput, CatalogListResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, _ CatalogListInput) (*mcp.CallToolResult, CatalogListResult, error) {
		classes, err := service.Classes(ctx)
		if err != nil {
			return nil, CatalogListResult{}, fmt.Errorf("list classes: %w", err)
		}
		result := CatalogListResult{Records: make([]CatalogRecord, 0, len(classes))}
		for _, c := range classes {
			result.Records = append(result.Records, catalogRecord(c.ID, c.Name, c.Modifiers()))
		}
		return &mcp.CallToolResult{}, result, nil
	}
}

func catalogRecord(id, name string, modifiers []rules.Modifier) CatalogRecord {
	record := CatalogRecord{ID: id, Name: name, Modifiers: make([]ModifierResult, 0, len(modifiers))}
	for _, m := range modifiers {
		row := ModifierResult{Delta: m.Delta, Exclusive: m.Exclusive}
		switch {
		case m.Target.Characteristic != nil:
			row.Characteristic = m.Target.Characteristic.String()
		case m.Target.Skill != nil:
			row.Category = m.Target.Skill.Category
			row.Name = m.Target.Skill.Name
		}
		record.Modifiers = append(record.Modifiers, row)
	}
	return record
}
