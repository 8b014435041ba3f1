package prompts

// ToolName is the function exposed to the model for schema-guided analysis.
const ToolName = "analyze_paper"

var baseProperties = map[string]any{
	"title":             map[string]any{"type": "string", "description": "Paper title"},
	"summary":           map[string]any{"type": "string", "description": "Brief summary of the paper's content"},
	"problem":           map[string]any{"type": "string", "description": "What problem the paper addresses"},
	"solution":          map[string]any{"type": "string", "description": "How the paper solves the problem"},
	"limitations":       map[string]any{"type": "string", "description": "Limitations or unresolved issues"},
	"key_contributions": map[string]any{"type": "string", "description": "Main contributions of the paper"},
}

// ToolParameters returns the JSON-schema parameter block for the analyze_paper
// function. The enhanced tier adds research_significance to the required set.
func ToolParameters(version string) map[string]any {
	props := make(map[string]any, len(baseProperties)+1)
	for k, v := range baseProperties {
		props[k] = v
	}
	required := []string{"title", "summary", "problem", "solution", "limitations", "key_contributions"}
	if IsEnhanced(version) {
		props["research_significance"] = map[string]any{"type": "string", "description": "Research significance and impact"}
		required = append(required, "research_significance")
	}
	return map[string]any{
		"type":       "object",
		"properties": props,
		"required":   required,
	}
}
