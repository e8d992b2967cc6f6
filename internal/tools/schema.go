package tools

import (
	"sort"

	"github.com/mark3labs/mcp-go/mcp"
)

// property is one entry of a tool's input schema.
type property map[string]any

func newTool(name, description string, required []string, properties map[string]property) mcp.Tool {
	props := make(map[string]any, len(properties))
	for key, value := range properties {
		props[key] = map[string]any(value)
	}

	req := append([]string(nil), required...)
	sort.Strings(req)

	return mcp.Tool{
		Name:        name,
		Description: description,
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: props,
			Required:   req,
		},
	}
}

func stringProp(description string) property {
	return property{"type": "string", "description": description}
}

func boolProp(description string, def bool) property {
	return property{"type": "boolean", "description": description, "default": def}
}

func integerProp(description string) property {
	return property{"type": "integer", "description": description}
}

func stringMapProp(description string) property {
	return property{
		"type":                 "object",
		"description":          description,
		"additionalProperties": map[string]any{"type": "string"},
	}
}

func filtersProp() property {
	return property{
		"type":        "object",
		"description": `Engine list filters, for example {"status": ["running"]} or {"label": "app=web"}`,
		"additionalProperties": map[string]any{
			"type":  []string{"string", "array"},
			"items": map[string]any{"type": "string"},
		},
	}
}

// containerProps describes the arguments shared by create_container, run_container, and
// recreate_container.
func containerProps() map[string]property {
	return map[string]property{
		"image": stringProp("Image to create the container from"),
		"name":  stringProp("Container name"),
		"command": {
			"type":        []string{"string", "array"},
			"description": "Command to run, as a string split with shell rules or a list of arguments",
			"items":       map[string]any{"type": "string"},
		},
		"entrypoint": {
			"type":        []string{"string", "array"},
			"description": "Entrypoint override, as a string or a list of arguments",
			"items":       map[string]any{"type": "string"},
		},
		"environment": {
			"type":        []string{"object", "array"},
			"description": "Environment variables as a mapping or a list of KEY=VALUE strings",
			"items":       map[string]any{"type": "string"},
		},
		"ports": {
			"type":        "object",
			"description": `Port bindings, container port to host port: {"80/tcp": 8080, "53/udp": "127.0.0.1:5353", "443": null}`,
			"additionalProperties": map[string]any{
				"type": []string{"integer", "string", "array", "null"},
			},
		},
		"volumes": {
			"type":        []string{"array", "object"},
			"description": `Bind mounts as "host:container[:mode]" strings or a mapping of host path to {"bind": path, "mode": "rw"}`,
			"items":       map[string]any{"type": "string"},
		},
		"labels":      stringMapProp("Container labels"),
		"network":     stringProp("Network to connect the container to"),
		"working_dir": stringProp("Working directory inside the container"),
		"user":        stringProp("User to run as"),
		"auto_remove": boolProp("Remove the container when it exits", false),
	}
}
