// Package contract declares the structured shapes the generator must return
// and turns raw replies into the application's data model.
package contract

// Kind is the JSON type of a schema node.
type Kind string

const (
	KindObject Kind = "object"
	KindArray  Kind = "array"
	KindString Kind = "string"
)

// Schema is a node of the output contract. Object properties are ordered and
// every property listed in Required must be present.
type Schema struct {
	Kind        Kind
	Description string
	Properties  []Property
	Required    []string
	Items       *Schema
}

// Property is a named child of an object schema.
type Property struct {
	Name   string
	Schema *Schema
}

// Property returns the child schema called name, or nil.
func (s *Schema) Property(name string) *Schema {
	for _, p := range s.Properties {
		if p.Name == name {
			return p.Schema
		}
	}
	return nil
}

func str(description string) *Schema {
	return &Schema{Kind: KindString, Description: description}
}

func stringList(description string) *Schema {
	return &Schema{Kind: KindArray, Description: description, Items: &Schema{Kind: KindString}}
}

var bodyPosts = stringList("The main body of the thread, with each element being a separate post.")

// Thread is the contract for full generation and refinement.
var Thread = &Schema{
	Kind: KindObject,
	Properties: []Property{
		{"hookVariations", &Schema{
			Kind:        KindObject,
			Description: "4 variations for the opening post (hook) of the thread.",
			Properties: []Property{
				{"curiosity", str("A hook that piques curiosity.")},
				{"listicle", str("A hook formatted as a listicle teaser.")},
				{"emotional", str("A hook that connects on an emotional level.")},
				{"contrarian", str("A hook that presents a contrarian viewpoint.")},
			},
			Required: []string{"curiosity", "listicle", "emotional", "contrarian"},
		}},
		{"bodyPosts", bodyPosts},
		{"ctaVariations", &Schema{
			Kind:        KindObject,
			Description: "3 variations for the closing post (Call To Action) of the thread.",
			Properties: []Property{
				{"question", str("A CTA that asks the audience a question.")},
				{"recap", str("A CTA that recaps the thread's main points.")},
				{"promotional", str("A promotional CTA (e.g., follow, subscribe).")},
			},
			Required: []string{"question", "recap", "promotional"},
		}},
		{"hashtags", stringList("An array of 3-5 relevant hashtags.")},
	},
	Required: []string{"hookVariations", "bodyPosts", "ctaVariations", "hashtags"},
}

// Body is the contract for body regeneration.
var Body = &Schema{
	Kind:       KindObject,
	Properties: []Property{{"bodyPosts", bodyPosts}},
	Required:   []string{"bodyPosts"},
}

// JSONSchema renders s as a JSON-Schema document, for providers that take the
// contract as part of the instruction rather than as a request parameter.
func (s *Schema) JSONSchema() map[string]any {
	out := map[string]any{"type": string(s.Kind)}
	if s.Description != "" {
		out["description"] = s.Description
	}
	if s.Items != nil {
		out["items"] = s.Items.JSONSchema()
	}
	if len(s.Properties) > 0 {
		props := make(map[string]any, len(s.Properties))
		for _, p := range s.Properties {
			props[p.Name] = p.Schema.JSONSchema()
		}
		out["properties"] = props
	}
	if len(s.Required) > 0 {
		out["required"] = s.Required
	}
	return out
}
