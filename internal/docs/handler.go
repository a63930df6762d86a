package docs

import (
	"bytes"
	_ "embed"
	"fmt"
	"html/template"
	"net/http"
	"slices"

	"github.com/getkin/kin-openapi/openapi3"
	httpSwagger "github.com/swaggo/http-swagger/v2"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// Paths under which the documentation is served.
const (
	JSONPath      = "/openapi.json"
	YAMLPath      = "/openapi.yaml"
	SwaggerPath   = "/docs/"
	ReferencePath = "/reference"
)

//go:embed assets/scalar.html
var scalarHTML string

var referenceTemplate = template.Must(template.New("scalar").Parse(scalarHTML))

// Handler serves a rendered OpenAPI document in several formats.
type Handler struct {
	logger    *zap.Logger
	jsonBody  []byte
	yamlBody  []byte
	reference []byte
	swagger   http.Handler
}

// NewHandler renders the document once so every request serves the same bytes.
func NewHandler(doc *openapi3.T, logger *zap.Logger) (*Handler, error) {
	if doc == nil {
		return nil, fmt.Errorf("openapi document is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	jsonBody, err := doc.MarshalJSON()
	if err != nil {
		return nil, fmt.Errorf("marshal openapi json: %w", err)
	}
	yamlBody, err := jsonToYAML(jsonBody)
	if err != nil {
		return nil, fmt.Errorf("marshal openapi yaml: %w", err)
	}

	title := ""
	if doc.Info != nil {
		title = doc.Info.Title
	}
	var page bytes.Buffer
	if err := referenceTemplate.Execute(&page, struct {
		Title   string
		SpecURL string
	}{Title: title, SpecURL: JSONPath}); err != nil {
		return nil, fmt.Errorf("render reference page: %w", err)
	}

	return &Handler{
		logger:    logger,
		jsonBody:  jsonBody,
		yamlBody:  yamlBody,
		reference: page.Bytes(),
		swagger: httpSwagger.Handler(
			httpSwagger.URL(JSONPath),
			httpSwagger.DocExpansion("none"),
			httpSwagger.DeepLinking(true),
		),
	}, nil
}

// Register mounts the documentation routes on mux.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET "+JSONPath, h.serveJSON)
	mux.HandleFunc("GET "+YAMLPath, h.serveYAML)
	mux.Handle("GET "+SwaggerPath, h.swagger)
	mux.HandleFunc("GET "+ReferencePath, h.serveReference)
}

func (h *Handler) serveJSON(w http.ResponseWriter, _ *http.Request) {
	h.write(w, "application/json", h.jsonBody)
}

func (h *Handler) serveYAML(w http.ResponseWriter, _ *http.Request) {
	h.write(w, "application/yaml", h.yamlBody)
}

func (h *Handler) serveReference(w http.ResponseWriter, _ *http.Request) {
	h.write(w, "text/html; charset=utf-8", h.reference)
}

func (h *Handler) write(w http.ResponseWriter, contentType string, body []byte) {
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		h.logger.Warn("failed to write documentation response", zap.Error(err))
	}
}

// topLevelOrder is the conventional order of OpenAPI root fields. Unlisted
// fields follow in their original order.
var topLevelOrder = []string{"openapi", "info", "servers", "tags", "paths", "components", "security", "externalDocs"}

// jsonToYAML re-encodes a JSON document as block-style YAML. Nested keys keep
// the JSON order; root fields follow topLevelOrder.
func jsonToYAML(data []byte) ([]byte, error) {
	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return nil, err
	}
	blockStyle(&node)
	if node.Kind == yaml.DocumentNode && len(node.Content) == 1 {
		orderMapping(node.Content[0], topLevelOrder)
	}
	return yaml.Marshal(&node)
}

// orderMapping moves the listed keys of a mapping node to the front.
func orderMapping(m *yaml.Node, order []string) {
	if m.Kind != yaml.MappingNode {
		return
	}
	rank := make(map[string]int, len(order))
	for i, key := range order {
		rank[key] = i
	}

	type pair struct{ key, value *yaml.Node }
	pairs := make([]pair, 0, len(m.Content)/2)
	for i := 0; i+1 < len(m.Content); i += 2 {
		pairs = append(pairs, pair{m.Content[i], m.Content[i+1]})
	}
	slices.SortStableFunc(pairs, func(a, b pair) int {
		ra, okA := rank[a.key.Value]
		rb, okB := rank[b.key.Value]
		switch {
		case okA && okB:
			return ra - rb
		case okA:
			return -1
		case okB:
			return 1
		default:
			return 0
		}
	})

	content := make([]*yaml.Node, 0, len(m.Content))
	for _, p := range pairs {
		content = append(content, p.key, p.value)
	}
	m.Content = content
}

func blockStyle(n *yaml.Node) {
	n.Style = 0
	for _, child := range n.Content {
		blockStyle(child)
	}
}
