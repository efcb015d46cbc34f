// Package topology builds the node/edge/group model describing how routes,
// REST services, API descriptors and external endpoints interconnect.
package topology

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/routescope/core/internal/events"
	"github.com/routescope/core/internal/models"
	"github.com/routescope/core/internal/parser"
)

// DefaultInternalComponents are the schemes whose endpoints resolve to other
// routes of the same file set.
var DefaultInternalComponents = []string{"direct", "seda", "vm", "disruptor"}

const (
	OpenAPIFileName  = "openapi.json"
	AsyncAPIFileName = "asyncapi.json"
)

type Input struct {
	Files        []models.IntegrationFile
	ShowGroups   bool
	OpenAPIJSON  string
	AsyncAPIJSON string
}

type Builder struct {
	internal  map[string]bool
	suffixes  []string
	publisher events.Publisher
	topic     string
	logger    *zap.Logger
	renderKey func() string
}

type Option func(*Builder)

func WithInternalComponents(schemes []string) Option {
	return func(b *Builder) {
		b.internal = make(map[string]bool, len(schemes))
		for _, s := range schemes {
			b.internal[s] = true
		}
	}
}

func WithFileSuffixes(suffixes []string) Option {
	return func(b *Builder) {
		b.suffixes = suffixes
	}
}

func WithPublisher(p events.Publisher) Option {
	return func(b *Builder) {
		if p != nil {
			b.publisher = p
		}
	}
}

func WithTopic(topic string) Option {
	return func(b *Builder) {
		if topic != "" {
			b.topic = topic
		}
	}
}

func WithLogger(logger *zap.Logger) Option {
	return func(b *Builder) {
		if logger != nil {
			b.logger = logger
		}
	}
}

// WithRenderKey replaces the random render key generator.
func WithRenderKey(fn func() string) Option {
	return func(b *Builder) {
		b.renderKey = fn
	}
}

func NewBuilder(opts ...Option) *Builder {
	b := &Builder{
		suffixes:  parser.DefaultFileSuffixes,
		publisher: &events.NoopPublisher{},
		topic:     events.TopicFileParseFailed,
		logger:    zap.NewNop(),
	}
	WithInternalComponents(DefaultInternalComponents)(b)

	for _, opt := range opts {
		opt(b)
	}
	return b
}

// With returns a copy of b with opts applied on top of its settings.
func (b *Builder) With(opts ...Option) *Builder {
	c := *b
	for _, opt := range opts {
		opt(&c)
	}
	return &c
}

// Publisher returns the publisher parse failures are sent to.
func (b *Builder) Publisher() events.Publisher {
	return b.publisher
}

// Build derives the whole model from scratch. Files that fail to parse are
// reported to the publisher and left out; the build itself never fails.
func (b *Builder) Build(ctx context.Context, in Input) *models.Graph {
	integrations := b.parseFiles(ctx, in.Files)
	descriptors := b.parseDescriptors(ctx, in)
	ex := b.extract(integrations)

	nodes := make([]models.Node, 0)
	nodes = append(nodes, ex.routeNodes()...)
	nodes = append(nodes, ex.routeConfigurationNodes()...)
	nodes = append(nodes, ex.restNodes()...)
	nodes = append(nodes, descriptorNodes(descriptors)...)

	edges := make([]models.Edge, 0)

	// Route groups go first so a label never loses its id to a built-in group.
	groups := ex.routeGroupNodes()

	if in.ShowGroups {
		nodes = append(nodes, ex.externalEndpointNodes()...)
		edges = append(edges, ex.externalEndpointEdges()...)
		edges = append(edges, ex.crossURIEdges()...)
		groups = append(groups, ex.endpointGroups(descriptors)...)
	} else {
		index := foldUniqueURIs(ex.incoming, ex.outgoing)
		nodes = append(nodes, index.nodes(ex.routeGroups())...)
		edges = append(edges, index.edges()...)
	}

	edges = append(edges, ex.internalEdges()...)
	edges = append(edges, ex.restEdges()...)
	edges = append(edges, ex.descriptorEdges(descriptors)...)

	graph := assemble(nodes, edges, groups, b.logger)
	graph.RenderKey = b.nextRenderKey()

	b.logger.Debug("Topology built",
		zap.Bool("show_groups", in.ShowGroups),
		zap.Int("files", len(in.Files)),
		zap.Int("nodes", graph.Stats.TotalNodes),
		zap.Int("edges", graph.Stats.TotalEdges),
		zap.Int("groups", graph.Stats.TotalGroups))

	return graph
}

func (b *Builder) parseFiles(ctx context.Context, files []models.IntegrationFile) []*models.Integration {
	integrations := make([]*models.Integration, 0, len(files))

	for _, file := range files {
		if !parser.IsIntegrationFile(file.Name, b.suffixes) {
			continue
		}

		integration, err := parser.ParseIntegration(file.Name, []byte(file.Code))
		if err != nil {
			b.notify(ctx, file.Name, err)
			continue
		}
		integrations = append(integrations, integration)
	}

	return integrations
}

func (b *Builder) parseDescriptors(ctx context.Context, in Input) []*models.APIDescriptor {
	var descriptors []*models.APIDescriptor

	if in.OpenAPIJSON != "" {
		d, err := parser.ParseOpenAPI([]byte(in.OpenAPIJSON))
		if err != nil {
			b.notify(ctx, OpenAPIFileName, err)
		} else {
			descriptors = append(descriptors, d)
		}
	}

	if in.AsyncAPIJSON != "" {
		d, err := parser.ParseAsyncAPI([]byte(in.AsyncAPIJSON))
		if err != nil {
			b.notify(ctx, AsyncAPIFileName, err)
		} else {
			descriptors = append(descriptors, d)
		}
	}

	return descriptors
}

func (b *Builder) notify(ctx context.Context, fileName string, err error) {
	message := err.Error()
	var pe *parser.ParseError
	if errors.As(err, &pe) {
		message = pe.Err.Error()
	}

	b.logger.Warn("Skipping file that failed to parse",
		zap.String("file", fileName),
		zap.String("error", message))

	event := events.FileParseFailed{FileName: fileName, Message: message}
	if perr := b.publisher.Publish(ctx, b.topic, event); perr != nil {
		b.logger.Error("Failed to publish parse failure", zap.String("file", fileName), zap.Error(perr))
	}
}
