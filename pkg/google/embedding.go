package google

import (
	"context"

	// Packages
	client "github.com/mutablelogic/go-client"
	gemini "github.com/mutablelogic/go-gemini"
	opt "github.com/mutablelogic/go-gemini/pkg/opt"
	schema "github.com/mutablelogic/go-gemini/pkg/schema"
	errgroup "golang.org/x/sync/errgroup"
)

///////////////////////////////////////////////////////////////////////////////
// GLOBALS

const (
	// Model used when none is given
	DefaultEmbeddingModel = "gemini-embedding-001"

	// Maximum number of texts in one batchEmbedContents request
	embedBatchSize = 100

	// Maximum number of batch requests in flight
	embedConcurrency = 4
)

///////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// Embedding returns the embedding vector for a single text
func (c *Client) Embedding(ctx context.Context, model, text string, opts ...opt.Opt) ([]float64, error) {
	options, err := opt.Apply(opts...)
	if err != nil {
		return nil, err
	}

	// Create request
	model = modelNameOr(model, DefaultEmbeddingModel)
	request := embedRequestFromOpts("", text, options)
	payload, err := client.NewJSONRequest(request)
	if err != nil {
		return nil, err
	}

	// Execute the request
	var response embedResponse
	if err := c.DoWithContext(ctx, payload, &response, client.OptPath("models", model+":embedContent")); err != nil {
		return nil, providerError(err)
	} else if response.Embedding == nil {
		return nil, gemini.ErrProvider.With("empty embedding response")
	}
	return response.Embedding.Values, nil
}

// BatchEmbedding returns embedding vectors for many texts, in the same
// order as the texts. Large inputs are split into batches which are sent
// concurrently.
func (c *Client) BatchEmbedding(ctx context.Context, model string, texts []string, opts ...opt.Opt) ([][]float64, error) {
	if len(texts) == 0 {
		return nil, gemini.ErrBadParameter.With("at least one text is required")
	}
	options, err := opt.Apply(opts...)
	if err != nil {
		return nil, err
	}

	model = modelNameOr(model, DefaultEmbeddingModel)
	result := make([][]float64, len(texts))
	group, ctx := errgroup.WithContext(ctx)
	group.SetLimit(embedConcurrency)
	for start := 0; start < len(texts); start += embedBatchSize {
		end := min(start+embedBatchSize, len(texts))
		group.Go(func() error {
			vectors, err := c.batchEmbedding(ctx, model, texts[start:end], options)
			if err != nil {
				return err
			}
			copy(result[start:end], vectors)
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}
	return result, nil
}

///////////////////////////////////////////////////////////////////////////////
// PRIVATE METHODS

func (c *Client) batchEmbedding(ctx context.Context, model string, texts []string, options *opt.Options) ([][]float64, error) {
	requests := make([]*embedRequest, 0, len(texts))
	for _, text := range texts {
		requests = append(requests, embedRequestFromOpts("models/"+model, text, options))
	}
	payload, err := client.NewJSONRequest(&batchEmbedRequest{Requests: requests})
	if err != nil {
		return nil, err
	}

	var response batchEmbedResponse
	if err := c.DoWithContext(ctx, payload, &response, client.OptPath("models", model+":batchEmbedContents")); err != nil {
		return nil, providerError(err)
	} else if len(response.Embeddings) != len(texts) {
		return nil, gemini.ErrProvider.Withf("expected %d embeddings, got %d", len(texts), len(response.Embeddings))
	}

	result := make([][]float64, 0, len(response.Embeddings))
	for _, embedding := range response.Embeddings {
		result = append(result, embedding.Values)
	}
	return result, nil
}

func embedRequestFromOpts(model, text string, options *opt.Options) *embedRequest {
	return &embedRequest{
		Model:                model,
		Content:              NewContent(schema.RoleUser, TextPart(text)),
		TaskType:             options.GetString(opt.TaskTypeKey),
		Title:                options.GetString(opt.TitleKey),
		OutputDimensionality: options.GetUint(opt.OutputDimensionalityKey),
	}
}
