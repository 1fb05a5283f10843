package google

import (
	"context"
	"encoding/json"
	"net/url"
	"strings"

	// Packages
	client "github.com/mutablelogic/go-client"
	opt "github.com/mutablelogic/go-gemini/pkg/opt"
	schema "github.com/mutablelogic/go-gemini/pkg/schema"
	types "github.com/mutablelogic/go-server/pkg/types"
)

///////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// ListModels returns all available models, following page tokens until
// the listing is complete. Results are cached.
func (c *Client) ListModels(ctx context.Context, opts ...opt.Opt) ([]schema.Model, error) {
	return c.ModelCache.ListModels(ctx, opts, func(ctx context.Context, opts ...opt.Opt) ([]schema.Model, error) {
		options, err := opt.Apply(opts...)
		if err != nil {
			return nil, err
		}

		// Request with pagination
		query := options.Query(opt.PageSizeKey)
		result := make([]schema.Model, 0, 64)
		for {
			var response listModelsResponse
			if err := c.DoWithContext(ctx, nil, &response, client.OptPath("models"), client.OptQuery(query)); err != nil {
				return nil, providerError(err)
			}
			for _, model := range response.Models {
				result = append(result, model.toSchema())
			}
			if response.NextPageToken == "" {
				break
			}
			query.Set(opt.PageTokenKey, response.NextPageToken)
		}

		return result, nil
	})
}

// GetModel returns a model by name, with or without the "models/" prefix
func (c *Client) GetModel(ctx context.Context, name string) (*schema.Model, error) {
	return c.ModelCache.GetModel(ctx, name, func(ctx context.Context, name string) (*schema.Model, error) {
		var response modelResource
		if err := c.DoWithContext(ctx, nil, &response, client.OptPath("models", url.PathEscape(name))); err != nil {
			return nil, providerError(err)
		}
		return types.Ptr(response.toSchema()), nil
	})
}

///////////////////////////////////////////////////////////////////////////////
// PRIVATE METHODS

func (m *modelResource) toSchema() schema.Model {
	// Keep the complete descriptor as metadata
	var meta map[string]any
	if data, err := json.Marshal(m); err == nil {
		json.Unmarshal(data, &meta)
	}

	return schema.Model{
		Name:             strings.TrimPrefix(m.Name, "models/"),
		DisplayName:      m.DisplayName,
		Description:      m.Description,
		InputTokenLimit:  m.InputTokenLimit,
		OutputTokenLimit: m.OutputTokenLimit,
		Methods:          m.SupportedGenerationMethods,
		Meta:             meta,
	}
}
