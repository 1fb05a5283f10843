package google

import (
	"context"
	"errors"
	"io"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	// Packages
	backoff "github.com/cenkalti/backoff/v5"
	client "github.com/mutablelogic/go-client"
	gemini "github.com/mutablelogic/go-gemini"
	opt "github.com/mutablelogic/go-gemini/pkg/opt"
	schema "github.com/mutablelogic/go-gemini/pkg/schema"
)

///////////////////////////////////////////////////////////////////////////////
// TYPES

// uploadSession captures the upload URL returned when a resumable upload
// is started
type uploadSession struct {
	url string
}

// rawPayload sends bytes with their own content type
type rawPayload struct {
	io.Reader
	mimetype string
}

var _ client.Unmarshaler = (*uploadSession)(nil)
var _ client.Payload = (*rawPayload)(nil)

///////////////////////////////////////////////////////////////////////////////
// GLOBALS

const (
	fileWaitAttempts = 30
	fileWaitInterval = 2 * time.Second
)

///////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// UploadFile uploads media with the resumable upload protocol and returns
// the file, which may still be processing. The MIME type is taken from
// WithMIMEType, else from the filename extension, else by sniffing the
// content. The display name defaults to the base of the filename.
//
// See: https://ai.google.dev/gemini-api/docs/files
func (c *Client) UploadFile(ctx context.Context, filename string, r io.ReadSeeker, opts ...opt.Opt) (*schema.File, error) {
	options, err := opt.Apply(opts...)
	if err != nil {
		return nil, err
	}

	// Size and type of the content
	size, err := r.Seek(0, io.SeekEnd)
	if err != nil {
		return nil, err
	} else if size == 0 {
		return nil, gemini.ErrBadParameter.Withf("%q is empty", filename)
	} else if _, err := r.Seek(0, io.SeekStart); err != nil {
		return nil, err
	}
	mimetype := options.GetString(opt.MIMETypeKey)
	if mimetype == "" {
		if mimetype, err = DetectMIMETypeReader(filename, r); err != nil {
			return nil, err
		} else if _, err := r.Seek(0, io.SeekStart); err != nil {
			return nil, err
		}
	}
	name := options.GetString(opt.DisplayNameKey)
	if name == "" {
		name = filepath.Base(filename)
	}

	// Start the upload
	payload, err := client.NewJSONRequest(map[string]any{
		"file": map[string]string{"display_name": name},
	})
	if err != nil {
		return nil, err
	}
	var session uploadSession
	if err := c.DoWithContext(ctx, payload, &session,
		client.OptReqEndpoint(c.upload),
		client.OptReqHeader("X-Goog-Upload-Protocol", "resumable"),
		client.OptReqHeader("X-Goog-Upload-Command", "start"),
		client.OptReqHeader("X-Goog-Upload-Header-Content-Length", strconv.FormatInt(size, 10)),
		client.OptReqHeader("X-Goog-Upload-Header-Content-Type", mimetype),
	); err != nil {
		return nil, providerError(err)
	} else if session.url == "" {
		return nil, gemini.ErrProvider.With("upload url was not returned")
	}

	// Send the content and finalize
	var response fileEnvelope
	if err := c.DoWithContext(ctx, &rawPayload{Reader: r, mimetype: mimetype}, &response,
		client.OptReqEndpoint(session.url),
		client.OptReqHeader("X-Goog-Upload-Offset", "0"),
		client.OptReqHeader("X-Goog-Upload-Command", "upload, finalize"),
	); err != nil {
		return nil, providerError(err)
	} else if response.File == nil {
		return nil, gemini.ErrProvider.With("upload returned no file")
	}

	return response.File.toSchema(), nil
}

// GetFile returns a file by name, with or without the "files/" prefix
func (c *Client) GetFile(ctx context.Context, name string) (*schema.File, error) {
	var response fileResource
	if err := c.DoWithContext(ctx, nil, &response, client.OptPath("files", fileID(name))); err != nil {
		return nil, providerError(err)
	}
	return response.toSchema(), nil
}

// ListFiles returns a page of uploaded files. Use WithPageSize and
// WithPageToken to page through the results.
func (c *Client) ListFiles(ctx context.Context, opts ...opt.Opt) (*schema.ListFilesResponse, error) {
	options, err := opt.Apply(opts...)
	if err != nil {
		return nil, err
	}

	var response listFilesResponse
	if err := c.DoWithContext(ctx, nil, &response, client.OptPath("files"), client.OptQuery(options.Query(opt.PageSizeKey, opt.PageTokenKey))); err != nil {
		return nil, providerError(err)
	}

	result := &schema.ListFilesResponse{
		Body:          make([]schema.File, 0, len(response.Files)),
		NextPageToken: response.NextPageToken,
	}
	for _, file := range response.Files {
		result.Body = append(result.Body, *file.toSchema())
	}
	return result, nil
}

// DeleteFile deletes a file by name
func (c *Client) DeleteFile(ctx context.Context, name string) error {
	if err := c.DoWithContext(ctx, client.MethodDelete, nil, client.OptPath("files", fileID(name))); err != nil {
		return providerError(err)
	}
	return nil
}

// WaitForFile polls a file until it is active. Processing failure returns
// an error matching gemini.ErrProvider immediately; a file which is still
// processing after the polling attempts returns an error matching
// gemini.ErrConflict.
func (c *Client) WaitForFile(ctx context.Context, name string) (*schema.File, error) {
	return c.waitForFile(ctx, name, fileWaitInterval, fileWaitAttempts)
}

///////////////////////////////////////////////////////////////////////////////
// PAYLOAD & UNMARSHAL

func (p *rawPayload) Method() string {
	return http.MethodPost
}

func (p *rawPayload) Accept() string {
	return client.ContentTypeJson
}

func (p *rawPayload) Type() string {
	return p.mimetype
}

func (s *uploadSession) Unmarshal(header http.Header, body io.Reader) error {
	s.url = header.Get("X-Goog-Upload-URL")
	_, err := io.Copy(io.Discard, body)
	return err
}

///////////////////////////////////////////////////////////////////////////////
// PRIVATE METHODS

func (c *Client) waitForFile(ctx context.Context, name string, interval time.Duration, attempts uint) (*schema.File, error) {
	operation := func() (*schema.File, error) {
		file, err := c.GetFile(ctx, name)
		if err != nil {
			return nil, backoff.Permanent(err)
		}
		switch file.State {
		case schema.FileStateActive:
			return file, nil
		case schema.FileStateFailed:
			return nil, backoff.Permanent(gemini.ErrProvider.Withf("processing %q failed: %s", file.Name, file.Error))
		default:
			return nil, gemini.ErrConflict.Withf("%q is in state %s", file.Name, file.State)
		}
	}

	file, err := backoff.Retry(ctx, operation,
		backoff.WithBackOff(backoff.NewConstantBackOff(interval)),
		backoff.WithMaxTries(attempts),
	)
	if err != nil {
		var permanent *backoff.PermanentError
		if errors.As(err, &permanent) {
			return nil, permanent.Err
		}
		return nil, err
	}
	return file, nil
}

func (f *fileResource) toSchema() *schema.File {
	file := &schema.File{
		Name:        f.Name,
		DisplayName: f.DisplayName,
		MIMEType:    f.MIMEType,
		Size:        f.SizeBytes,
		URI:         f.URI,
		State:       f.State,
		Hash:        f.SHA256Hash,
		Created:     timestamp(f.CreateTime),
		Updated:     timestamp(f.UpdateTime),
		Expires:     timestamp(f.ExpirationTime),
	}
	if f.Error != nil {
		file.Error = f.Error.Message
	}
	return file
}

// fileID returns the identifier of a file without the "files/" prefix
func fileID(name string) string {
	return strings.TrimPrefix(strings.TrimSpace(name), "files/")
}

// timestamp parses an RFC 3339 time, returning the zero time if invalid
func timestamp(value string) time.Time {
	if t, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return t
	}
	return time.Time{}
}
