package media

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"cookbook/internal/models"
)

const (
	DefaultBaseURL          = "https://blobcookbook.blob.core.windows.net"
	DefaultContainer        = "cookbook-media"
	DefaultPlaceholder      = "https://placehold.co/150/667eea/ffffff?text=No+Image"
	DefaultErrorPlaceholder = "https://placehold.co/150/eeeeee/999999?text=Error"

	defaultProbeTimeout = 10 * time.Second
)

// Resolver turns a recipe's media field into a displayable image URL.
type Resolver struct {
	BaseURL          string
	Container        string
	Placeholder      string
	ErrorPlaceholder string

	// Client is used by Check and Verify. Nil means a client with a short timeout.
	Client *http.Client
}

// Probe is the outcome of loading an image URL.
type Probe struct {
	URL         string
	Status      int
	ContentType string
	Size        int64
	Err         error
}

// OK reports whether the image loaded.
func (p Probe) OK() bool {
	return p.Err == nil && p.Status >= 200 && p.Status < 300
}

type mediaRef struct {
	FullURL  string `json:"fullUrl"`
	URL      string `json:"url"`
	BlobName string `json:"blobName"`
}

// DefaultResolver returns a resolver with the stock storage address and placeholders.
func DefaultResolver() Resolver {
	return Resolver{
		BaseURL:          DefaultBaseURL,
		Container:        DefaultContainer,
		Placeholder:      DefaultPlaceholder,
		ErrorPlaceholder: DefaultErrorPlaceholder,
	}
}

// Resolve picks, in order: a full URL field, a blob name field, a bare string
// blob name, and finally the placeholder. Wrapped media is unwrapped first.
func (r Resolver) Resolve(raw json.RawMessage) string {
	unwrapped, err := models.Unwrap(raw)
	if err != nil {
		return r.placeholder()
	}
	trimmed := bytes.TrimSpace(unwrapped)
	if len(trimmed) == 0 {
		return r.placeholder()
	}

	switch trimmed[0] {
	case '"':
		var name string
		if err := json.Unmarshal(trimmed, &name); err != nil {
			return r.placeholder()
		}
		if name = strings.TrimSpace(name); name != "" {
			return r.BlobURL(name)
		}
	case '{':
		var ref mediaRef
		if err := json.Unmarshal(trimmed, &ref); err != nil {
			return r.placeholder()
		}
		if u := strings.TrimSpace(ref.FullURL); u != "" {
			return u
		}
		if u := strings.TrimSpace(ref.URL); u != "" {
			return u
		}
		if name := strings.TrimSpace(ref.BlobName); name != "" {
			return r.BlobURL(name)
		}
	}
	return r.placeholder()
}

// BlobURL builds the storage address of an object name.
func (r Resolver) BlobURL(name string) string {
	base := strings.TrimRight(r.BaseURL, "/")
	if base == "" {
		base = DefaultBaseURL
	}
	container := strings.Trim(r.Container, "/")

	elems := make([]string, 0, 2)
	if container != "" {
		elems = append(elems, container)
	}
	elems = append(elems, name)

	joined, err := url.JoinPath(base, elems...)
	if err != nil {
		return base + "/" + strings.Join(elems, "/")
	}
	return joined
}

// Check loads imageURL with a HEAD request, retrying as GET when the host
// rejects HEAD.
func (r Resolver) Check(ctx context.Context, imageURL string) Probe {
	probe := r.probe(ctx, http.MethodHead, imageURL)
	if probe.Status == http.StatusMethodNotAllowed || probe.Status == http.StatusNotImplemented {
		probe = r.probe(ctx, http.MethodGet, imageURL)
	}
	return probe
}

// Verify returns imageURL when it loads and the error placeholder otherwise.
// Placeholders are returned as-is without a request.
func (r Resolver) Verify(ctx context.Context, imageURL string) string {
	if imageURL == r.placeholder() || imageURL == r.errorPlaceholder() {
		return imageURL
	}
	if !r.Check(ctx, imageURL).OK() {
		return r.errorPlaceholder()
	}
	return imageURL
}

// ErrorImage is the URL display layers swap in when an image fails to load.
func (r Resolver) ErrorImage() string {
	return r.errorPlaceholder()
}

func (r Resolver) probe(ctx context.Context, method, imageURL string) Probe {
	probe := Probe{URL: imageURL, Size: -1}

	req, err := http.NewRequestWithContext(ctx, method, imageURL, nil)
	if err != nil {
		probe.Err = err
		return probe
	}
	resp, err := r.client().Do(req)
	if err != nil {
		probe.Err = err
		return probe
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 1<<20))

	probe.Status = resp.StatusCode
	probe.ContentType = resp.Header.Get("Content-Type")
	probe.Size = resp.ContentLength
	if probe.Status >= 400 {
		probe.Err = fmt.Errorf("image request returned %s", resp.Status)
	}
	return probe
}

func (r Resolver) client() *http.Client {
	if r.Client != nil {
		return r.Client
	}
	return &http.Client{Timeout: defaultProbeTimeout}
}

func (r Resolver) placeholder() string {
	if r.Placeholder != "" {
		return r.Placeholder
	}
	return DefaultPlaceholder
}

func (r Resolver) errorPlaceholder() string {
	if r.ErrorPlaceholder != "" {
		return r.ErrorPlaceholder
	}
	return DefaultErrorPlaceholder
}
