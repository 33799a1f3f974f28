package translator

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	translate "cloud.google.com/go/translate/apiv3"
	"cloud.google.com/go/translate/apiv3/translatepb"
	gax "github.com/googleapis/gax-go/v2"
	"github.com/googleapis/gax-go/v2/apierror"
	"golang.org/x/oauth2"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

const (
	DefaultGoogleURL      = "https://translation.googleapis.com"
	DefaultGoogleLocation = "global"

	providerGoogle = "google"
)

// GoogleConfig holds the settings of the Cloud Translation v3 client.
//
// ProjectID: Google Cloud project the API is enabled in (required)
// Location: API location, "global" unless a regional endpoint is wanted
// APIURL: base URL of the service
// AccessToken: OAuth2 access token; Application Default Credentials are used when empty
// Timeout: request timeout in seconds
type GoogleConfig struct {
	ProjectID   string
	Location    string
	APIURL      string
	AccessToken string
	Timeout     int
}

// Validate validates the configuration
func (c GoogleConfig) Validate() error {
	if c.ProjectID == "" {
		return fmt.Errorf("project ID is required")
	}
	if c.Timeout < 1 {
		return fmt.Errorf("timeout must be greater than 0")
	}
	return nil
}

// Google translates text with the Cloud Translation v3 REST client.
// Safe for concurrent use.
type Google struct {
	client  *translate.TranslationClient
	parent  string
	timeout time.Duration
}

// NewGoogle creates a client. Credentials come from cfg.AccessToken or, when
// it is empty, from Application Default Credentials. opts are applied after
// the ones derived from cfg.
func NewGoogle(ctx context.Context, cfg GoogleConfig, opts ...option.ClientOption) (*Google, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	if cfg.Location == "" {
		cfg.Location = DefaultGoogleLocation
	}

	clientOpts := []option.ClientOption{option.WithQuotaProject(cfg.ProjectID)}
	if cfg.APIURL != "" {
		clientOpts = append(clientOpts, option.WithEndpoint(strings.TrimRight(cfg.APIURL, "/")))
	}
	if cfg.AccessToken != "" {
		clientOpts = append(clientOpts, option.WithTokenSource(
			oauth2.StaticTokenSource(&oauth2.Token{AccessToken: cfg.AccessToken})))
	}

	client, err := translate.NewTranslationRESTClient(ctx, append(clientOpts, opts...)...)
	if err != nil {
		return nil, fmt.Errorf("failed to create translation client: %w", err)
	}

	return &Google{
		client:  client,
		parent:  fmt.Sprintf("projects/%s/locations/%s", cfg.ProjectID, cfg.Location),
		timeout: time.Duration(cfg.Timeout) * time.Second,
	}, nil
}

// Close releases the underlying connection.
func (g *Google) Close() error {
	return g.client.Close()
}

// Translate sends one text/plain string and returns its only translation.
// The client does not retry; Retrying owns that.
func (g *Google) Translate(ctx context.Context, text, sourceLang, targetLang string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	resp, err := g.client.TranslateText(ctx, &translatepb.TranslateTextRequest{
		Parent:             g.parent,
		Contents:           []string{text},
		MimeType:           "text/plain",
		SourceLanguageCode: sourceLang,
		TargetLanguageCode: targetLang,
	}, gax.WithRetry(nil))
	if err != nil {
		return "", googleError(err)
	}

	translations := resp.GetTranslations()
	if len(translations) == 0 {
		return "", fmt.Errorf("no translations in response")
	}
	return translations[0].GetTranslatedText(), nil
}

// googleError turns an API status into a *ServiceError. Transport failures
// and context errors keep their own type.
func googleError(err error) error {
	var apiErr *apierror.APIError
	if !errors.As(err, &apiErr) {
		parsed, ok := apierror.FromError(err)
		if !ok {
			return fmt.Errorf("failed to make request: %w", err)
		}
		apiErr = parsed
	}

	svcErr := &ServiceError{
		Provider:   providerGoogle,
		StatusCode: apiErr.HTTPCode(),
	}
	if st := apiErr.GRPCStatus(); st != nil {
		svcErr.Status = st.Code().String()
		svcErr.Message = st.Message()
	}
	if svcErr.Message == "" {
		var httpErr *googleapi.Error
		if errors.As(err, &httpErr) {
			svcErr.Message = strings.TrimSpace(httpErr.Body)
		}
	}
	return svcErr
}
