package drive

import (
	"context"
	"fmt"
	"os"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

// Scope is the OAuth2 scope required to read the source tree and create
// files in the destination.
const Scope = "https://www.googleapis.com/auth/drive"

// oauthTokenSource adapts an oauth2.TokenSource to the client's TokenSource
// interface. The underlying source caches and refreshes tokens as needed.
type oauthTokenSource struct {
	src oauth2.TokenSource
}

func (s *oauthTokenSource) Token() (string, error) {
	tok, err := s.src.Token()
	if err != nil {
		return "", fmt.Errorf("drive: obtaining access token: %w", err)
	}

	return tok.AccessToken, nil
}

// ServiceAccountTokenSource builds a TokenSource from a Google service
// account credentials JSON file. The credentials path comes from config —
// never read from ambient process state here.
//
// ctx must outlive the TokenSource: token refresh uses it. Callers pass the
// command's context.
func ServiceAccountTokenSource(ctx context.Context, credentialsPath string) (TokenSource, error) {
	data, err := os.ReadFile(credentialsPath)
	if err != nil {
		return nil, fmt.Errorf("drive: reading credentials file: %w", err)
	}

	cfg, err := google.JWTConfigFromJSON(data, Scope)
	if err != nil {
		return nil, fmt.Errorf("drive: parsing service account credentials %s: %w", credentialsPath, err)
	}

	return &oauthTokenSource{src: cfg.TokenSource(ctx)}, nil
}
