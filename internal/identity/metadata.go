package identity

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

	"golang.org/x/oauth2"

	"github.com/hirelytics/hirelytics/internal/models"
	"github.com/hirelytics/hirelytics/internal/utils"
)

// MetadataWriter mirrors the chosen role into the identity provider's
// public metadata. Authorization never reads it back.
type MetadataWriter interface {
	SetPublicRole(ctx context.Context, userID string, role models.Role) error
}

type NopMetadataWriter struct{}

func (NopMetadataWriter) SetPublicRole(context.Context, string, models.Role) error { return nil }

// ClerkMetadataClient PATCHes /users/{id}/metadata on the provider's backend
// API. The secret key rides as a static bearer token.
type ClerkMetadataClient struct {
	baseURL string
	hc      *http.Client
}

func NewClerkMetadataClient(baseURL, secretKey string) *ClerkMetadataClient {
	src := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: secretKey, TokenType: "Bearer"})
	return &ClerkMetadataClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		hc: &http.Client{
			Timeout:   10 * time.Second,
			Transport: &oauth2.Transport{Source: src, Base: http.DefaultTransport},
		},
	}
}

func (c *ClerkMetadataClient) SetPublicRole(ctx context.Context, userID string, role models.Role) error {
	const op = "ClerkMetadataClient.SetPublicRole"
	if userID == "" {
		return utils.Unauthenticated(op)
	}
	body, err := json.Marshal(map[string]any{
		"public_metadata": map[string]any{"role": role},
	})
	if err != nil {
		return err
	}

	endpoint := c.baseURL + "/users/" + url.PathEscape(userID) + "/metadata"
	req, err := http.NewRequestWithContext(ctx, http.MethodPatch, endpoint, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.hc.Do(req)
	if err != nil {
		return utils.E(utils.CodeUnavailable, op, "identity provider unreachable", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return utils.E(utils.CodeUnavailable, op, "metadata update rejected",
			fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(b))))
	}
	return nil
}
